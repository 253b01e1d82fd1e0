package framework

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface shared by the engine, the transport, and the mock API.
// It is satisfied by *log.Logger.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type discardLogger struct{}

func (discardLogger) Println(...interface{})        {}
func (discardLogger) Printf(string, ...interface{}) {}

// NullLogger returns a Logger that drops everything.
func NullLogger() Logger { return discardLogger{} }

// CapturedLine is one timestamped message held by a CapturingLogger.
type CapturedLine struct {
	Time    time.Time
	Message string
}

// CapturedOutput is the debug output of one scenario, oldest line first.
type CapturedOutput []CapturedLine

// CapturingLogger buffers log lines for a scenario scope instead of printing them.
//
// A scope can have nested scopes attached to it. While any are attached, lines logged to the
// outer scope are routed to them rather than kept, so traffic from the engine (which logs to
// the root scope) ends up in the output of the scenario that caused it.
type CapturingLogger struct {
	mu       sync.Mutex
	lines    CapturedOutput
	attached []*CapturingLogger
}

func (l *CapturingLogger) Println(args ...interface{}) {
	l.write(time.Now(), strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.write(time.Now(), fmt.Sprintf(message, args...))
}

func (l *CapturingLogger) write(at time.Time, message string) {
	l.mu.Lock()
	targets := l.attached
	if len(targets) == 0 {
		l.lines = append(l.lines, CapturedLine{Time: at, Message: message})
	}
	l.mu.Unlock()
	for _, target := range targets {
		target.write(at, message)
	}
}

// Output returns a snapshot of the lines kept so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(CapturedOutput(nil), l.lines...)
}

// Attach starts routing this scope's lines to inner. The lines already kept by this scope are
// copied to the front of inner's output, so a nested scenario also shows its parent's setup.
func (l *CapturingLogger) Attach(inner *CapturingLogger) {
	l.mu.Lock()
	inherited := append(CapturedOutput(nil), l.lines...)
	attached := make([]*CapturingLogger, 0, len(l.attached)+1)
	l.attached = append(append(attached, l.attached...), inner)
	l.mu.Unlock()

	inner.mu.Lock()
	inner.lines = append(inherited, inner.lines...)
	inner.mu.Unlock()
}

// Detach stops routing lines to inner. Detaching a scope that is not attached does nothing.
func (l *CapturingLogger) Detach(inner *CapturingLogger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining := make([]*CapturingLogger, 0, len(l.attached))
	for _, a := range l.attached {
		if a != inner {
			remaining = append(remaining, a)
		}
	}
	l.attached = remaining
}

// Lines formats each captured line as "<prefix>[<timestamp>] <message>".
func (output CapturedOutput) Lines(prefix string) []string {
	ret := make([]string, 0, len(output))
	for _, line := range output {
		ret = append(ret, prefix+"["+line.Time.Format(timestampFormat)+"] "+line.Message)
	}
	return ret
}

// ToString is Lines joined with newlines.
func (output CapturedOutput) ToString(prefix string) string {
	return strings.Join(output.Lines(prefix), "\n")
}

type taggedLogger struct {
	target Logger
	tag    string
}

// LoggerWithPrefix returns a Logger that puts tag in front of every message, for instance to
// mark engine output with a request ID.
func LoggerWithPrefix(target Logger, tag string) Logger {
	return taggedLogger{target: target, tag: tag}
}

func (t taggedLogger) Println(args ...interface{}) {
	t.target.Println(append([]interface{}{t.tag}, args...)...)
}

func (t taggedLogger) Printf(message string, args ...interface{}) {
	t.target.Printf(t.tag+message, args...)
}
