package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/contract"
)

type environment struct {
	config  Config
	engine  *contract.Engine
	results Results
}

// T represents a scenario scope. It is very similar to Go's testing.T type.
type T struct {
	env         *environment
	id          ScenarioID
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	cleanups    []func()
	errors      []error
	helperFns   []string
}

// Config contains options for the entire run.
type Config struct {
	// Filter is an optional way to choose which scenarios to run based on their names.
	Filter Filter

	// Logger receives status information about each scenario.
	Logger ScenarioLogger

	// Context is an optional value of any type defined by the application which can be accessed
	// from scenarios, such as the fixture set.
	Context interface{}

	// Engine configures the contract engine that scenarios issue requests through.
	Engine contract.Config

	// Transport carries the engine's requests. If it is nil, no engine is created and scenarios
	// cannot issue requests.
	Transport contract.Transport
}

// Run starts a top-level scenario scope. It returns an error only if the engine could not be
// created; scenario failures are reported in the Results.
func Run(config Config, action func(*T)) (Results, error) {
	if config.Logger == nil {
		config.Logger = nullScenarioLogger{}
	}
	env := &environment{config: config}
	t := &T{env: env}
	if config.Transport != nil {
		// The engine logs to the root scope, whose output is forwarded to whichever scenario is
		// running at the time.
		engine, err := contract.NewEngine(config.Engine, config.Transport, &t.debugLogger)
		if err != nil {
			return Results{}, fmt.Errorf("invalid engine configuration: %w", err)
		}
		env.engine = engine
	}
	t.run(action)
	if env.engine != nil {
		env.results.Expectations = env.engine.Summary()
	}
	return env.results, nil
}

func (t *T) run(action func(*T)) (result ScenarioResult) {
	result.ID = t.id
	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil && !t.skipped {
			t.failed = true
			var addError error
			if _, ok := r.(*T); ok {
				if len(t.errors) == 0 {
					addError = errors.New("scenario failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in scenario: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				t.errors = append(t.errors, addError)
				t.env.config.Logger.ScenarioError(t.id, addError)
			}
		}
		if !t.skipped {
			t.verifyPending()
		}
		for i := len(t.cleanups) - 1; i >= 0; i-- {
			t.cleanups[i]()
		}
		result.Errors = t.errors
		result.Duration = time.Since(startTime)
		if t.skipped {
			result.SkipReason = t.skipReason
			t.env.results.Skipped = append(t.env.results.Skipped, result)
		} else if t.failed {
			t.env.results.Failures = append(t.env.results.Failures, result)
		}
		t.env.results.Scenarios = append(t.env.results.Scenarios, result)
	}()

	action(t)
	return result
}

// verifyPending evaluates any expectations the scenario registered but did not wait for, so that
// they are attributed to this scenario rather than to whichever one flushes next.
func (t *T) verifyPending() {
	if t.env.engine == nil {
		return
	}
	for _, o := range t.env.engine.Flush(context.Background()) {
		if !o.Passed() {
			t.failed = true
			err := errors.New(o.Report())
			t.errors = append(t.errors, err)
			t.env.config.Logger.ScenarioError(t.id, err)
		}
	}
}

// ID returns the full name of the current scenario.
func (t *T) ID() ScenarioID {
	return t.id
}

// Run runs a child scenario in its own scope.
//
// This is equivalent to Go's testing.T.Run.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)

	t.env.config.Logger.ScenarioStarted(id)
	if t.env.config.Filter != nil && !t.env.config.Filter.Match(id) {
		t.env.config.Logger.ScenarioSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &T{
		id:  id,
		env: t.env,
	}
	t.debugLogger.Attach(&c1.debugLogger) // see comments on t.DebugLogger()
	result := c1.run(action)
	t.debugLogger.Detach(&c1.debugLogger)
	if c1.skipped {
		t.env.config.Logger.ScenarioSkipped(id, c1.skipReason)
	} else {
		t.env.config.Logger.ScenarioFinished(id, result, c1.debugLogger.Output())
	}
}

// Errorf reports a scenario failure. It is equivalent to Go's testing.T.Errorf. It does not cause
// the scenario to terminate, but adds the failure message to the output and marks the scenario as
// failed.
//
// You will rarely use this method directly; it is part of this type's implementation of the base
// interfaces testing.T and assert.TestingT, allowing it to be called from assertion helpers.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)

	stacktrace := getStacktrace(false, t.helperFns)
	err = transformError(err, stacktrace)

	t.errors = append(t.errors, err)
	t.env.config.Logger.ScenarioError(t.id, err)
}

// FailNow causes the scenario to immediately terminate and be marked as failed.
func (t *T) FailNow() {
	panic(t)
}

// Failed returns true if the scenario has failed so far.
func (t *T) Failed() bool {
	return t.failed
}

// Skip causes the scenario to immediately terminate and be marked as skipped.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason is equivalent to Skip but provides a message.
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Pending marks a scenario that is declared but not implemented yet. It is reported as skipped.
func (t *T) Pending() {
	t.SkipWithReason("pending")
}

// Debug writes a message to the output for this scenario scope.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger instance for writing output for this scenario scope.
//
// The output that is captured for a scenario will be passed to ScenarioLogger.ScenarioFinished at
// the end of the scenario. The runner can choose whether to display this or not based on
// command-line options.
//
// When a scenario has children (created with t.Run), the logger for a child starts out with a copy
// of any output that was already logged for the parent. During the lifetime of the child, any
// further output that is sent to the parent's logger will go to the child's logger instead. The
// engine logs to the root scope, so its request traffic always shows up in the scenario that is
// currently running.
func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Defer schedules a cleanup function which is guaranteed to be called when this scenario scope
// exits for any reason. Unlike a Go defer statement, Defer can be used from within helper
// functions.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}

// Context returns the application-defined context value, if any, that was specified in the Config.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

// Helper marks the function that calls it as a helper that shouldn't appear in stacktraces.
// Equivalent to Go's testing.T.Helper().
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	t.helperFns = append(t.helperFns, f.Name())
}
