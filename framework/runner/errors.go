package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/restcontract/rest-contract-tests/framework/contract"
)

const maxStackDepth = 64

// ErrorWithStacktrace is a scenario failure along with the call sites in scenario code that led
// to it.
type ErrorWithStacktrace struct {
	Message    string
	Stacktrace []StacktraceInfo
}

// StacktraceInfo is one frame of an ErrorWithStacktrace.
type StacktraceInfo struct {
	FileName string
	Package  string
	Function string
	Line     int
}

func (e ErrorWithStacktrace) Error() string { return e.Message }

func (s StacktraceInfo) String() string {
	pkg := strings.TrimPrefix(s.Package, rootPackageName()+"/")
	return fmt.Sprintf("%s.%s (%s:%d)", pkg, s.Function, s.FileName, s.Line)
}

// testify prefixes its failure messages with its own trace, which is useless here since it
// only ever points into the runner.
var testifyTracePrefix = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

func transformError(err error, stacktrace []StacktraceInfo) error {
	message := err.Error()
	if testifyTracePrefix.MatchString(message) {
		message = strings.TrimSpace(testifyTracePrefix.ReplaceAllLiteralString(message, ""))
	}
	if len(stacktrace) == 0 {
		return errors.New(message)
	}
	return ErrorWithStacktrace{Message: message, Stacktrace: stacktrace}
}

// frameFilter decides which frames of a failure's call stack are worth showing.
type frameFilter struct {
	runnerPackage string
	enginePackage string
	keepFramework bool
	hiddenHelpers map[string]bool
}

func newFrameFilter(keepFramework bool, helperFns []string) frameFilter {
	hidden := make(map[string]bool, len(helperFns))
	for _, fn := range helperFns {
		hidden[fn] = true
	}
	return frameFilter{
		runnerPackage: currentPackageName(),
		enginePackage: enginePackageName(),
		keepFramework: keepFramework,
		hiddenHelpers: hidden,
	}
}

// isRoot reports whether the frame is runner.Run, above which nothing belongs to the scenarios.
func (f frameFilter) isRoot(pkg, fn string) bool {
	return pkg == f.runnerPackage && fn == "Run"
}

func (f frameFilter) keep(fullName, pkg string) bool {
	if f.hiddenHelpers[fullName] {
		return false
	}
	return f.keepFramework || (pkg != f.runnerPackage && pkg != f.enginePackage)
}

// getStacktrace returns the frames between its caller and runner.Run, innermost first. Unless
// includeFrameworkCode is set, frames in the runner and the engine are dropped; frames whose
// fully qualified function name is in helperFns are always dropped.
func getStacktrace(includeFrameworkCode bool, helperFns []string) []StacktraceInfo {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	filter := newFrameFilter(includeFrameworkCode, helperFns)

	ret := []StacktraceInfo{}
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			break
		}
		pkg, fn := parsePackageAndFunctionName(frame.Function)
		if filter.isRoot(pkg, fn) {
			break
		}
		if filter.keep(frame.Function, pkg) {
			ret = append(ret, StacktraceInfo{
				FileName: filepath.Base(frame.File),
				Package:  pkg,
				Function: fn,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}
	return ret
}

func currentPackageName() string {
	return reflect.TypeOf((*T)(nil)).Elem().PkgPath()
}

// enginePackageName is hidden along with the runner, since a failure reported by T.Wait passes
// through the engine before reaching T.Errorf.
func enginePackageName() string {
	return reflect.TypeOf(contract.Outcome{}).PkgPath()
}

// rootPackageName is the module path, used to shorten package names in printed stacktraces.
func rootPackageName() string {
	parts := strings.Split(currentPackageName(), "/")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "/")
}

// parsePackageAndFunctionName splits a name like "example.com/a/b.(*T).Run.func1" into
// "example.com/a/b" and "(*T).Run.func1".
func parsePackageAndFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	dot := strings.Index(fullName[lastSlash+1:], ".")
	if dot < 0 {
		return fullName, ""
	}
	pkgEnd := lastSlash + 1 + dot
	return fullName[:pkgEnd], fullName[pkgEnd+1:]
}
