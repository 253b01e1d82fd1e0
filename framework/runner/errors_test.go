package runner

import (
	"errors"
	"testing"

	"github.com/restcontract/rest-contract-tests/framework/runner/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStacktrace(t *testing.T) {
	_ = run(t, Config{}, func(s *T) {
		s.Run("without filtering", func(s *T) {
			stack := getStacktrace(true, nil)
			require.Greater(t, len(stack), 1)
			assert.Equal(t, currentPackageName(), stack[0].Package)
			assert.Contains(t, stack[0].Function, "TestStacktrace.")
			assert.Equal(t, currentPackageName(), stack[1].Package)
			assert.Equal(t, "(*T).run", stack[1].Function)
		})

		s.Run("auto-filtering removes runner methods", func(s *T) {
			internal.RunAction(func() {
				stack := getStacktrace(false, nil)
				require.Len(t, stack, 1)
				assert.Equal(t, currentPackageName()+"/internal", stack[0].Package)
				assert.Equal(t, "RunAction", stack[0].Function)
			})
		})

		s.Run("filter out designated helpers", func(s *T) {
			helperFunc1(func() {
				helperFunc2(func() {
					stack := getStacktrace(true, []string{currentPackageName() + ".helperFunc2"})
					foundFunc1 := false
					for _, f := range stack {
						if f.Package == currentPackageName() && f.Function == "helperFunc1" {
							foundFunc1 = true
						} else if f.Package == currentPackageName() && f.Function == "helperFunc2" {
							require.Fail(t, "helperFunc2 should not have been in stacktrace", "stacktrace: %+v", stack)
						}
					}
					assert.True(t, foundFunc1, "helperFunc1 should have been in stacktrace but wasn't: %+v", stack)
				})
			})
		})
	})
}

func TestEnginePackageIsKnown(t *testing.T) {
	assert.Equal(t, rootPackageName()+"/framework/contract", enginePackageName())
}

func TestTransformErrorRemovesTestifyTrace(t *testing.T) {
	err := transformError(errors.New("\n\tError Trace:\tfoo.go:12\n\tError:      \tShould be true"), nil)
	assert.Equal(t, "Should be true", err.Error())

	err = transformError(errors.New("plain"), []StacktraceInfo{{FileName: "a.go", Package: "p", Function: "F", Line: 3}})
	var es ErrorWithStacktrace
	require.True(t, errors.As(err, &es))
	assert.Equal(t, "plain", es.Message)
	assert.Len(t, es.Stacktrace, 1)
}

func TestParsePackageAndFunctionName(t *testing.T) {
	pkg, fn := parsePackageAndFunctionName("example.com/a/b.(*T).Run.func1")
	assert.Equal(t, "example.com/a/b", pkg)
	assert.Equal(t, "(*T).Run.func1", fn)

	pkg, fn = parsePackageAndFunctionName("main.main")
	assert.Equal(t, "main", pkg)
	assert.Equal(t, "main", fn)
}

func TestStacktraceInfoString(t *testing.T) {
	s := StacktraceInfo{FileName: "resource_read.go", Package: rootPackageName() + "/apitests", Function: "doReadTests", Line: 42}
	assert.Equal(t, "apitests.doReadTests (resource_read.go:42)", s.String())
}

func helperFunc1(action func()) {
	action()
}

func helperFunc2(action func()) {
	action()
}
