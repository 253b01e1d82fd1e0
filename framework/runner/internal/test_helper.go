// Package internal holds code that runner's own tests need to live outside the runner package.
package internal

// RunAction calls action. Stacktrace tests use it to get a frame that the runner does not filter.
func RunAction(action func()) {
	action()
}
