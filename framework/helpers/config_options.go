package helpers

// ConfigOption is one step of a functional-options list, applied with ApplyOptions. The engine
// uses it for per-request settings such as headers and query parameters.
type ConfigOption[T any] interface {
	Configure(*T) error
}

// ConfigOptionFunc lets a plain function be used as a ConfigOption.
type ConfigOptionFunc[T any] func(*T) error

func (f ConfigOptionFunc[T]) Configure(target *T) error { return f(target) }

// ApplyOptions applies options to target in order and stops at the first error.
//
// The U type parameter lets callers pass a named option type, such as contract.RequestOption,
// without converting each element to ConfigOption[T].
func ApplyOptions[T any, U ConfigOption[T]](target *T, options ...U) error {
	for _, option := range options {
		if err := option.Configure(target); err != nil {
			return err
		}
	}
	return nil
}
