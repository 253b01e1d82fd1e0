package helpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestRecorder(t *testing.T) {
	t.Run("Errorf", func(t *testing.T) {
		var tr TestRecorder
		tr.Errorf("hello %s", "there")
		tr.Errorf("bye")
		assert.Equal(t, []string{"hello there", "bye"}, tr.Errors)
		assert.False(t, tr.Terminated)
	})

	t.Run("FailNow", func(t *testing.T) {
		var tr1 TestRecorder
		tr1.FailNow()
		assert.True(t, tr1.Terminated)

		tr2 := TestRecorder{PanicOnTerminate: true}
		assert.Panics(t, func() { tr2.FailNow() })
		assert.True(t, tr2.Terminated)
	})

	t.Run("Err", func(t *testing.T) {
		var tr TestRecorder
		assert.Nil(t, tr.Err())

		tr.Errorf("hello %s", "there")
		tr.Errorf("bye")
		assert.Equal(t, errors.New("hello there, bye"), tr.Err())
	})
}

type optTarget struct {
	names []string
}

func TestApplyOptions(t *testing.T) {
	add := func(name string) ConfigOptionFunc[optTarget] {
		return func(o *optTarget) error {
			o.names = append(o.names, name)
			return nil
		}
	}
	fail := ConfigOptionFunc[optTarget](func(*optTarget) error { return errors.New("bad option") })

	var target optTarget
	assert.NoError(t, ApplyOptions(&target, add("a"), add("b")))
	assert.Equal(t, []string{"a", "b"}, target.names)

	var target2 optTarget
	err := ApplyOptions(&target2, add("a"), fail, add("c"))
	assert.EqualError(t, err, "bad option")
	assert.Equal(t, []string{"a"}, target2.names)
}
