package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const window = 30 * time.Millisecond

// recorder collects the values passed to debounced calls.
type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) fn(v string) func() {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.values = append(r.values, v)
	}
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_Trigger(t *testing.T) {
	t.Run("runs once after the window", func(t *testing.T) {
		d := New(window)
		rec := &recorder{}

		d.Trigger(rec.fn("a"))
		assert.True(t, d.Pending())

		require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{"a"}, rec.get())
		assert.False(t, d.Pending())
	})

	t.Run("last trigger wins", func(t *testing.T) {
		d := New(window)
		rec := &recorder{}

		d.Trigger(rec.fn("a"))
		d.Trigger(rec.fn("ab"))
		d.Trigger(rec.fn("abc"))

		require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(3 * window)
		assert.Equal(t, []string{"abc"}, rec.get())
	})

	t.Run("each trigger restarts the window", func(t *testing.T) {
		d := New(window)
		rec := &recorder{}

		for _, v := range []string{"a", "ab", "abc", "abcd"} {
			d.Trigger(rec.fn(v))
			time.Sleep(window / 3)
		}
		assert.Empty(t, rec.get())

		require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{"abcd"}, rec.get())
	})
}

func TestDebouncer_Cancel(t *testing.T) {
	d := New(window)
	rec := &recorder{}

	d.Trigger(rec.fn("a"))
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	time.Sleep(3 * window)
	assert.Empty(t, rec.get())
}

func TestDebouncer_Stop(t *testing.T) {
	d := New(window)
	rec := &recorder{}

	d.Trigger(rec.fn("a"))
	d.Stop()
	d.Trigger(rec.fn("b"))

	time.Sleep(3 * window)
	assert.Empty(t, rec.get())
	assert.False(t, d.Pending())
}

func TestDebouncer_Wait(t *testing.T) {
	assert.Equal(t, window, New(window).Wait())
}
