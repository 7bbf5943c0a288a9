package notify

import (
	"bytes"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToaster(t *testing.T) {
	assert.Equal(t, DefaultDuration, NewToaster(0).duration)
	assert.Equal(t, time.Second, NewToaster(time.Second).duration)
}

func TestToaster_Notify(t *testing.T) {
	t.Run("shows the notification until it expires", func(t *testing.T) {
		toaster := NewToaster(30 * time.Millisecond)
		defer toaster.Close()

		toaster.Notify("Contact added", KindSuccess)

		n, ok := toaster.Current()
		require.True(t, ok)
		assert.Equal(t, "Contact added", n.Message)
		assert.Equal(t, KindSuccess, n.Kind)

		require.Eventually(t, func() bool {
			_, ok := toaster.Current()
			return !ok
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("newer notification replaces the current one", func(t *testing.T) {
		toaster := NewToaster(time.Minute)
		defer toaster.Close()

		toaster.Notify("first", KindSuccess)
		toaster.Notify("second", KindError)

		n, ok := toaster.Current()
		require.True(t, ok)
		assert.Equal(t, "second", n.Message)
		assert.Equal(t, KindError, n.Kind)
	})

	t.Run("replaced notification timer does not dismiss its successor", func(t *testing.T) {
		toaster := NewToaster(40 * time.Millisecond)
		defer toaster.Close()

		toaster.Notify("first", KindSuccess)
		time.Sleep(25 * time.Millisecond)
		toaster.Notify("second", KindSuccess)

		// The first timer would have fired by now.
		time.Sleep(25 * time.Millisecond)
		n, ok := toaster.Current()
		require.True(t, ok)
		assert.Equal(t, "second", n.Message)
	})
}

func TestToaster_Dismiss(t *testing.T) {
	toaster := NewToaster(time.Minute)
	var changes atomic.Int32
	toaster.Subscribe(func() { changes.Add(1) })

	toaster.Dismiss() // nothing shown, no change
	toaster.Notify("hello", KindSuccess)
	toaster.Dismiss()

	_, ok := toaster.Current()
	assert.False(t, ok)
	assert.Equal(t, int32(2), changes.Load())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	n := NewLogNotifier(logger)
	n.Notify("saved", KindSuccess)
	n.Notify("failed", KindError)

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=saved")
	assert.Contains(t, out, "level=ERROR msg=failed")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer

	NewPrinter(&buf).Notify("Contact deleted", KindSuccess)

	assert.Contains(t, buf.String(), "Contact deleted")
}

func TestNotifierFunc(t *testing.T) {
	var got string
	NotifierFunc(func(message string, _ Kind) { got = message }).Notify("hi", KindSuccess)

	assert.Equal(t, "hi", got)
	assert.NotPanics(t, func() { Discard.Notify("ignored", KindError) })
}
