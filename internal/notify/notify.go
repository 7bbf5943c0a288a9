// Package notify provides the notification surface that receives short
// success and error messages from the contact state machines.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 5 * time.Second

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notifier receives notifications. Nothing flows back to the caller.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/notifier.go . Notifier
type Notifier interface {
	Notify(message string, kind Kind)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, kind Kind)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string, kind Kind) {
	f(message, kind)
}

// Discard is a Notifier that drops every message.
var Discard Notifier = NotifierFunc(func(string, Kind) {})

// Notification is a message currently on display.
type Notification struct {
	ID        uint64
	Message   string
	Kind      Kind
	ExpiresAt time.Time
}

// Toaster shows one notification at a time. Each notification dismisses
// itself after a fixed duration; a newer notification replaces the current
// one, and the replaced notification's timer can no longer dismiss anything.
type Toaster struct {
	duration time.Duration

	mu        sync.Mutex
	current   *Notification
	timer     *time.Timer
	seq       uint64
	listeners []func()
}

// NewToaster creates a Toaster. A non-positive duration uses DefaultDuration.
func NewToaster(duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Toaster{duration: duration}
}

// Notify implements Notifier.
func (t *Toaster) Notify(message string, kind Kind) {
	t.mu.Lock()
	t.seq++
	id := t.seq
	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = &Notification{
		ID:        id,
		Message:   message,
		Kind:      kind,
		ExpiresAt: time.Now().Add(t.duration),
	}
	t.timer = time.AfterFunc(t.duration, func() { t.expire(id) })
	listeners := t.listeners
	t.mu.Unlock()

	emit(listeners)
}

// Current returns the notification on display, if any.
func (t *Toaster) Current() (Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return Notification{}, false
	}
	return *t.current, true
}

// Dismiss removes the current notification early.
func (t *Toaster) Dismiss() {
	t.mu.Lock()
	if t.current == nil {
		t.mu.Unlock()
		return
	}
	t.clearLocked()
	listeners := t.listeners
	t.mu.Unlock()

	emit(listeners)
}

// Subscribe registers fn to be called whenever the displayed notification
// changes. fn is called without internal locks held.
func (t *Toaster) Subscribe(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Close stops the pending dismiss timer.
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Toaster) expire(id uint64) {
	t.mu.Lock()
	if t.current == nil || t.current.ID != id {
		t.mu.Unlock()
		return
	}
	t.clearLocked()
	listeners := t.listeners
	t.mu.Unlock()

	emit(listeners)
}

func (t *Toaster) clearLocked() {
	t.current = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func emit(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(message string, kind Kind) {
	if kind == KindError {
		n.logger.Error(message)
		return
	}
	n.logger.Info(message)
}

// Printer writes styled notifications to a terminal, one per line.
type Printer struct {
	out io.Writer
	mu  sync.Mutex
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Notify implements Notifier.
func (p *Printer) Notify(message string, kind Kind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	//nolint:errcheck // best-effort terminal output
	fmt.Fprintln(p.out, Render(Notification{Message: message, Kind: kind}))
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Render formats n for terminal display.
func Render(n Notification) string {
	if n.Kind == KindError {
		return errorStyle.Render("✗ " + n.Message)
	}
	return successStyle.Render("✓ " + n.Message)
}
