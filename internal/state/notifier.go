// Package state holds the in-process caches that sit between the transports
// and the use cases. Every mutation writes through to the repository and then
// reloads the whole collection.
package state

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"docstore/internal/clock"
	"docstore/internal/model"
)

// DefaultDismissTimeout is how long a notification stays open when the
// consumer does not dismiss it.
const DefaultDismissTimeout = 10 * time.Second

// Surface displays notifications. dismiss closes the notification it was
// handed and is a no-op once a newer notification has replaced it.
type Surface interface {
	Show(n model.Notification, dismiss func())
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(n model.Notification, dismiss func())

func (f SurfaceFunc) Show(n model.Notification, dismiss func()) { f(n, dismiss) }

// Notifier is the idle -> pending -> notifying -> idle state machine.
type Notifier struct {
	mu      sync.Mutex
	current model.Notification
	gen     uint64
	timer   *time.Timer
	timeout time.Duration
	clock   clock.Clock
	surface Surface
}

// NewNotifier creates an idle Notifier. A zero timeout disables auto-dismiss.
// surface may be nil.
func NewNotifier(timeout time.Duration, c clock.Clock, surface Surface) *Notifier {
	return &Notifier{
		current: model.Notification{Phase: model.PhaseIdle},
		timeout: timeout,
		clock:   c,
		surface: surface,
	}
}

// Begin moves the machine to pending, replacing any open notification.
func (n *Notifier) Begin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	n.stopTimer()
	n.current = model.Notification{Phase: model.PhasePending}
}

// Resolve opens a notification with the given outcome and arms the
// auto-dismiss timer.
func (n *Notifier) Resolve(outcome model.Outcome, message string) model.Notification {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.stopTimer()

	now := n.clock.Now()
	cur := model.Notification{
		Phase:   model.PhaseNotifying,
		Outcome: outcome,
		Message: message,
		ShownAt: now,
	}
	if n.timeout > 0 {
		cur.ExpiresAt = now.Add(n.timeout)
		n.timer = time.AfterFunc(n.timeout, func() { n.dismiss(gen) })
	}
	n.current = cur
	surface := n.surface
	n.mu.Unlock()

	if surface != nil {
		surface.Show(cur, func() { n.dismiss(gen) })
	}
	return cur
}

// Dismiss closes whatever notification is open.
func (n *Notifier) Dismiss() model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current.Phase == model.PhaseNotifying {
		n.gen++
		n.stopTimer()
		n.current = model.Notification{Phase: model.PhaseIdle}
	}
	return n.current
}

// Current returns the latest snapshot.
func (n *Notifier) Current() model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Close stops a pending auto-dismiss timer.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimer()
}

func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen || n.current.Phase != model.PhaseNotifying {
		return
	}
	n.timer = nil
	n.current = model.Notification{Phase: model.PhaseIdle}
}

func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// LogSurface writes notifications to a zap logger.
type LogSurface struct {
	Log *zap.Logger
}

func (s LogSurface) Show(n model.Notification, _ func()) {
	fields := []zap.Field{
		zap.String("outcome", string(n.Outcome)),
		zap.Time("expires_at", n.ExpiresAt),
	}
	switch n.Outcome {
	case model.OutcomeError:
		s.Log.Error(n.Message, fields...)
	case model.OutcomeWarning:
		s.Log.Warn(n.Message, fields...)
	default:
		s.Log.Info(n.Message, fields...)
	}
}
