package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docstore/internal/model"
	"docstore/internal/testutil"
)

type recordingSurface struct {
	mu      sync.Mutex
	shown   []model.Notification
	dismiss []func()
}

func (r *recordingSurface) Show(n model.Notification, dismiss func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
	r.dismiss = append(r.dismiss, dismiss)
}

func (r *recordingSurface) last() (model.Notification, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := len(r.shown) - 1
	return r.shown[i], r.dismiss[i]
}

func TestNotifier_Transitions(t *testing.T) {
	n := NewNotifier(0, testutil.FixedClock(), nil)
	assert.Equal(t, model.PhaseIdle, n.Current().Phase)

	n.Begin()
	assert.Equal(t, model.PhasePending, n.Current().Phase)

	got := n.Resolve(model.OutcomeSuccess, "ok")
	assert.Equal(t, model.PhaseNotifying, got.Phase)
	assert.Equal(t, model.OutcomeSuccess, got.Outcome)
	assert.Equal(t, "ok", got.Message)
	assert.True(t, got.ExpiresAt.IsZero())
	assert.True(t, n.Current().Open())

	assert.Equal(t, model.PhaseIdle, n.Dismiss().Phase)
	assert.Equal(t, model.PhaseIdle, n.Dismiss().Phase)
}

func TestNotifier_AutoDismiss(t *testing.T) {
	c := testutil.FixedClock()
	n := NewNotifier(20*time.Millisecond, c, nil)
	defer n.Close()

	n.Begin()
	got := n.Resolve(model.OutcomeWarning, "gone")
	assert.Equal(t, c.Now().Add(20*time.Millisecond), got.ExpiresAt)

	assert.Eventually(t, func() bool {
		return n.Current().Phase == model.PhaseIdle
	}, time.Second, 5*time.Millisecond)
}

func TestNotifier_StaleDismissIgnored(t *testing.T) {
	surface := &recordingSurface{}
	n := NewNotifier(0, testutil.FixedClock(), surface)

	n.Begin()
	n.Resolve(model.OutcomeSuccess, "first")
	_, dismissFirst := surface.last()

	n.Begin()
	n.Resolve(model.OutcomeNotice, "second")

	dismissFirst()
	cur := n.Current()
	require.True(t, cur.Open())
	assert.Equal(t, "second", cur.Message)

	shown, dismissSecond := surface.last()
	assert.Equal(t, model.OutcomeNotice, shown.Outcome)
	dismissSecond()
	assert.Equal(t, model.PhaseIdle, n.Current().Phase)
}

func TestNotifier_StaleTimerIgnored(t *testing.T) {
	n := NewNotifier(200*time.Millisecond, testutil.FixedClock(), nil)
	defer n.Close()

	n.Resolve(model.OutcomeSuccess, "first")
	time.Sleep(120 * time.Millisecond)
	n.Resolve(model.OutcomeError, "second")
	time.Sleep(120 * time.Millisecond)

	// The first timer would have fired by now.
	assert.Equal(t, "second", n.Current().Message)
	assert.Eventually(t, func() bool {
		return !n.Current().Open()
	}, time.Second, 5*time.Millisecond)
}

func TestLogSurface(t *testing.T) {
	log, logs := testutil.ObservedLogger(zap.DebugLevel)
	n := NewNotifier(0, testutil.FixedClock(), LogSurface{Log: log})

	n.Resolve(model.OutcomeError, "failed")
	n.Resolve(model.OutcomeWarning, "careful")
	n.Resolve(model.OutcomeNotice, "fyi")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.InfoLevel, entries[2].Level)
	assert.Equal(t, "fyi", entries[2].Message)
	assert.Equal(t, "notice", entries[2].ContextMap()["outcome"])
}
