// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alert

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultTimeout is how long an alert stays up before it is dismissed
const DefaultTimeout = 5 * time.Second

// Kind is the severity an alert is rendered with
type Kind string

const (
	KindSuccess Kind = "success"
	KindDanger  Kind = "danger"
	KindInfo    Kind = "info"
)

// Slots the client shows alerts in, one per screen section
const (
	SlotRegister = "register"
	SlotLogin    = "login"
	SlotVoting   = "voting"
	SlotResults  = "results"
)

type Alert struct {
	Slot    string
	Kind    Kind
	Message string
}

// Sink displays and removes alerts
type Sink interface {
	ShowAlert(a Alert)
	DismissAlert(slot string)
}

type pending struct {
	gen   uint64
	timer *time.Timer
}

// Board shows at most one alert per slot and dismisses each after a timeout.
// A newer alert in a slot cancels the older one's dismissal.
type Board struct {
	sink    Sink
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	gen     uint64
	pending map[string]pending
	closed  bool
}

type BoardOptionFunc func(*Board)

// WithTimeout sets the dismissal delay. Zero or less keeps alerts up until
// replaced.
func WithTimeout(d time.Duration) BoardOptionFunc {
	return func(b *Board) {
		b.timeout = d
	}
}

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) BoardOptionFunc {
	return func(b *Board) {
		b.logger = logger
	}
}

func NewBoard(sink Sink, opts ...BoardOptionFunc) *Board {
	b := &Board{
		sink:    sink,
		timeout: DefaultTimeout,
		pending: make(map[string]pending),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b
}

// Show displays message in slot, replacing whatever the slot held
func (b *Board) Show(slot string, kind Kind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if p, ok := b.pending[slot]; ok {
		p.timer.Stop()
		delete(b.pending, slot)
	}

	b.sink.ShowAlert(Alert{Slot: slot, Kind: kind, Message: message})
	b.logger.Debug("alert shown", "slot", slot, "kind", string(kind))

	if b.timeout <= 0 {
		return
	}
	b.gen++
	gen := b.gen
	b.pending[slot] = pending{
		gen:   gen,
		timer: time.AfterFunc(b.timeout, func() { b.expire(slot, gen) }),
	}
}

// Dismiss removes the alert in slot now
func (b *Board) Dismiss(slot string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if p, ok := b.pending[slot]; ok {
		p.timer.Stop()
		delete(b.pending, slot)
	}
	b.sink.DismissAlert(slot)
}

// Pending reports how many alerts are waiting to be dismissed
func (b *Board) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Close cancels every pending dismissal. Alerts already shown stay shown.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for slot, p := range b.pending {
		p.timer.Stop()
		delete(b.pending, slot)
	}
	b.closed = true
}

// expire runs on the timer goroutine. A stale generation means the slot was
// reused after the timer fired but before it took the lock.
func (b *Board) expire(slot string, gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[slot]
	if !ok || p.gen != gen || b.closed {
		return
	}
	delete(b.pending, slot)
	b.sink.DismissAlert(slot)
	b.logger.Debug("alert dismissed", "slot", slot)
}
