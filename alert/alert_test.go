// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alert

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type event struct {
	dismiss bool
	alert   Alert
}

type recordingSink struct {
	mu      sync.Mutex
	events  []event
	current map[string]Alert
}

func newRecordingSink() *recordingSink {
	return &recordingSink{current: make(map[string]Alert)}
}

func (s *recordingSink) ShowAlert(a Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event{alert: a})
	s.current[a.Slot] = a
}

func (s *recordingSink) DismissAlert(slot string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event{dismiss: true, alert: Alert{Slot: slot}})
	delete(s.current, slot)
}

func (s *recordingSink) shown(slot string) (Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.current[slot]
	return a, ok
}

func (s *recordingSink) dismissals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.dismiss {
			n++
		}
	}
	return n
}

func TestShowThenAutoDismiss(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newRecordingSink()
	b := NewBoard(sink, WithTimeout(20*time.Millisecond))
	defer b.Close()

	b.Show(SlotLogin, KindSuccess, "Login successful! Redirecting...")

	a, ok := sink.shown(SlotLogin)
	require.True(t, ok)
	assert.Equal(t, KindSuccess, a.Kind)
	assert.Equal(t, "Login successful! Redirecting...", a.Message)

	require.Eventually(t, func() bool {
		_, ok := sink.shown(SlotLogin)
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, b.Pending())
}

func TestNewerAlertCancelsOlderDismissal(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newRecordingSink()
	b := NewBoard(sink, WithTimeout(60*time.Millisecond))
	defer b.Close()

	b.Show(SlotVoting, KindDanger, "first")
	time.Sleep(40 * time.Millisecond)
	b.Show(SlotVoting, KindDanger, "second")

	// The first timer would have fired by now
	time.Sleep(35 * time.Millisecond)
	a, ok := sink.shown(SlotVoting)
	require.True(t, ok, "second alert dismissed by the first alert's timer")
	assert.Equal(t, "second", a.Message)

	require.Eventually(t, func() bool {
		_, ok := sink.shown(SlotVoting)
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, sink.dismissals())
}

func TestSlotsAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newRecordingSink()
	b := NewBoard(sink, WithTimeout(time.Hour))
	defer b.Close()

	b.Show(SlotRegister, KindDanger, "Mobile number must be exactly 10 digits")
	b.Show(SlotVoting, KindSuccess, "Vote cast successfully! Thank you for voting.")
	b.Dismiss(SlotRegister)

	_, ok := sink.shown(SlotRegister)
	assert.False(t, ok)
	_, ok = sink.shown(SlotVoting)
	assert.True(t, ok)
	assert.Equal(t, 1, b.Pending())
}

func TestZeroTimeoutKeepsAlert(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newRecordingSink()
	b := NewBoard(sink, WithTimeout(0))
	defer b.Close()

	b.Show(SlotResults, KindDanger, "Failed to load results. Please try again.")
	assert.Equal(t, 0, b.Pending())

	time.Sleep(20 * time.Millisecond)
	_, ok := sink.shown(SlotResults)
	assert.True(t, ok)
}

func TestCloseCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newRecordingSink()
	b := NewBoard(sink, WithTimeout(10*time.Millisecond))

	b.Show(SlotLogin, KindDanger, "Login failed")
	b.Close()
	assert.Equal(t, 0, b.Pending())

	time.Sleep(30 * time.Millisecond)
	_, ok := sink.shown(SlotLogin)
	assert.True(t, ok, "closed board must not dismiss")
	assert.Equal(t, 0, sink.dismissals())

	b.Show(SlotLogin, KindDanger, "ignored")
	a, _ := sink.shown(SlotLogin)
	assert.Equal(t, "Login failed", a.Message)
}

func TestConcurrentShow(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := newRecordingSink()
	b := NewBoard(sink, WithTimeout(50*time.Millisecond))
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Show(SlotVoting, KindInfo, "tick")
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		_, ok := sink.shown(SlotVoting)
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, sink.dismissals())
}
