// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package alert schedules the dismissal of user-visible messages.
//
// Each screen section has one alert slot. Board.Show puts a message in a slot
// and arms a timer (DefaultTimeout, five seconds) that removes it again.
// Showing a new message in the same slot stops the old timer, and a
// generation number guards the window where the old timer has already fired
// but not yet taken the lock, so a stale timer never removes a newer alert.
//
// The Sink is called with the board's lock held and must not call back into
// the Board.
package alert
