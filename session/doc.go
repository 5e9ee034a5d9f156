// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session holds the single authenticated session of the client.

# Lifecycle

	store := session.New(st)          // restores a persisted session, if any
	err := store.Establish(sess)      // after a successful login
	sess, ok := store.Current()
	err = store.Clear()               // logout

A session is restored only when both keys are present in storage:

  - authToken: the bearer credential, as raw bytes
  - currentUser: the voter summary as JSON ({voterId, name, email})

A summary that is not valid JSON, or lacks a voter id, is treated as no session.

# Concurrency

Establish, Current and Clear take the same lock, so an Establish racing a Clear
always ends with memory and storage agreeing.

# Logging

The credential is logged only as auth.Fingerprint(token).
*/
package session
