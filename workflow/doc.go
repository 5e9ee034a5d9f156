// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package workflow is the voting client's state machine.
//
// # States
//
//	Anonymous --Register--> Anonymous         (validated locally first)
//	Anonymous --Login--> Authenticated        (session persisted)
//	any signed-in state --Logout--> Anonymous
//	Authenticated --EnterVoting--> Authenticated (election list fetched)
//	Authenticated --SelectElection(id)--> ElectionChosen
//	ElectionChosen --LoadCandidates--> CandidatesLoaded
//	CandidatesLoaded --CastVote--> VoteSubmitted --> Authenticated
//
// Resume picks the initial state from the SessionStore: Authenticated when a
// session was restored, Anonymous otherwise. Start does the same and also
// shows the landing screen. SelectElection only accepts ids
// from the list EnterVoting fetched; an empty id drops back to Authenticated.
//
// Logout wins over any request still in flight: a response that comes back
// after the voter signed out is dropped and leaves the state Anonymous.
//
// No error advances the state. Validation failures never reach the network.
// Service rejections (*apiclient.APIError) and transport failures
// (*apiclient.NetworkError) are shown in the section's alert slot and
// returned to the caller so it can retry.
//
// # Voting
//
// CastVote asks the Confirmer first and sends at most one request per
// confirmed intent. A guard is held from the click until the response
// arrives; clicks in between get ErrVoteInProgress without reaching the
// Confirmer or the network. Whether the voter may vote at all is for the
// service to decide; a rejection such as "You have already voted in this
// election" leaves the ballot loaded.
//
// # Results
//
// ResultsElections and LoadResults form a side path. They render through
// the View and never touch the voting state or selection.
//
// # Ports
//
// The controller talks to the outside through API, SessionStore, View and
// Confirmer. *apiclient.Client and *session.Store satisfy the first two; the
// view package provides a terminal View and Confirmer.
package workflow
