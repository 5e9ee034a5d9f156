// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apiclient talks to the voting service's JSON API.
//
// # Endpoints
//
// Every call maps to one route from package router:
//
//	Health          GET  /health
//	Register        POST /register
//	Login           POST /login
//	DashboardStats  GET  /dashboard/stats
//	ListElections   GET  /elections?status={status}
//	ListCandidates  GET  /elections/{id}/candidates
//	CastVote        POST /vote
//	Results         GET  /elections/{id}/results
//
// Authenticated calls take the session token and send it as
// "Authorization: Bearer <token>".
//
// # Errors
//
// Failures come back as one of two types:
//
//   - *APIError: the service answered with a non-2xx status. Message holds the
//     service's "error" field, or a per-operation fallback such as
//     "Login failed" when the field is absent.
//   - *NetworkError: no usable answer. The service was unreachable, the
//     request was cancelled, or the body was not the JSON the operation
//     expects. IsMalformed distinguishes the decoding case.
//
// Nothing is retried. CastVote in particular is sent at most once per call.
//
// # Observability
//
// The default transport is middleware.LoggingTransport, which tags each
// request with an X-Request-ID and logs it at debug level. Pass
// WithPromRegistry to count requests by operation and outcome and to record
// their latency.
package apiclient
