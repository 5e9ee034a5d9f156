// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the routes of the remote voting API.

Paths are relative to the API base (default http://localhost:5000/api).

# Endpoints

Health:

	GET /health

Account (no credential):

	POST /register - Register a voter
	POST /login    - Exchange voter id + password for a bearer token

Authenticated (Authorization: Bearer <token>):

	GET  /dashboard/stats             - Election counts and votes cast
	GET  /elections?status=active     - Elections filtered by status
	GET  /elections/{id}/candidates   - Candidates of one election
	POST /vote                        - Cast a vote
	GET  /elections/{id}/results      - Tally of one election

# Client Side

Route builders return a method and path for each endpoint:

	route := router.Candidates(electionID)
	req, err := http.NewRequestWithContext(ctx, route.Method, route.URL(baseURL), nil)

Election ids are path-escaped; the status filter is query-escaped.

# Server Side

NewRouter mounts a Handlers implementation on the patterns, each wrapped with
middleware.WithLogging. The in-memory service in testutil uses it:

	mux := router.NewRouter(fake)
*/
package router
