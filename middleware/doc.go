// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP plumbing shared by the API client and the
in-memory test service.

# Outgoing Request Logging

Wrap the client transport:

	httpClient := &http.Client{
		Transport: &middleware.LoggingTransport{Logger: logger},
	}

Every request gets an X-Request-ID (a random UUID unless the caller set one).
Start and completion are logged at debug level with method, path, request_id,
status and duration_ms; transport failures are logged at warn level.

# Handler Logging

	mux.HandleFunc("POST /vote", middleware.WithLogging(handler))

# JSON Helpers

Write JSON responses in the voting service's shape:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
	// {"error": "You have already voted in this election"}

Parse JSON bodies:

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

DecodeJSON reads at most a fixed number of bytes, for untrusted response bodies.
*/
package middleware
