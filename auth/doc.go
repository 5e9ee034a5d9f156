// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles the bearer credential issued by the voting service.

The credential is opaque to the client: it is stored, echoed back in the
Authorization header, and discarded on logout. Nothing here decodes it.

# Authorization Header

	req.Header.Set("Authorization", auth.BearerHeader(token))

ParseBearer does the reverse and is used by the in-memory test service:

	token, err := auth.ParseBearer(r.Header.Get("Authorization"))
	// err is ErrMissingToken for an empty header, ErrInvalidToken for a blank token

# Token Generation

	token, err := auth.GenerateToken()

Returns 24 random bytes as URL-safe base64 without padding. Only test fixtures
issue tokens; the real service issues its own.

# Log Fingerprints

Raw credentials never go into logs. Use the fingerprint instead:

	logger.Info("session established", "token", auth.Fingerprint(token))

The fingerprint is the first 6 bytes (12 hex chars) of SHA-256.
*/
package auth
