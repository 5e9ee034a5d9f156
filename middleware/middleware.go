// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/eballot/models"
)

// RequestIDHeader carries a per-request id so client and service logs can be joined
const RequestIDHeader = "X-Request-ID"

// LoggingTransport logs each outgoing request and stamps it with a request id
type LoggingTransport struct {
	Next   http.RoundTripper // http.DefaultTransport when nil
	Logger *slog.Logger      // slog.Default() when nil
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		// RoundTrippers must not modify the caller's request
		req = req.Clone(req.Context())
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}

	start := time.Now()
	logger.Debug("request started",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", requestID,
	)

	resp, err := next.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		logger.Warn("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", requestID,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	logger.Debug("request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(RequestIDHeader),
		)

		next(w, r)

		duration := time.Since(start)
		slog.Debug("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// MaxBodySize bounds request bodies read by ParseJSONBody
const MaxBodySize = 1 << 20

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes the service's error body: {"error": message}
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error: message,
	})
}

// ParseJSONBody parses at most MaxBodySize bytes of the request body into v
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return DecodeJSON(r.Body, MaxBodySize, v)
}

// DecodeJSON decodes at most limit bytes of body into v
func DecodeJSON(body io.Reader, limit int64, v interface{}) error {
	return json.NewDecoder(io.LimitReader(body, limit)).Decode(v)
}
