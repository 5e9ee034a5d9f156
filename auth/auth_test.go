// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestBearerHeaderRoundTrip(t *testing.T) {
	header := BearerHeader("abc.def.ghi")
	if header != "Bearer abc.def.ghi" {
		t.Fatalf("BearerHeader() = %q", header)
	}

	token, err := ParseBearer(header)
	if err != nil {
		t.Fatalf("ParseBearer() error = %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("ParseBearer() = %q, want abc.def.ghi", token)
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer prefix", "Bearer tok123", "tok123", nil},
		{"bare token", "tok123", "tok123", nil},
		{"surrounding whitespace", "  Bearer tok123  ", "tok123", nil},
		{"empty", "", "", ErrMissingToken},
		{"prefix only", "Bearer ", "", ErrInvalidToken},
		{"embedded space", "Bearer tok 123", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseBearer() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBearer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	// 24 bytes base64 = 32 chars (no padding needed for 24 bytes)
	if len(token) != 32 {
		t.Errorf("GenerateToken() length = %d, want 32", len(token))
	}

	// Should be URL-safe (no +, /, or =)
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("GenerateToken() contains non-URL-safe chars: %s", token)
	}

	token2, _ := GenerateToken()
	if token == token2 {
		t.Error("GenerateToken() produced duplicate tokens (extremely unlikely)")
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("secret-token")
	if len(fp) != 12 {
		t.Errorf("Fingerprint() length = %d, want 12", len(fp))
	}
	if strings.Contains(fp, "secret") {
		t.Error("Fingerprint() leaks the token")
	}
	if fp != Fingerprint("secret-token") {
		t.Error("Fingerprint() is not deterministic")
	}
	if fp == Fingerprint("secret-token2") {
		t.Error("Fingerprint() collided for different tokens")
	}
	if Fingerprint("") != "-" {
		t.Errorf("Fingerprint(\"\") = %q, want -", Fingerprint(""))
	}
}
