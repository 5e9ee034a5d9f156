// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/danielhkuo/eballot/auth"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/storage"
)

// Storage keys, shared with the browser client's localStorage layout
const (
	CredentialKey = "authToken"
	SummaryKey    = "currentUser"
)

var ErrEmptySession = errors.New("session requires a token and a voter id")

// Store owns the authenticated session. Establish and Clear are serialized
// with each other and with Current.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger
	current *models.Session
	mu      sync.Mutex
}

type StoreOptionFunc func(*Store)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) StoreOptionFunc {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store over st and restores any session already persisted there.
// Missing or malformed persisted data leaves the store empty.
func New(st storage.Storage, opts ...StoreOptionFunc) *Store {
	s := &Store{storage: st}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.current = s.restore()
	return s
}

func (s *Store) restore() *models.Session {
	token, err := s.storage.Get(CredentialKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read stored credential", "error", err)
		}
		return nil
	}
	raw, err := s.storage.Get(SummaryKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read stored voter summary", "error", err)
		}
		return nil
	}

	var voter models.VoterSummary
	if err := json.Unmarshal(raw, &voter); err != nil {
		s.logger.Warn("ignoring malformed stored voter summary", "error", err)
		return nil
	}
	sess := models.Session{Voter: voter, Token: string(token)}
	if err := check(sess); err != nil {
		s.logger.Warn("ignoring incomplete stored session", "error", err)
		return nil
	}

	s.logger.Debug("session restored",
		"voter_id", voter.VoterID,
		"token", auth.Fingerprint(sess.Token),
	)
	return &sess
}

// Establish persists sess and makes it current, replacing any prior session.
// On a storage failure the previous state is kept.
func (s *Store) Establish(sess models.Session) error {
	if err := check(sess); err != nil {
		return err
	}
	summary, err := json.Marshal(sess.Voter)
	if err != nil {
		return fmt.Errorf("failed to encode voter summary: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.storage.Put(map[string][]byte{
		CredentialKey: []byte(sess.Token),
		SummaryKey:    summary,
	})
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.current = &sess

	s.logger.Info("session established",
		"voter_id", sess.Voter.VoterID,
		"token", auth.Fingerprint(sess.Token),
	)
	return nil
}

// Current returns the session and true, or false if none is established
func (s *Store) Current() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

// Clear forgets the session in memory and removes it from storage.
// Memory is always cleared; the returned error only reports a storage failure.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.storage.Delete(CredentialKey, SummaryKey); err != nil {
		return fmt.Errorf("failed to remove stored session: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}

func check(sess models.Session) error {
	if sess.Token == "" || sess.Voter.VoterID == "" {
		return ErrEmptySession
	}
	return nil
}
