// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"context"

	"github.com/danielhkuo/eballot/alert"
	"github.com/danielhkuo/eballot/models"
)

// API is the remote voting service. *apiclient.Client implements it.
type API interface {
	Register(ctx context.Context, in models.RegistrationInput) (*models.RegisterResponse, error)
	Login(ctx context.Context, voterID, password string) (*models.Session, error)
	DashboardStats(ctx context.Context, token string) (*models.DashboardStats, error)
	ListElections(ctx context.Context, token, status string) ([]models.Election, error)
	ListCandidates(ctx context.Context, token, electionID string) ([]models.Candidate, error)
	CastVote(ctx context.Context, token, electionID string, candidateID int64) (*models.VoteResponse, error)
	Results(ctx context.Context, token, electionID string) (*models.ResultSet, error)
}

// SessionStore holds the signed-in voter. *session.Store implements it.
type SessionStore interface {
	Establish(sess models.Session) error
	Current() (models.Session, bool)
	Clear() error
}

// Section is a screen of the client
type Section string

const (
	SectionHome      Section = "home"
	SectionRegister  Section = "register"
	SectionLogin     Section = "login"
	SectionDashboard Section = "dashboard"
	SectionVoting    Section = "voting"
	SectionResults   Section = "results"
)

// View renders controller output. Calls carry plain data and may arrive from
// any goroutine the controller is called on.
type View interface {
	alert.Sink

	ShowSection(s Section)
	ShowNavigation(visible bool)

	RenderVoter(v models.VoterSummary)
	RenderStats(stats models.DashboardStats)

	// RenderElections fills the election selector of the voting or results section
	RenderElections(s Section, elections []models.Election)
	RenderCandidates(candidates []models.Candidate)
	ClearBallot()

	RenderResults(rs models.ResultSet)
	RenderResultsError(message string)
	ClearResults()
}

// Confirmer asks the voter to confirm an irreversible action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}
