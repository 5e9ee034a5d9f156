// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/eballot/alert"
	"github.com/danielhkuo/eballot/apiclient"
	"github.com/danielhkuo/eballot/auth"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/validation"
)

var (
	ErrInvalidTransition = errors.New("operation not allowed in the current state")
	ErrVoteInProgress    = errors.New("a vote is already being submitted")
	ErrUnknownElection   = errors.New("election is not in the current list")
	ErrUnknownCandidate  = errors.New("candidate is not on the current ballot")
	ErrNotConfirmed      = errors.New("vote was not confirmed")
)

// State of the voting workflow
type State int

const (
	Anonymous State = iota
	Authenticated
	ElectionChosen
	CandidatesLoaded
	VoteSubmitted
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case ElectionChosen:
		return "election_chosen"
	case CandidatesLoaded:
		return "candidates_loaded"
	case VoteSubmitted:
		return "vote_submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Messages shown to the voter
const (
	ConfirmVotePrompt = "Are you sure you want to cast your vote? This action cannot be undone."

	msgRegistered = "Registration successful! Redirecting to login..."
	msgLoggedIn   = "Login successful! Redirecting..."
	msgVoted      = "Vote cast successfully! Thank you for voting."

	msgAccountNetwork   = "Network error. Please check if backend server is running."
	msgVoteNetwork      = "Network error. Please try again."
	msgElectionsNetwork = "Failed to load elections. Please check backend connection."
	msgCandidatesFailed = "Failed to load candidates"
	msgResultsFailed    = "Failed to load results. Please try again."
	msgSessionFailed    = "Login failed"
)

// DefaultResultsStatus filters the election list offered for results
const DefaultResultsStatus = models.StatusActive

// Controller drives the voter through registration, login, ballot and results.
// The remote service is the authority on eligibility and one vote per voter;
// the controller only keeps obviously invalid requests off the network.
type Controller struct {
	api       API
	sessions  SessionStore
	view      View
	confirmer Confirmer
	alerts    *alert.Board

	logger        *slog.Logger
	now           func() time.Time
	alertTimeout  time.Duration
	resultsStatus string

	mu         sync.Mutex
	state      State
	elections  []models.Election
	electionID string
	candidates []models.Candidate
	// bumped on every sign-in and sign-out; responses from an older epoch are dropped
	epoch uint64

	// set while a vote request is outstanding
	voting atomic.Bool
}

type ControllerOptionFunc func(*Controller)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) ControllerOptionFunc {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock replaces time.Now for the age check
func WithClock(now func() time.Time) ControllerOptionFunc {
	return func(c *Controller) {
		c.now = now
	}
}

// WithAlertTimeout sets how long alerts stay visible
func WithAlertTimeout(d time.Duration) ControllerOptionFunc {
	return func(c *Controller) {
		c.alertTimeout = d
	}
}

// WithResultsStatus sets the status filter for the results election list
func WithResultsStatus(status string) ControllerOptionFunc {
	return func(c *Controller) {
		c.resultsStatus = status
	}
}

func NewController(
	api API,
	sessions SessionStore,
	view View,
	confirmer Confirmer,
	opts ...ControllerOptionFunc,
) *Controller {
	c := &Controller{
		api:           api,
		sessions:      sessions,
		view:          view,
		confirmer:     confirmer,
		now:           time.Now,
		alertTimeout:  alert.DefaultTimeout,
		resultsStatus: DefaultResultsStatus,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.alerts = alert.NewBoard(view,
		alert.WithTimeout(c.alertTimeout),
		alert.WithLogger(c.logger),
	)
	return c
}

// Close stops pending alert dismissals
func (c *Controller) Close() {
	c.alerts.Close()
}

// State returns the current workflow state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selection returns the chosen election id, or "" when none is chosen
func (c *Controller) Selection() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.electionID
}

// Candidates returns the loaded ballot
func (c *Controller) Candidates() []models.Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Candidate(nil), c.candidates...)
}

// Elections returns the elections offered for voting
func (c *Controller) Elections() []models.Election {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Election(nil), c.elections...)
}

// Resume derives the initial state from the session store without rendering
// anything: Authenticated when a session was restored, Anonymous otherwise.
func (c *Controller) Resume() State {
	state := Anonymous
	if sess, ok := c.sessions.Current(); ok {
		state = Authenticated
		c.logger.Debug("session restored", "voter_id", sess.Voter.VoterID)
	}
	c.mu.Lock()
	c.state = state
	c.epoch++
	c.mu.Unlock()
	return state
}

// Start is Resume followed by the landing screen. A restored session goes
// straight to the dashboard; the returned error is a failed stats refresh
// and does not change the state.
func (c *Controller) Start(ctx context.Context) (State, error) {
	if c.Resume() == Anonymous {
		c.view.ShowSection(SectionHome)
		return Anonymous, nil
	}

	c.view.ShowNavigation(true)
	c.view.ShowSection(SectionDashboard)
	if err := c.Dashboard(ctx); err != nil {
		c.logger.Warn("dashboard load failed", "error", err)
		return Authenticated, err
	}
	return Authenticated, nil
}

// Register validates in and submits it. Success does not sign the voter in.
func (c *Controller) Register(ctx context.Context, in models.RegistrationInput) error {
	if err := c.require(Anonymous); err != nil {
		return err
	}

	in = in.Normalize()
	if err := validation.Registration(in, c.now()); err != nil {
		var ve *validation.Error
		if errors.As(err, &ve) {
			c.logger.Debug("registration rejected locally", "rule", string(ve.Rule))
		}
		c.alerts.Show(alert.SlotRegister, alert.KindDanger, err.Error())
		return err
	}

	if _, err := c.api.Register(ctx, in); err != nil {
		c.logger.Warn("registration failed", "voter_id", in.VoterID, "error", err)
		c.alerts.Show(alert.SlotRegister, alert.KindDanger, userMessage(err, msgAccountNetwork))
		return err
	}

	c.logger.Info("voter registered", "voter_id", in.VoterID)
	c.alerts.Show(alert.SlotRegister, alert.KindSuccess, msgRegistered)
	c.view.ShowSection(SectionLogin)
	return nil
}

// Login signs the voter in and persists the session
func (c *Controller) Login(ctx context.Context, voterID, password string) error {
	if err := c.require(Anonymous); err != nil {
		return err
	}
	voterID = strings.TrimSpace(voterID)

	sess, err := c.api.Login(ctx, voterID, password)
	if err != nil {
		c.logger.Warn("login failed", "voter_id", voterID, "error", err)
		c.alerts.Show(alert.SlotLogin, alert.KindDanger, userMessage(err, msgAccountNetwork))
		return err
	}
	if err := c.sessions.Establish(*sess); err != nil {
		c.logger.Error("failed to store session", "voter_id", voterID, "error", err)
		c.alerts.Show(alert.SlotLogin, alert.KindDanger, msgSessionFailed)
		return err
	}

	c.mu.Lock()
	c.state = Authenticated
	c.epoch++
	c.mu.Unlock()
	c.logger.Info("voter signed in",
		"voter_id", sess.Voter.VoterID,
		"token", auth.Fingerprint(sess.Token),
	)
	c.alerts.Show(alert.SlotLogin, alert.KindSuccess, msgLoggedIn)
	c.view.ShowNavigation(true)
	c.view.ShowSection(SectionDashboard)
	if err := c.Dashboard(ctx); err != nil {
		c.logger.Warn("dashboard load failed", "error", err)
	}
	return nil
}

// Logout forgets the session. It never fails; a storage error is only logged.
func (c *Controller) Logout() {
	if err := c.sessions.Clear(); err != nil {
		c.logger.Warn("failed to clear stored session", "error", err)
	}

	c.mu.Lock()
	c.state = Anonymous
	c.epoch++
	c.elections = nil
	c.electionID = ""
	c.candidates = nil
	c.mu.Unlock()

	c.logger.Info("voter signed out")
	c.view.ShowNavigation(false)
	c.view.ShowSection(SectionHome)
}

// Dashboard renders the voter summary and refreshes the election counts.
// A failed refresh leaves the previous counts on screen.
func (c *Controller) Dashboard(ctx context.Context) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	c.view.RenderVoter(sess.Voter)

	stats, err := c.api.DashboardStats(ctx, sess.Token)
	if err != nil {
		return fmt.Errorf("loading dashboard: %w", err)
	}
	c.view.RenderStats(*stats)
	return nil
}

// EnterVoting opens the voting section and fetches the active elections.
// Any previous election choice is dropped.
func (c *Controller) EnterVoting(ctx context.Context) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	epoch := c.currentEpoch()
	c.view.ShowSection(SectionVoting)

	elections, err := c.api.ListElections(ctx, sess.Token, models.StatusActive)
	if err != nil {
		c.logger.Warn("failed to load elections", "error", err)
		c.alerts.Show(alert.SlotVoting, alert.KindDanger, userMessage(err, msgElectionsNetwork))
		return err
	}

	c.mu.Lock()
	if c.epoch != epoch || c.state == Anonymous {
		c.mu.Unlock()
		c.logger.Debug("discarding election list fetched before sign-out")
		return nil
	}
	c.elections = elections
	c.electionID = ""
	c.candidates = nil
	c.state = Authenticated
	c.mu.Unlock()

	c.view.ClearBallot()
	c.view.RenderElections(SectionVoting, elections)
	return nil
}

// SelectElection chooses one of the elections fetched by EnterVoting.
// An empty id clears the choice and the ballot.
func (c *Controller) SelectElection(electionID string) error {
	c.mu.Lock()
	if c.state < Authenticated || c.state == VoteSubmitted {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: select election in %s", ErrInvalidTransition, state)
	}

	if electionID == "" {
		c.electionID = ""
		c.candidates = nil
		c.state = Authenticated
		c.mu.Unlock()
		c.view.ClearBallot()
		return nil
	}

	found := false
	for _, e := range c.elections {
		if e.ID.String() == electionID {
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownElection, electionID)
	}

	c.electionID = electionID
	c.candidates = nil
	c.state = ElectionChosen
	c.mu.Unlock()

	c.logger.Debug("election selected", "election_id", electionID)
	c.view.ClearBallot()
	return nil
}

// LoadCandidates fetches the ballot of the chosen election
func (c *Controller) LoadCandidates(ctx context.Context) error {
	c.mu.Lock()
	if c.state != ElectionChosen && c.state != CandidatesLoaded {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: load candidates in %s", ErrInvalidTransition, state)
	}
	electionID := c.electionID
	epoch := c.epoch
	c.mu.Unlock()

	sess, err := c.session()
	if err != nil {
		return err
	}

	candidates, err := c.api.ListCandidates(ctx, sess.Token, electionID)
	if err != nil {
		c.logger.Warn("failed to load candidates", "election_id", electionID, "error", err)
		c.alerts.Show(alert.SlotVoting, alert.KindDanger, userMessage(err, msgCandidatesFailed))
		return err
	}

	c.mu.Lock()
	if c.epoch != epoch || c.electionID != electionID ||
		(c.state != ElectionChosen && c.state != CandidatesLoaded) {
		// The choice changed while the request was out
		c.mu.Unlock()
		c.logger.Debug("discarding stale ballot", "election_id", electionID)
		return nil
	}
	c.candidates = candidates
	c.state = CandidatesLoaded
	c.mu.Unlock()

	c.view.RenderCandidates(candidates)
	return nil
}

// CastVote asks for confirmation and then submits one vote for a candidate on
// the loaded ballot. While a submission is outstanding further calls fail
// with ErrVoteInProgress and send nothing.
func (c *Controller) CastVote(ctx context.Context, candidateID int64) error {
	if !c.voting.CompareAndSwap(false, true) {
		return ErrVoteInProgress
	}
	defer c.voting.Store(false)

	c.mu.Lock()
	if c.state != CandidatesLoaded {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: cast vote in %s", ErrInvalidTransition, state)
	}
	electionID := c.electionID
	epoch := c.epoch
	onBallot := false
	for _, cand := range c.candidates {
		if cand.ID == candidateID {
			onBallot = true
			break
		}
	}
	c.mu.Unlock()
	if !onBallot {
		return fmt.Errorf("%w: %d", ErrUnknownCandidate, candidateID)
	}

	if !c.confirmer.Confirm(ConfirmVotePrompt) {
		return ErrNotConfirmed
	}

	sess, err := c.session()
	if err != nil {
		return err
	}

	logger := c.logger.With("election_id", electionID, "candidate_id", candidateID)
	if _, err := c.api.CastVote(ctx, sess.Token, electionID, candidateID); err != nil {
		logger.Warn("vote rejected", "error", err)
		c.alerts.Show(alert.SlotVoting, alert.KindDanger, userMessage(err, msgVoteNetwork))
		return err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		// Signed out while the vote was in flight; the service kept the vote
		c.mu.Unlock()
		logger.Info("vote cast after sign-out", "voter_id", sess.Voter.VoterID)
		return nil
	}
	c.state = VoteSubmitted
	c.electionID = ""
	c.candidates = nil
	c.mu.Unlock()

	logger.Info("vote cast", "voter_id", sess.Voter.VoterID)
	c.alerts.Show(alert.SlotVoting, alert.KindSuccess, msgVoted)
	c.view.ClearBallot()
	if err := c.Dashboard(ctx); err != nil {
		logger.Warn("dashboard refresh failed", "error", err)
	}

	c.mu.Lock()
	if c.epoch == epoch && c.state == VoteSubmitted {
		c.state = Authenticated
	}
	c.mu.Unlock()
	return nil
}

// ResultsElections opens the results section and lists the elections that
// can be inspected. Workflow state is untouched.
func (c *Controller) ResultsElections(ctx context.Context) ([]models.Election, error) {
	sess, err := c.session()
	if err != nil {
		return nil, err
	}
	c.view.ShowSection(SectionResults)

	elections, err := c.api.ListElections(ctx, sess.Token, c.resultsStatus)
	if err != nil {
		c.logger.Warn("failed to load elections for results", "error", err)
		c.alerts.Show(alert.SlotResults, alert.KindDanger, userMessage(err, msgElectionsNetwork))
		return nil, err
	}
	c.view.RenderElections(SectionResults, elections)
	return elections, nil
}

// LoadResults renders the tally of one election. An empty id clears the
// results. Workflow state is untouched.
func (c *Controller) LoadResults(ctx context.Context, electionID string) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	if electionID == "" {
		c.view.ClearResults()
		return nil
	}

	rs, err := c.api.Results(ctx, sess.Token, electionID)
	if err != nil {
		c.logger.Warn("failed to load results", "election_id", electionID, "error", err)
		c.view.RenderResultsError(userMessage(err, msgResultsFailed))
		return err
	}
	c.view.RenderResults(*rs)
	return nil
}

// session returns the signed-in session, failing in Anonymous
func (c *Controller) session() (models.Session, error) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state == Anonymous {
		return models.Session{}, fmt.Errorf("%w: not signed in", ErrInvalidTransition)
	}
	sess, ok := c.sessions.Current()
	if !ok {
		return models.Session{}, fmt.Errorf("%w: session was cleared", ErrInvalidTransition)
	}
	return sess, nil
}

func (c *Controller) require(want State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != want {
		return fmt.Errorf("%w: expected %s, in %s", ErrInvalidTransition, want, c.state)
	}
	return nil
}

func (c *Controller) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// userMessage is the service's own message for a rejection, else fallback
func userMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
