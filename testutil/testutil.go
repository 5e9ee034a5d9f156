// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/eballot/apiclient"
	"github.com/danielhkuo/eballot/auth"
	"github.com/danielhkuo/eballot/middleware"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/router"
	"github.com/danielhkuo/eballot/validation"
)

// APIPrefix is where the fake mounts its routes, matching the real service
const APIPrefix = "/api"

// Failure is a canned response for one operation
type Failure struct {
	Status    int
	Message   string
	Malformed bool // answer with a body that is not JSON
	Drop      bool // abort the connection without answering
}

type fakeVoter struct {
	summary  models.VoterSummary
	password string
	mobile   string
	aadhar   string
}

// FakeService is an in-memory voting service speaking the real wire format.
// It counts calls per operation and can be told to fail any of them.
type FakeService struct {
	mu         sync.Mutex
	voters     map[string]fakeVoter
	tokens     map[string]string // token -> voter id
	elections  []models.Election
	candidates map[string][]models.Candidate
	votes      map[string]map[string]int64 // election id -> voter id -> candidate id
	calls      map[string]int
	failures   map[string]Failure
	hook       func(op string)
	nextCandID int64
}

func NewFakeService() *FakeService {
	return &FakeService{
		voters:     make(map[string]fakeVoter),
		tokens:     make(map[string]string),
		candidates: make(map[string][]models.Candidate),
		votes:      make(map[string]map[string]int64),
		calls:      make(map[string]int),
		failures:   make(map[string]Failure),
		nextCandID: 1,
	}
}

// Handler returns the fake's routes mounted under APIPrefix
func (f *FakeService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(APIPrefix+"/", http.StripPrefix(APIPrefix, router.NewRouter(f)))
	return mux
}

// Start serves the fake until the test ends and returns the API base URL
func (f *FakeService) Start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(f.Handler())
	t.Cleanup(srv.Close)
	return srv.URL + APIPrefix
}

// NewClient starts the fake and returns a client pointed at it
func (f *FakeService) NewClient(t *testing.T, opts ...apiclient.ClientOption) *apiclient.Client {
	t.Helper()
	return apiclient.NewClient(f.Start(t), opts...)
}

// AddVoter registers a voter directly and returns a valid login token
func (f *FakeService) AddVoter(t *testing.T, voterID, name, password string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	f.voters[voterID] = fakeVoter{
		summary:  models.VoterSummary{VoterID: voterID, Name: name, Email: strings.ToLower(voterID) + "@example.com"},
		password: password,
	}
	token, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	f.tokens[token] = voterID
	return token
}

// AddElection creates an election and returns its id
func (f *FakeService) AddElection(name, status string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := fmt.Sprintf("%d", len(f.elections)+1)
	f.elections = append(f.elections, models.Election{
		ID:        models.ID(id),
		Name:      name,
		Status:    status,
		StartDate: time.Now().UTC().Format(time.RFC3339),
	})
	return id
}

// AddCandidate puts a candidate on an election's ballot and returns its id
func (f *FakeService) AddCandidate(electionID, name, party string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextCandID
	f.nextCandID++
	f.candidates[electionID] = append(f.candidates[electionID], models.Candidate{
		ID:        id,
		Name:      name,
		PartyName: party,
	})
	return id
}

// Fail makes every later call of op answer with failure
func (f *FakeService) Fail(op string, failure Failure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = failure
}

// Recover undoes Fail for op
func (f *FakeService) Recover(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op)
}

// OnCall installs a hook run at the start of every call, before any lock is
// taken. Tests use it to hold a request in flight.
func (f *FakeService) OnCall(hook func(op string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = hook
}

// Calls returns how many requests op has received
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// HasVoter reports whether voterID is registered
func (f *FakeService) HasVoter(voterID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.voters[voterID]
	return ok
}

// Votes returns how many votes were recorded in an election
func (f *FakeService) Votes(electionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.votes[electionID])
}

// begin counts the call and applies any injected failure.
// It returns false when the response has already been written.
func (f *FakeService) begin(w http.ResponseWriter, op string) bool {
	f.mu.Lock()
	f.calls[op]++
	failure, failing := f.failures[op]
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(op)
	}
	if !failing {
		return true
	}
	switch {
	case failure.Drop:
		panic(http.ErrAbortHandler)
	case failure.Malformed:
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(failure.Status)
		fmt.Fprint(w, "<html><body>Internal Server Error</body></html>")
	default:
		middleware.ErrorResponse(w, failure.Status, failure.Message)
	}
	return false
}

// voterFor resolves the bearer token, writing a 401 when it is missing or unknown
func (f *FakeService) voterFor(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, err := auth.ParseBearer(r.Header.Get("Authorization"))
	if errors.Is(err, auth.ErrMissingToken) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Token is missing")
		return "", false
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return "", false
	}

	f.mu.Lock()
	voterID, ok := f.tokens[token]
	f.mu.Unlock()
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return "", false
	}
	return voterID, true
}

func (f *FakeService) Health(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpHealth) {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Message: "EBallot API is running",
	})
}

func (f *FakeService) Register(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpRegister) {
		return
	}

	var in models.RegistrationInput
	if err := middleware.ParseJSONBody(r, &in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	required := []struct{ name, value string }{
		{"voterId", in.VoterID},
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"mobile", in.Mobile},
		{"aadhar", in.Aadhar},
		{"email", in.Email},
		{"dob", in.DOB},
		{"address", in.Address},
		{"password", in.Password},
	}
	for _, field := range required {
		if field.value == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required field: "+field.name)
			return
		}
	}
	if !in.Declaration {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required field: declaration")
		return
	}
	if err := validation.Registration(in, time.Now()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for id, v := range f.voters {
		if id == in.VoterID || v.summary.Email == in.Email || v.mobile == in.Mobile || v.aadhar == in.Aadhar {
			middleware.ErrorResponse(w, http.StatusConflict,
				"A voter with this email, mobile, Aadhar, or ID already exists")
			return
		}
	}

	name := in.FirstName + " " + in.LastName
	if in.MiddleName != "" {
		name = in.FirstName + " " + in.MiddleName + " " + in.LastName
	}
	f.voters[in.VoterID] = fakeVoter{
		summary:  models.VoterSummary{VoterID: in.VoterID, Name: name, Email: in.Email},
		password: in.Password,
		mobile:   in.Mobile,
		aadhar:   in.Aadhar,
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Message: "Registration successful",
		VoterID: in.VoterID,
	})
}

func (f *FakeService) Login(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpLogin) {
		return
	}

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.VoterID == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voter ID and password are required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.voters[req.VoterID]
	if !ok || v.password != req.Password {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid Voter ID or password")
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed: "+err.Error())
		return
	}
	f.tokens[token] = req.VoterID

	summary := v.summary
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		Voter:   &summary,
	})
}

func (f *FakeService) DashboardStats(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpDashboardStats) {
		return
	}
	voterID, ok := f.voterFor(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var stats models.DashboardStats
	for _, e := range f.elections {
		switch e.Status {
		case models.StatusActive:
			stats.ActiveElections++
		case models.StatusUpcoming:
			stats.UpcomingElections++
		case models.StatusCompleted:
			stats.CompletedElections++
		}
	}
	for _, byVoter := range f.votes {
		if _, voted := byVoter[voterID]; voted {
			stats.VotesCast++
		}
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}

func (f *FakeService) ListElections(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpListElections) {
		return
	}
	if _, ok := f.voterFor(w, r); !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusActive
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	elections := []models.Election{}
	for _, e := range f.elections {
		if e.Status == status {
			elections = append(elections, e)
		}
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"elections": elections})
}

func (f *FakeService) ListCandidates(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpListCandidates) {
		return
	}
	if _, ok := f.voterFor(w, r); !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	candidates := append([]models.Candidate{}, f.candidates[r.PathValue("id")]...)
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"candidates": candidates})
}

func (f *FakeService) CastVote(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpCastVote) {
		return
	}
	voterID, ok := f.voterFor(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ElectionID == "" || req.CandidateID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Election ID and Candidate ID are required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var election *models.Election
	for i := range f.elections {
		if f.elections[i].ID.String() == req.ElectionID {
			election = &f.elections[i]
			break
		}
	}
	if election == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if election.Status != models.StatusActive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "This election is not currently active")
		return
	}
	if _, voted := f.votes[req.ElectionID][voterID]; voted {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
		return
	}

	if f.votes[req.ElectionID] == nil {
		f.votes[req.ElectionID] = make(map[string]int64)
	}
	f.votes[req.ElectionID][voterID] = req.CandidateID
	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{Message: "Vote cast successfully"})
}

// resultRow is a tally row as the service sends it, percentage as a decimal string
type resultRow struct {
	CandidateID   int64  `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	PartyName     any    `json:"party_name"`
	VoteCount     int    `json:"vote_count"`
	Percentage    string `json:"percentage"`
}

func (f *FakeService) Results(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, apiclient.OpResults) {
		return
	}
	if _, ok := f.voterFor(w, r); !ok {
		return
	}

	electionID := r.PathValue("id")

	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[int64]int)
	for _, candidateID := range f.votes[electionID] {
		counts[candidateID]++
	}
	total := len(f.votes[electionID])
	divisor := total
	if divisor == 0 {
		divisor = 1
	}

	rows := []resultRow{}
	for _, c := range f.candidates[electionID] {
		row := resultRow{
			CandidateID:   c.ID,
			CandidateName: c.Name,
			VoteCount:     counts[c.ID],
			Percentage:    fmt.Sprintf("%.2f", float64(counts[c.ID])*100/float64(divisor)),
		}
		if c.PartyName != "" {
			row.PartyName = c.PartyName
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].VoteCount > rows[j].VoteCount
	})

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"election_id": electionID,
		"total_votes": total,
		"results":     rows,
	})
}
