package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Election status constants
const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Display defaults for optional candidate fields
const (
	DefaultPartyName   = "Independent"
	DefaultDescription = "No description available"
)

// ValidStatus reports whether s is a known election status
func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// ID is an identifier the service may send either as a JSON string or a JSON number.
// It is always handled as a string on the client side.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Percent is a vote share. The service computes it in SQL, so it may arrive as a
// number, a decimal string, or null.
type Percent float64

func (p *Percent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*p = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid percentage %q: %w", raw, err)
	}
	*p = Percent(f)
	return nil
}

// Request types

// RegistrationInput is the raw registration form. Password is write-only: it is sent
// once with the register call and never kept anywhere else.
type RegistrationInput struct {
	VoterID     string `json:"voterId"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	Mobile      string `json:"mobile"`
	Aadhar      string `json:"aadhar"`
	Email       string `json:"email"`
	DOB         string `json:"dob"` // YYYY-MM-DD
	Address     string `json:"address"`
	Password    string `json:"password"`
	Declaration bool   `json:"declaration"`
}

// Normalize trims surrounding whitespace from every text field except the password
func (in RegistrationInput) Normalize() RegistrationInput {
	in.VoterID = strings.TrimSpace(in.VoterID)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Aadhar = strings.TrimSpace(in.Aadhar)
	in.Email = strings.TrimSpace(in.Email)
	in.DOB = strings.TrimSpace(in.DOB)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

type LoginRequest struct {
	VoterID  string `json:"voterId"`
	Password string `json:"password"`
}

// CandidateID is sent as an integer
type VoteRequest struct {
	ElectionID  string `json:"electionId"`
	CandidateID int64  `json:"candidateId"`
}

// Response types

type RegisterResponse struct {
	Message string `json:"message"`
	VoterID string `json:"voterId,omitempty"`
}

type LoginResponse struct {
	Message string        `json:"message,omitempty"`
	Token   string        `json:"token"`
	Voter   *VoterSummary `json:"voter"`
}

type VoteResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DashboardStats struct {
	ActiveElections    int `json:"active_elections"`
	UpcomingElections  int `json:"upcoming_elections"`
	CompletedElections int `json:"completed_elections"`
	VotesCast          int `json:"votes_cast"`
}

// Lists use pointers so a response missing the field can be told apart from an empty list

type ElectionList struct {
	Elections *[]Election `json:"elections"`
}

type CandidateList struct {
	Candidates *[]Candidate `json:"candidates"`
}

type DashboardStatsBody struct {
	ActiveElections    *int `json:"active_elections"`
	UpcomingElections  *int `json:"upcoming_elections"`
	CompletedElections *int `json:"completed_elections"`
	VotesCast          *int `json:"votes_cast"`
}

// Stats returns the counts, or false when any of them is missing
func (b DashboardStatsBody) Stats() (DashboardStats, bool) {
	if b.ActiveElections == nil || b.UpcomingElections == nil ||
		b.CompletedElections == nil || b.VotesCast == nil {
		return DashboardStats{}, false
	}
	return DashboardStats{
		ActiveElections:    *b.ActiveElections,
		UpcomingElections:  *b.UpcomingElections,
		CompletedElections: *b.CompletedElections,
		VotesCast:          *b.VotesCast,
	}, true
}

// Domain types

// VoterSummary is the minimal identity cached on the client for display
type VoterSummary struct {
	VoterID string `json:"voterId"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
}

// Session is an authenticated identity plus its bearer credential
type Session struct {
	Voter VoterSummary `json:"voter"`
	Token string       `json:"-"` // Stored under its own key, never inside the summary
}

type Election struct {
	ID          ID     `json:"election_id"`
	Name        string `json:"election_name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Status      string `json:"status,omitempty"`
}

type Candidate struct {
	ID          int64  `json:"candidate_id"`
	Name        string `json:"candidate_name"`
	PartyName   string `json:"party_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Party returns the party name, or "Independent" when none is set
func (c Candidate) Party() string {
	if c.PartyName == "" {
		return DefaultPartyName
	}
	return c.PartyName
}

// Summary returns the description, or a placeholder when none is set
func (c Candidate) Summary() string {
	if c.Description == "" {
		return DefaultDescription
	}
	return c.Description
}

type CandidateResult struct {
	CandidateID   int64   `json:"candidate_id,omitempty"`
	CandidateName string  `json:"candidate_name"`
	PartyName     string  `json:"party_name,omitempty"`
	VoteCount     int     `json:"vote_count"`
	Percentage    Percent `json:"percentage"`
}

// Party returns the party name, or "Independent" when none is set
func (r CandidateResult) Party() string {
	if r.PartyName == "" {
		return DefaultPartyName
	}
	return r.PartyName
}

type ResultSet struct {
	ElectionID ID                 `json:"election_id,omitempty"`
	TotalVotes int                `json:"total_votes"`
	Results    *[]CandidateResult `json:"results"`
}

// Rows returns the per-candidate results, or nil when there are none
func (r *ResultSet) Rows() []CandidateResult {
	if r == nil || r.Results == nil {
		return nil
	}
	return *r.Results
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
