// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/eballot/alert"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/workflow"
)

func newTestTerminal(input string) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminal(&out, WithInput(strings.NewReader(input)), WithColor(false)), &out
}

func TestBufferIsNotTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	var out bytes.Buffer
	term := NewTerminal(&out, WithInput(strings.NewReader("")))
	term.ShowAlert(alert.Alert{Kind: alert.KindDanger, Message: "Login failed"})
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestColor(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, WithInput(strings.NewReader("")), WithColor(true))
	term.ShowAlert(alert.Alert{Kind: alert.KindSuccess, Message: "ok"})
	assert.Contains(t, out.String(), ansiGreen)
}

func TestAlerts(t *testing.T) {
	term, out := newTestTerminal("")

	term.ShowAlert(alert.Alert{Slot: alert.SlotVoting, Kind: alert.KindSuccess, Message: "Vote cast successfully! Thank you for voting."})
	term.ShowAlert(alert.Alert{Slot: alert.SlotVoting, Kind: alert.KindDanger, Message: "You have already voted in this election"})
	term.DismissAlert(alert.SlotVoting)

	assert.Equal(t,
		"✓ Vote cast successfully! Thank you for voting.\n✗ You have already voted in this election\n",
		out.String())
}

func TestSectionsAndNavigation(t *testing.T) {
	term, out := newTestTerminal("")

	term.ShowSection(workflow.SectionVoting)
	term.ShowNavigation(true)
	term.ShowNavigation(true)

	assert.Contains(t, out.String(), "== Cast Your Vote ==")
	assert.Equal(t, 1, strings.Count(out.String(), "Commands:"))
	assert.True(t, term.Navigation())

	term.ShowNavigation(false)
	assert.False(t, term.Navigation())
}

func TestRenderDashboard(t *testing.T) {
	term, out := newTestTerminal("")

	term.RenderVoter(models.VoterSummary{VoterID: "V100", Name: "Asha Rao", Email: "asha@example.com"})
	term.RenderStats(models.DashboardStats{ActiveElections: 2, CompletedElections: 12345, VotesCast: 1})

	got := out.String()
	assert.Contains(t, got, "Welcome, Asha Rao")
	assert.Contains(t, got, "Voter ID: V100")
	assert.Contains(t, got, "Email: asha@example.com")
	assert.Contains(t, got, "Completed elections: 12,345")
}

func TestRenderCandidates(t *testing.T) {
	term, out := newTestTerminal("")

	term.RenderCandidates([]models.Candidate{
		{ID: 7, Name: "Asha", PartyName: "Green", Description: "Nurse"},
		{ID: 8, Name: "Ravi"},
	})

	got := out.String()
	assert.Contains(t, got, "[7] Asha")
	assert.Contains(t, got, "Green")
	assert.Contains(t, got, "[8] Ravi")
	assert.Contains(t, got, models.DefaultPartyName)
	assert.Contains(t, got, models.DefaultDescription)
}

func TestRenderEmptyLists(t *testing.T) {
	term, out := newTestTerminal("")

	term.RenderCandidates([]models.Candidate{})
	term.RenderElections(workflow.SectionVoting, nil)
	term.RenderResults(models.ResultSet{})

	got := out.String()
	assert.Contains(t, got, "No candidates available for this election.")
	assert.Contains(t, got, "No elections available.")
	assert.Contains(t, got, "No results available yet.")
}

func TestRenderResults(t *testing.T) {
	term, out := newTestTerminal("")

	var rs models.ResultSet
	require.NoError(t, json.Unmarshal([]byte(`{"total_votes": 1500, "results": [
		{"candidate_name": "Asha", "party_name": "Green", "vote_count": 1000, "percentage": "66.67"},
		{"candidate_name": "Ravi", "vote_count": 500, "percentage": null}
	]}`), &rs))

	term.RenderResults(rs)

	got := out.String()
	assert.Contains(t, got, "Total Votes Cast: 1,500")
	assert.Contains(t, got, "Asha  1,000 votes")
	assert.Contains(t, got, "66.67%")
	assert.Contains(t, got, "Ravi  500 votes")
	assert.Contains(t, got, models.DefaultPartyName)
	assert.Contains(t, got, Bar(0, barWidth)+" 0%")
}

func TestRenderResultsError(t *testing.T) {
	term, out := newTestTerminal("")
	term.RenderResultsError("Failed to load results. Please try again.")
	assert.Equal(t, "Failed to load results. Please try again.\n", out.String())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y upper", "Y\n", true},
		{"no", "n\n", false},
		{"blank", "\n", false},
		{"eof", "", false},
		{"yes without newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, out := newTestTerminal(tt.input)
			got := term.Confirm(workflow.ConfirmVotePrompt)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(out.String(), workflow.ConfirmVotePrompt+" [y/N]: "))
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
		{-3, 0},
		{33.33, 3},
	}
	for _, tt := range tests {
		bar := Bar(tt.pct, 10)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "pct %v", tt.pct)
		assert.Equal(t, 10, len([]rune(bar)), "pct %v", tt.pct)
	}
}
