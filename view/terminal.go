// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/eballot/alert"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/workflow"
)

const (
	msgNoCandidates = "No candidates available for this election."
	msgNoResults    = "No results available yet."
	msgNoElections  = "No elections available."

	barWidth = 30
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"
	ansiGray  = "\x1b[90m"
)

var sectionTitles = map[workflow.Section]string{
	workflow.SectionHome:      "EBallot",
	workflow.SectionRegister:  "Voter Registration",
	workflow.SectionLogin:     "Voter Login",
	workflow.SectionDashboard: "Dashboard",
	workflow.SectionVoting:    "Cast Your Vote",
	workflow.SectionResults:   "Election Results",
}

// Terminal renders the client on a line-oriented terminal. It implements
// workflow.View and workflow.Confirmer.
type Terminal struct {
	out   io.Writer
	in    *bufio.Reader
	color bool

	mu  sync.Mutex
	nav bool
}

type TerminalOptionFunc func(*Terminal)

// WithInput sets where confirmation answers are read from
func WithInput(r io.Reader) TerminalOptionFunc {
	return func(t *Terminal) {
		t.in = bufio.NewReader(r)
	}
}

// WithColor forces ANSI colour on or off
func WithColor(enabled bool) TerminalOptionFunc {
	return func(t *Terminal) {
		t.color = enabled
	}
}

// NewTerminal writes to out and reads answers from stdin. Colour is on when
// out is a terminal.
func NewTerminal(out io.Writer, opts ...TerminalOptionFunc) *Terminal {
	t := &Terminal{
		out:   out,
		color: IsTerminal(out),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.in == nil {
		t.in = bufio.NewReader(os.Stdin)
	}
	return t
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *Terminal) paint(code, s string) string {
	if !t.color {
		return s
	}
	return code + s + ansiReset
}

func (t *Terminal) println(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format+"\n", args...)
}

// Printf writes one line of free-form output
func (t *Terminal) Printf(format string, args ...any) {
	t.println(format, args...)
}

func (t *Terminal) ShowAlert(a alert.Alert) {
	switch a.Kind {
	case alert.KindSuccess:
		t.println("%s", t.paint(ansiGreen, "✓ "+a.Message))
	case alert.KindDanger:
		t.println("%s", t.paint(ansiRed, "✗ "+a.Message))
	default:
		t.println("%s", t.paint(ansiCyan, "• "+a.Message))
	}
}

// DismissAlert is a no-op; printed lines stay in the scrollback
func (t *Terminal) DismissAlert(string) {}

func (t *Terminal) ShowSection(s workflow.Section) {
	title, ok := sectionTitles[s]
	if !ok {
		title = string(s)
	}
	t.println("\n%s", t.paint(ansiBold, "== "+title+" =="))
}

func (t *Terminal) ShowNavigation(visible bool) {
	t.mu.Lock()
	changed := t.nav != visible
	t.nav = visible
	t.mu.Unlock()

	if changed && visible {
		t.println("%s", t.paint(ansiGray, "Commands: dashboard, elections, candidates, vote, results, logout"))
	}
}

// Navigation reports whether the signed-in command hint has been shown
func (t *Terminal) Navigation() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nav
}

func (t *Terminal) RenderVoter(v models.VoterSummary) {
	t.println("Welcome, %s", t.paint(ansiBold, v.Name))
	t.println("Voter ID: %s", v.VoterID)
	if v.Email != "" {
		t.println("Email: %s", v.Email)
	}
}

func (t *Terminal) RenderStats(s models.DashboardStats) {
	t.println("  Active elections:    %s", humanize.Comma(int64(s.ActiveElections)))
	t.println("  Upcoming elections:  %s", humanize.Comma(int64(s.UpcomingElections)))
	t.println("  Completed elections: %s", humanize.Comma(int64(s.CompletedElections)))
	t.println("  Votes cast:          %s", humanize.Comma(int64(s.VotesCast)))
}

func (t *Terminal) RenderElections(_ workflow.Section, elections []models.Election) {
	if len(elections) == 0 {
		t.println("%s", t.paint(ansiGray, msgNoElections))
		return
	}
	t.println("Choose an election:")
	for _, e := range elections {
		line := fmt.Sprintf("  [%s] %s", e.ID, e.Name)
		if e.EndDate != "" {
			line += t.paint(ansiGray, " (ends "+e.EndDate+")")
		}
		t.println("%s", line)
	}
}

func (t *Terminal) RenderCandidates(candidates []models.Candidate) {
	if len(candidates) == 0 {
		t.println("%s", t.paint(ansiGray, msgNoCandidates))
		return
	}
	for _, c := range candidates {
		t.println("  [%d] %s", c.ID, t.paint(ansiBold, c.Name))
		t.println("      %s", c.Party())
		t.println("      %s", t.paint(ansiGray, c.Summary()))
	}
}

// ClearBallot is a no-op on a terminal
func (t *Terminal) ClearBallot() {}

func (t *Terminal) RenderResults(rs models.ResultSet) {
	rows := rs.Rows()
	if len(rows) == 0 {
		t.println("%s", t.paint(ansiGray, msgNoResults))
		return
	}

	t.println("Total Votes Cast: %s", t.paint(ansiBold, humanize.Comma(int64(rs.TotalVotes))))
	for _, r := range rows {
		pct := float64(r.Percentage)
		t.println("  %s  %s votes", t.paint(ansiBold, r.CandidateName), humanize.Comma(int64(r.VoteCount)))
		t.println("  %s", t.paint(ansiGray, r.Party()))
		t.println("  %s %s%%", t.paint(ansiCyan, Bar(pct, barWidth)), humanize.FtoaWithDigits(pct, 2))
	}
}

func (t *Terminal) RenderResultsError(message string) {
	t.println("%s", t.paint(ansiRed, message))
}

// ClearResults is a no-op on a terminal
func (t *Terminal) ClearResults() {}

// Confirm prints prompt and waits for a yes. Anything else, including end of
// input, is a no.
func (t *Terminal) Confirm(prompt string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Bar draws pct (0 to 100) as a fixed-width bar
func Bar(pct float64, width int) string {
	if math.IsNaN(pct) || pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Compile-time interface checks
var (
	_ workflow.View      = (*Terminal)(nil)
	_ workflow.Confirmer = (*Terminal)(nil)
)
