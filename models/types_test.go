// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"string", `"e-42"`, "e-42", false},
		{"number", `42`, "42", false},
		{"null", `null`, "", false},
		{"object", `{"id":1}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ID
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPercentUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Percent
		wantErr bool
	}{
		{"number", `62.5`, 62.5, false},
		{"decimal string", `"33.33"`, 33.33, false},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
		{"garbage", `"lots"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Percent
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeKeepsPassword(t *testing.T) {
	in := RegistrationInput{
		VoterID:  "  V100 ",
		Mobile:   " 9876543210\n",
		Email:    "\ta@b.c ",
		Password: "  secret  ",
	}

	got := in.Normalize()

	if got.VoterID != "V100" || got.Mobile != "9876543210" || got.Email != "a@b.c" {
		t.Errorf("fields not trimmed: %+v", got)
	}
	if got.Password != "  secret  " {
		t.Errorf("password must not be trimmed, got %q", got.Password)
	}
}

func TestCandidateDefaults(t *testing.T) {
	c := Candidate{ID: 1, Name: "Asha"}
	if c.Party() != DefaultPartyName {
		t.Errorf("Party() = %q, want %q", c.Party(), DefaultPartyName)
	}
	if c.Summary() != DefaultDescription {
		t.Errorf("Summary() = %q, want %q", c.Summary(), DefaultDescription)
	}

	c.PartyName = "Green"
	if c.Party() != "Green" {
		t.Errorf("Party() = %q, want Green", c.Party())
	}
}

func TestResultSetDecode(t *testing.T) {
	body := `{"election_id": 7, "total_votes": 3, "results": [
		{"candidate_name": "Asha", "party_name": null, "vote_count": 2, "percentage": "66.67"},
		{"candidate_name": "Ravi", "vote_count": 1}
	]}`

	var rs ResultSet
	if err := json.Unmarshal([]byte(body), &rs); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	rows := rs.Rows()
	if rs.ElectionID != "7" || rs.TotalVotes != 3 || len(rows) != 2 {
		t.Fatalf("unexpected result set: %+v", rs)
	}
	if rows[0].Percentage != 66.67 || rows[0].Party() != DefaultPartyName {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Percentage != 0 {
		t.Errorf("missing percentage should decode to 0, got %v", rows[1].Percentage)
	}
}
