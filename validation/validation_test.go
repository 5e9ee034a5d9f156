// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/danielhkuo/eballot/models"
)

var fixedNow = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)

func validInput() models.RegistrationInput {
	return models.RegistrationInput{
		VoterID:     "V1001",
		FirstName:   "Asha",
		LastName:    "Rao",
		Mobile:      "9876543210",
		Aadhar:      "123456789012",
		Email:       "asha@example.com",
		DOB:         fixedNow.AddDate(-19, 0, 0).Format(DateLayout),
		Address:     "12 Main Road",
		Password:    "pw",
		Declaration: true,
	}
}

func TestRegistrationFailFastOrder(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.RegistrationInput)
		want   Rule
	}{
		{
			name:   "short mobile",
			modify: func(in *models.RegistrationInput) { in.Mobile = "98765432" },
			want:   InvalidMobile,
		},
		{
			name:   "non-numeric mobile",
			modify: func(in *models.RegistrationInput) { in.Mobile = "98765x3210" },
			want:   InvalidMobile,
		},
		{
			name: "mobile wins over every other failure",
			modify: func(in *models.RegistrationInput) {
				in.Mobile = "12"
				in.Aadhar = "1"
				in.DOB = fixedNow.AddDate(-10, 0, 0).Format(DateLayout)
				in.Declaration = false
			},
			want: InvalidMobile,
		},
		{
			name:   "unicode digits are rejected",
			modify: func(in *models.RegistrationInput) { in.Mobile = "९८७६५४३२१०" },
			want:   InvalidMobile,
		},
		{
			name:   "short national id",
			modify: func(in *models.RegistrationInput) { in.Aadhar = "12345678901" },
			want:   InvalidNationalID,
		},
		{
			name: "national id before age",
			modify: func(in *models.RegistrationInput) {
				in.Aadhar = "12345678901a"
				in.DOB = fixedNow.AddDate(-5, 0, 0).Format(DateLayout)
			},
			want: InvalidNationalID,
		},
		{
			name:   "underage",
			modify: func(in *models.RegistrationInput) { in.DOB = fixedNow.AddDate(-17, 0, 0).Format(DateLayout) },
			want:   Underage,
		},
		{
			name:   "unparseable dob",
			modify: func(in *models.RegistrationInput) { in.DOB = "" },
			want:   Underage,
		},
		{
			name: "age before consent",
			modify: func(in *models.RegistrationInput) {
				in.DOB = fixedNow.AddDate(-1, 0, 0).Format(DateLayout)
				in.Declaration = false
			},
			want: Underage,
		},
		{
			name:   "consent missing",
			modify: func(in *models.RegistrationInput) { in.Declaration = false },
			want:   ConsentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)

			err := Registration(in, fixedNow)
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if verr.Rule != tt.want {
				t.Errorf("rule = %s, want %s", verr.Rule, tt.want)
			}
			if verr.Error() != Message(tt.want) {
				t.Errorf("message = %q, want %q", verr.Error(), Message(tt.want))
			}
		})
	}
}

func TestRegistrationValid(t *testing.T) {
	if err := Registration(validInput(), fixedNow); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}
}

func TestViolationsListsAllRules(t *testing.T) {
	in := models.RegistrationInput{Mobile: "1", Aadhar: "2", DOB: "2020-01-01"}

	got := Violations(in, fixedNow)
	want := []Rule{InvalidMobile, InvalidNationalID, Underage, ConsentRequired}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Violations() = %v, want %v", got, want)
	}

	if v := Violations(validInput(), fixedNow); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}
}

func TestAgeApproximation(t *testing.T) {
	tests := []struct {
		name string
		dob  string
		now  time.Time
		want int
	}{
		{
			name: "eighteenth birthday with five leap days",
			dob:  "2000-01-01",
			now:  time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 18,
		},
		{
			name: "eighteenth birthday with four leap days reads as 17",
			dob:  "2001-01-01",
			now:  time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 17,
		},
		{
			name: "half a day before the birthday already reads as 18",
			dob:  "2000-01-01",
			now:  time.Date(2017, 12, 31, 12, 0, 0, 0, time.UTC),
			want: 18,
		},
		{
			name: "future date of birth",
			dob:  "2030-06-01",
			now:  fixedNow,
			want: -4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dob, err := ParseDOB(tt.dob)
			if err != nil {
				t.Fatalf("ParseDOB() error = %v", err)
			}
			if got := Age(dob, tt.now); got != tt.want {
				t.Errorf("Age() = %d, want %d", got, tt.want)
			}
		})
	}
}
