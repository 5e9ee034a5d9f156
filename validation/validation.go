// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"math"
	"time"

	"github.com/danielhkuo/eballot/models"
)

// Rule names one registration check
type Rule string

const (
	InvalidMobile     Rule = "invalid_mobile"
	InvalidNationalID Rule = "invalid_national_id"
	Underage          Rule = "underage"
	ConsentRequired   Rule = "consent_required"
)

// Rules in the order they are checked
var Rules = []Rule{InvalidMobile, InvalidNationalID, Underage, ConsentRequired}

const (
	MobileLength     = 10
	NationalIDLength = 12
	MinimumAge       = 18

	// DateLayout is the date of birth format sent by the registration form
	DateLayout = "2006-01-02"
)

// yearLength is the 365.25 day year used for the age approximation
const yearLength = 8766 * time.Hour

var messages = map[Rule]string{
	InvalidMobile:     "Mobile number must be exactly 10 digits",
	InvalidNationalID: "Aadhar number must be exactly 12 digits",
	Underage:          "You must be at least 18 years old to register",
	ConsentRequired:   "You must accept the declaration",
}

// Error is a failed registration check
type Error struct {
	Rule    Rule
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Message returns the user-facing text for a rule
func Message(r Rule) string {
	return messages[r]
}

// Registration checks in order (mobile, national id, age, declaration) and returns
// an *Error for the first rule that fails, or nil.
func Registration(in models.RegistrationInput, now time.Time) error {
	for _, r := range Rules {
		if violates(r, in, now) {
			return &Error{Rule: r, Message: messages[r]}
		}
	}
	return nil
}

// Violations returns every rule the input breaks, in check order
func Violations(in models.RegistrationInput, now time.Time) []Rule {
	var out []Rule
	for _, r := range Rules {
		if violates(r, in, now) {
			out = append(out, r)
		}
	}
	return out
}

func violates(r Rule, in models.RegistrationInput, now time.Time) bool {
	switch r {
	case InvalidMobile:
		return !allDigits(in.Mobile, MobileLength)
	case InvalidNationalID:
		return !allDigits(in.Aadhar, NationalIDLength)
	case Underage:
		dob, err := ParseDOB(in.DOB)
		if err != nil {
			// No usable birth date means the age requirement can't be shown to hold
			return true
		}
		return Age(dob, now) < MinimumAge
	case ConsentRequired:
		return !in.Declaration
	}
	return false
}

// ParseDOB parses a YYYY-MM-DD date as midnight UTC
func ParseDOB(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Age is floor((now - dob) / 365.25 days). This is an approximation: it can be off by
// one within about a day of a birthday.
func Age(dob, now time.Time) int {
	return int(math.Floor(float64(now.Sub(dob)) / float64(yearLength)))
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
