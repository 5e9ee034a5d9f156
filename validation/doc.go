// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validation checks registration input before it is sent to the service.

# Rules

Checked in this order:

  - InvalidMobile: mobile must be exactly 10 ASCII digits
  - InvalidNationalID: Aadhar number must be exactly 12 ASCII digits
  - Underage: age computed by Age must be at least 18
  - ConsentRequired: the declaration must be accepted

# Fail-Fast

Registration stops at the first failing rule and returns a *Error carrying that
rule and its message:

	if err := validation.Registration(in, time.Now()); err != nil {
		var verr *validation.Error
		errors.As(err, &verr) // verr.Rule == validation.InvalidMobile
	}

Violations returns every failing rule, for callers that want to show them all.

# Age

Age is floor((now - dob) / 365.25 days), not a calendar-exact age. Someone within
about a day of their 18th birthday may be classified either way. A date of birth
that does not parse as YYYY-MM-DD fails the Underage rule.
*/
package validation
