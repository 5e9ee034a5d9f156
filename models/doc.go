// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the voting API.

# Request Types

Types serialized into outgoing JSON bodies:

  - RegistrationInput: voterId, firstName, middleName, lastName, mobile, aadhar,
    email, dob, address, password, declaration
  - LoginRequest: voterId, password
  - VoteRequest: electionId, candidateId (integer)

RegistrationInput.Normalize trims every text field except the password.

# Response Types

Types decoded from service responses:

  - RegisterResponse: message, voterId
  - LoginResponse: token, voter
  - VoteResponse: message
  - HealthResponse: status, message
  - DashboardStats: active/upcoming/completed election counts, votes_cast
  - ElectionList, CandidateList, DashboardStatsBody: response wrappers whose
    pointer fields tell a missing field from a zero value
  - ResultSet: total_votes, results
  - ErrorResponse: error, message

List payloads hold pointers so that a body missing the list is detectable.

# Domain Types

  - VoterSummary: voter id, display name, optional email
  - Session: voter summary plus bearer token
  - Election: id, name, status and schedule strings
  - Candidate: id, name, optional party and description
  - CandidateResult: one row of a ResultSet

# Flexible JSON

The service emits some values in more than one shape:

  - ID accepts a JSON string or number
  - Percent accepts a number, a decimal string, or null

# Constants

Election status values:

	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"

Display defaults:

	DefaultPartyName   = "Independent"
	DefaultDescription = "No description available"
*/
package models
