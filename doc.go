// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Command eballot is a command-line client for the EBallot voting service.

A voter registers, signs in once, and the session is remembered between runs
until they sign out. Elections, ballots and results are always fetched fresh
from the service.

# Usage

	eballot health
	eballot register --voter-id V1 --first-name Asha --last-name Rao \
		--mobile 9876543210 --aadhar 123412341234 --email asha@example.com \
		--dob 1990-04-01 --address "12 Main Rd" --password s3cret --declaration
	eballot login --voter-id V1 --password s3cret
	eballot dashboard
	eballot elections
	eballot candidates --election 3
	eballot vote --election 3 --candidate 7
	eballot results --election 3
	eballot logout

vote asks for confirmation unless --yes is given.

# Configuration

Settings are layered, later sources winning:

  - built-in defaults (service at http://localhost:5000/api, file storage in ~/.eballot)
  - a .env file in the working directory
  - the YAML file given by --config, or ~/.eballot/eballot.yaml when present
  - EBALLOT_* environment variables
  - command-line flags

Session storage is one of file, sqlite, postgres or badger (--storage).

# Architecture

  - workflow: the voting state machine, talking to the outside through ports
  - apiclient: typed HTTP client for the service, with prometheus metrics
  - session, storage, db: the persisted session and its backends
  - alert: per-section notices that dismiss themselves
  - view: terminal rendering and confirmation prompts
  - validation, auth, models: input rules, credential helpers and wire types
  - router, middleware: the service's route table and HTTP plumbing
  - cliparse: configuration loading
  - testutil: an in-memory fake of the service for tests

See package documentation for each component.
*/
package main
