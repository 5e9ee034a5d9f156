// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/eballot/alert"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/workflow"
)

func registerCommand() *cobra.Command {
	var in models.RegistrationInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new voter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, appOptions{withSession: true}, func(a *app) error {
				if err := a.requireAnonymous(); err != nil {
					return err
				}
				a.term.ShowSection(workflow.SectionRegister)
				return a.ctrl.Register(cmd.Context(), in)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.VoterID, "voter-id", "", "voter ID")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.MiddleName, "middle-name", "", "middle name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Mobile, "mobile", "", "10 digit mobile number")
	f.StringVar(&in.Aadhar, "aadhar", "", "12 digit Aadhar number")
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.DOB, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&in.Address, "address", "", "residential address")
	f.StringVar(&in.Password, "password", "", "account password")
	f.BoolVar(&in.Declaration, "declaration", false, "accept the voter declaration")
	for _, name := range []string{"voter-id", "first-name", "last-name", "mobile", "aadhar", "email", "dob", "address", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func loginCommand() *cobra.Command {
	var voterID, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, appOptions{withSession: true}, func(a *app) error {
				if err := a.requireAnonymous(); err != nil {
					return err
				}
				a.term.ShowSection(workflow.SectionLogin)
				return a.ctrl.Login(cmd.Context(), voterID, password)
			})
		},
	}
	cmd.Flags().StringVar(&voterID, "voter-id", "", "voter ID")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("voter-id")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, appOptions{withSession: true}, func(a *app) error {
				a.ctrl.Logout()
				a.term.Printf("Signed out.")
				return nil
			})
		},
	}
}

func dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the voter summary and election counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, appOptions{withSession: true}, func(a *app) error {
				state, err := a.ctrl.Start(cmd.Context())
				if state == workflow.Anonymous {
					return errNotSignedIn
				}
				if err != nil {
					a.term.ShowAlert(alert.Alert{Kind: alert.KindDanger, Message: "Failed to load dashboard"})
				}
				return err
			})
		},
	}
}

func electionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "elections",
		Short: "List the elections open for voting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, appOptions{withSession: true}, func(a *app) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				return a.ctrl.EnterVoting(cmd.Context())
			})
		},
	}
}

// openBallot walks a resumed session to the ballot of one election
func openBallot(cmd *cobra.Command, a *app, electionID string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.ctrl.EnterVoting(cmd.Context()); err != nil {
		return err
	}
	if err := a.ctrl.SelectElection(electionID); err != nil {
		return err
	}
	return a.ctrl.LoadCandidates(cmd.Context())
}

func candidatesCommand() *cobra.Command {
	var electionID string
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Show the ballot of an election",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, appOptions{withSession: true}, func(a *app) error {
				return openBallot(cmd, a, electionID)
			})
		},
	}
	cmd.Flags().StringVar(&electionID, "election", "", "election ID")
	_ = cmd.MarkFlagRequired("election")
	return cmd
}

func voteCommand() *cobra.Command {
	var electionID, candidate string
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Cast a vote",
		RunE: func(cmd *cobra.Command, args []string) error {
			candidateID, err := strconv.ParseInt(candidate, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid candidate ID %q", candidate)
			}
			return run(cmd, appOptions{withSession: true, assumeYes: assumeYes}, func(a *app) error {
				if err := openBallot(cmd, a, electionID); err != nil {
					return err
				}
				return a.ctrl.CastVote(cmd.Context(), candidateID)
			})
		},
	}
	cmd.Flags().StringVar(&electionID, "election", "", "election ID")
	cmd.Flags().StringVar(&candidate, "candidate", "", "candidate ID")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	_ = cmd.MarkFlagRequired("election")
	_ = cmd.MarkFlagRequired("candidate")
	return cmd
}

func resultsCommand() *cobra.Command {
	var electionID, status string
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List elections or show the results of one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && !models.ValidStatus(status) {
				return fmt.Errorf("invalid status %q: must be upcoming, active or completed", status)
			}
			return run(cmd, appOptions{withSession: true, resultsStatus: status}, func(a *app) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				if _, err := a.ctrl.ResultsElections(cmd.Context()); err != nil {
					return err
				}
				return a.ctrl.LoadResults(cmd.Context(), electionID)
			})
		},
	}
	cmd.Flags().StringVar(&electionID, "election", "", "election ID")
	cmd.Flags().StringVar(&status, "status", "", "list elections with this status")
	return cmd
}

func healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the voting service is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, appOptions{}, func(a *app) error {
				resp, err := a.client.Health(cmd.Context())
				if err != nil {
					a.term.ShowAlert(alert.Alert{
						Kind:    alert.KindDanger,
						Message: fmt.Sprintf("%s is unreachable: %v", a.client.BaseURL(), err),
					})
					return err
				}
				a.term.Printf("%s: %s (%s)", a.client.BaseURL(), resp.Status, resp.Message)
				return nil
			})
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", programName, version)
		},
	}
}
