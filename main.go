package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/eballot/apiclient"
	"github.com/danielhkuo/eballot/validation"
)

const programName = "eballot"

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

var globalFlags = struct {
	debug       bool
	configFile  string
	apiURL      string
	storageType string
	storagePath string
	databaseURL string
	metricsFile string
}{}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Command-line client for the EBallot voting service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.configFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.apiURL, "api-url", "", "voting service API base URL")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.storageType, "storage", "", "session storage: file, sqlite, postgres or badger")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.storagePath, "storage-path", "", "session file, SQLite database or badger directory")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.databaseURL, "database-url", "", "PostgreSQL connection string for postgres storage")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.metricsFile, "metrics-textfile", "", "write request metrics to this file on exit")

	// Subcommands
	rootCmd.AddCommand(registerCommand())
	rootCmd.AddCommand(loginCommand())
	rootCmd.AddCommand(logoutCommand())
	rootCmd.AddCommand(dashboardCommand())
	rootCmd.AddCommand(electionsCommand())
	rootCmd.AddCommand(candidatesCommand())
	rootCmd.AddCommand(voteCommand())
	rootCmd.AddCommand(resultsCommand())
	rootCmd.AddCommand(healthCommand())
	rootCmd.AddCommand(versionCommand())
	return rootCmd
}

func main() {
	rootCmd := newRootCommand()

	// signal.NotifyContext cancels in-flight requests on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !alreadyShown(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

// alreadyShown reports whether the controller has put err in front of the
// voter as an alert
func alreadyShown(err error) bool {
	var ve *validation.Error
	var apiErr *apiclient.APIError
	var netErr *apiclient.NetworkError
	return errors.As(err, &ve) || errors.As(err, &apiErr) || errors.As(err, &netErr)
}
