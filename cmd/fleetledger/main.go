// Package main provides the fleetledger CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/identity"
	"github.com/alwitt/fleetledger/ledger"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigFile string
	flagJSON       bool
	flagYes        bool
)

// runtimeEnv state shared by every subcommand, set up by PersistentPreRunE
type runtimeEnv struct {
	cfg        Config
	dialector  gorm.Dialector
	identity   identity.Provider
	invocation string
}

var env runtimeEnv

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}

// run execute the CLI and map the outcome to an exit code
func run(ctx context.Context, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err)
	return exitCode(err)
}

// exitCode user errors exit 1, everything else exits 2
func exitCode(err error) int {
	var invalid ledger.ValidationError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &invalid),
		errors.Is(err, ledger.ErrDeclined),
		errors.Is(err, ledger.ErrNoChanges),
		errors.Is(err, ledger.ErrNoVersions),
		errors.Is(err, ledger.ErrConcurrentModification),
		errors.Is(err, db.ErrCounterMissing):
		return exitUserError
	}
	return exitSysError
}

var rootCmd = &cobra.Command{
	Use:   "fleetledger",
	Short: "Versioned fleet billing ledger",
	Long: `fleetledger keeps the full history of every fleet billing record.

Edits never overwrite: each change expires the current version and writes a new one
under the same fleet number.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRuntime,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (default: ./fleetledger.yaml or ~/.fleetledger/fleetledger.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "skip confirmation prompts")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(changelogCmd)
}

// setupRuntime load config, install logging and select the storage dialector
func setupRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(flagConfigFile)
	if err != nil {
		return err
	}

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	dialector, err := db.GetDialector(cfg.DB.Dialect, cfg.DB.DSN)
	if err != nil {
		return err
	}

	env = runtimeEnv{
		cfg:        cfg,
		dialector:  dialector,
		identity:   identity.FromContext(),
		invocation: uuid.NewString(),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Ledger.Actor != "" {
		ctx = identity.WithActor(ctx, cfg.Ledger.Actor)
	}
	cmd.SetContext(ctx)

	log.WithFields(log.Fields{
		"command":    cmd.Name(),
		"invocation": env.invocation,
		"dialect":    cfg.DB.Dialect,
	}).Debug("fleetledger starting")
	return nil
}

func setupLogging(cfg LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level '%s' [%w]", cfg.Level, err)
	}
	log.SetLevel(level)
	if cfg.JSON {
		log.SetHandler(json.New(os.Stderr))
	} else {
		log.SetHandler(cli.New(os.Stderr))
	}
	return nil
}
