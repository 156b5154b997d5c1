// Init command prepares the ledger database.
package main

import (
	"fmt"

	"github.com/alwitt/fleetledger"
	"github.com/spf13/cobra"
)

var initSeed int64

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the ledger database",
	Long: `Define the ledger tables and seed the fleet number counter.

Safe to run against an already prepared database: an existing counter is never reset.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Int64Var(&initSeed, "seed", 0, "first fleet number to hand out (default: ledger.counter_seed)")
}

func runInit(cmd *cobra.Command, _ []string) error {
	seed := env.cfg.Ledger.CounterSeed
	if cmd.Flags().Changed("seed") {
		seed = initSeed
	}

	if err := fleetledger.InitializeStore(
		cmd.Context(), env.dialector, env.cfg.DB.sqlLogLevel(), seed,
	); err != nil {
		return fmt.Errorf("failed to initialize ledger store [%w]", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Fleet ledger initialized")
	return nil
}
