// History command lists every version of one fleet record.
package main

import (
	"fmt"

	"github.com/alwitt/fleetledger/history"
	"github.com/spf13/cobra"
)

var historyFleetNumber int64

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List every version of a fleet record",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int64Var(&historyFleetNumber, "fleet-number", 0, "fleet number")
	_ = historyCmd.MarkFlagRequired("fleet-number")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	instance, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}

	versions, err := instance.History(cmd.Context(), historyFleetNumber, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(versions) == 0 {
		fmt.Fprintf(out, "No record found for Fleet Number: %d\n", historyFleetNumber)
		return nil
	}

	history.Order(versions)
	if flagJSON {
		return printJSON(out, versions)
	}
	printRows(out, history.Project(versions))
	return nil
}
