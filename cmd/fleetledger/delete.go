// Delete command removes every version of a fleet record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteFleetNumber int64

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a fleet record and its full history",
	Long: `Delete every version of a fleet record. The fleet number is never reused.

Removals are not rolled back: if some versions fail to delete, the others stay deleted
and the failures are reported.`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().Int64Var(&deleteFleetNumber, "fleet-number", 0, "fleet number to delete")
	_ = deleteCmd.MarkFlagRequired("fleet-number")
}

func runDelete(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	instance, err := openLedger(ctx)
	if err != nil {
		return err
	}

	summary, err := instance.ProposeDeleteAll(ctx, deleteFleetNumber)
	if err != nil {
		return err
	}

	if err := confirm(cmd, fmt.Sprintf(
		"Delete ALL %d versions for fleet number %d?", len(summary.Versions), summary.FleetNumber,
	)); err != nil {
		return err
	}

	report := instance.CommitDeleteAll(ctx, summary, currentActor(ctx))

	for _, item := range report.Items {
		if item.Err != nil {
			fmt.Fprintf(out, "version %s: %s\n", item.RecordID, item.Err)
		}
	}
	fmt.Fprintf(
		out, "Removed %d of %d versions of fleet number %d\n",
		report.Removed, report.Requested, report.FleetNumber,
	)

	if !report.Complete() {
		return fmt.Errorf(
			"fleet number %d: %d of %d versions could not be removed",
			report.FleetNumber, report.Requested-report.Removed, report.Requested,
		)
	}
	return nil
}
