// Update command supersedes the current version of a fleet record.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alwitt/fleetledger/ledger"
	"github.com/alwitt/fleetledger/models"
	"github.com/spf13/cobra"
)

var (
	updateFleetNumber int64
	updateAssignments []string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Edit a fleet record",
	Long: `Edit the current version of a fleet record.

The current version is expired and a new version carrying the edit is written, with
an update description listing the changed fields. The change is confirmed first.

Example:
  fleetledger update --fleet-number 42 --set salesRate=15000
  fleetledger update --fleet-number 42 --set "Vehicle No=MH12AB1234" --yes`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Int64Var(&updateFleetNumber, "fleet-number", 0, "fleet number to edit")
	updateCmd.Flags().StringArrayVar(&updateAssignments, "set", nil, "field assignment key=value (repeatable)")
	_ = updateCmd.MarkFlagRequired("fleet-number")
	_ = updateCmd.MarkFlagRequired("set")
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	assignments, err := parseAssignments(updateAssignments)
	if err != nil {
		return err
	}

	instance, err := openLedger(ctx)
	if err != nil {
		return err
	}

	result, err := instance.Search(ctx, ledger.SearchRequest{
		Mode: models.SearchModeFleetNumber,
		Key:  strconv.FormatInt(updateFleetNumber, 10),
	})
	if err != nil {
		return err
	}
	session := ledger.NewSession()
	session.Load(result)

	current := session.Current()
	if len(current) == 0 {
		return ledger.ValidationError{
			Reason: fmt.Sprintf("fleet number %d has no current version", updateFleetNumber),
		}
	}
	snapshot, _ := session.Snapshot(current[0].ID)

	edited := current[0]
	if edited.FleetPayload, err = applyAssignments(edited.FleetPayload, assignments); err != nil {
		return err
	}

	summary, err := instance.ProposeChange(edited, snapshot)
	if errors.Is(err, ledger.ErrNoChanges) {
		fmt.Fprintln(out, "No changes detected")
		return nil
	} else if err != nil {
		return err
	}

	if err := confirm(cmd, fmt.Sprintf(
		"Are you sure you want to update this record?\nChanges: %s", summary.Description,
	)); err != nil {
		return err
	}

	written, err := instance.Commit(ctx, summary, currentActor(ctx), nil)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(out, written)
	}
	fmt.Fprintf(
		out, "Fleet number %d updated: version %s replaces %s\n",
		written.Current.FleetNumber, written.Current.ID, written.Expired.ID,
	)
	return nil
}
