// Add command creates a new fleet record.
package main

import (
	"fmt"

	"github.com/alwitt/fleetledger/models"
	"github.com/spf13/cobra"
)

var addAssignments []string

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new fleet record",
	Long: `Create the first version of a new fleet record. A fresh fleet number is assigned.

Fields are set with --set, by field key or by display label.

Example:
  fleetledger add --set broker="Acme Logistics" --set origin=Pune --set salesRate=12000
  fleetledger add --set "Indent Date=17-05-2024" --set customer.name=Globex`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringArrayVar(&addAssignments, "set", nil, "field assignment key=value (repeatable)")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	assignments, err := parseAssignments(addAssignments)
	if err != nil {
		return err
	}
	payload, err := applyAssignments(models.FleetPayload{}, assignments)
	if err != nil {
		return err
	}

	instance, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}

	record, err := instance.CreateVersion(cmd.Context(), payload, currentActor(cmd.Context()), nil)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), record)
	}
	fmt.Fprintf(
		cmd.OutOrStdout(), "Created fleet number %d (version %s)\n", record.FleetNumber, record.ID,
	)
	return nil
}
