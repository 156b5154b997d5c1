// Changelog command lists write-level change events.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/alwitt/fleetledger/changes"
	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/history"
	"github.com/alwitt/fleetledger/models"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var (
	changelogFleetNumber int64
	changelogOperations  []string
	changelogLimit       int
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "List write-level change events",
	Long: `List every insert, expiry and removal written against the fleet records, oldest first.

Example:
  fleetledger changelog --fleet-number 42
  fleetledger changelog --operation DELETE --limit 20`,
	Args: cobra.NoArgs,
	RunE: runChangelog,
}

func init() {
	changelogCmd.Flags().Int64Var(&changelogFleetNumber, "fleet-number", 0, "only events of this fleet number")
	changelogCmd.Flags().StringSliceVar(&changelogOperations, "operation", nil, "only these operations (CREATE, UPDATE, DELETE)")
	changelogCmd.Flags().IntVar(&changelogLimit, "limit", 0, "maximum number of events (0 = no limit)")
}

// changelogFilter build the change event filter from the command flags
func changelogFilter(cmd *cobra.Command) (db.ChangeEventQueryFilter, error) {
	filter := db.ChangeEventQueryFilter{}
	if cmd.Flags().Changed("fleet-number") {
		fleetNumber := changelogFleetNumber
		filter.FleetNumber = &fleetNumber
	}
	for _, raw := range changelogOperations {
		operation := models.ChangeOperationENUMType(strings.ToUpper(strings.TrimSpace(raw)))
		switch operation {
		case models.ChangeOperationCreate, models.ChangeOperationUpdate, models.ChangeOperationDelete:
			filter.Operations = append(filter.Operations, operation)
		default:
			return filter, fmt.Errorf("unknown change operation '%s'", raw)
		}
	}
	if changelogLimit > 0 {
		limit := changelogLimit
		filter.Limit = &limit
	}
	return filter, nil
}

// changedFields which fields an event changed, bookkeeping included
func changedFields(event models.ChangeEvent, validate *validator.Validate) (string, error) {
	before, after, err := event.ParseSnapshots(validate)
	if err != nil {
		return "", err
	}
	if before == nil || after == nil {
		return "", nil
	}
	return strings.Join(
		changes.Diff(models.FlattenRecord(*after), models.FlattenRecord(*before)), ", ",
	), nil
}

func runChangelog(cmd *cobra.Command, _ []string) error {
	filter, err := changelogFilter(cmd)
	if err != nil {
		return err
	}

	instance, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}

	events, err := instance.ChangeLog(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, events)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No change events found")
		return nil
	}

	validate := validator.New()
	if err := models.RegisterWithValidator(validate); err != nil {
		return fmt.Errorf("failed to install custom validation macros [%w]", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tOPERATION\tFLEET NUMBER\tVERSION\tACTOR\tFIELDS")
	for _, event := range events {
		fields, err := changedFields(event, validate)
		if err != nil {
			return err
		}
		fmt.Fprintf(
			w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			history.Render(event.CreatedAt), event.Operation, event.FleetNumber,
			event.DocumentID, event.Actor, fields,
		)
	}
	return w.Flush()
}
