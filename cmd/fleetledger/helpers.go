// Shared helpers for fleetledger CLI commands.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alwitt/fleetledger"
	"github.com/alwitt/fleetledger/history"
	"github.com/alwitt/fleetledger/identity"
	"github.com/alwitt/fleetledger/ledger"
	"github.com/alwitt/fleetledger/models"
	"github.com/alwitt/fleetledger/sheet"
	"github.com/spf13/cobra"
)

// tableColumns the fields shown in tabular output. --json shows everything.
var tableColumns = []string{
	models.KeyFleetNumber,
	models.KeyRecordID,
	models.KeyIsCurrent,
	models.KeyVersionDate,
	models.KeyExpiredAt,
	"broker",
	"origin",
	"destination",
	"vehicleNo",
	"salesRate",
	models.KeyUpdateDescription,
}

// openLedger build a ledger against the configured store
func openLedger(ctx context.Context) (ledger.Ledger, error) {
	instance, err := fleetledger.NewFleetLedger(
		ctx, env.dialector, env.cfg.DB.sqlLogLevel(), env.cfg.Ledger.AllowCounterBootstrap,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open fleet ledger [%w]", err)
	}
	return instance, nil
}

// currentActor who writes from this invocation are attributed to
func currentActor(ctx context.Context) string {
	return identity.ActorOrAnonymous(ctx, env.identity)
}

/*
parseAssignments parse `key=value` field assignments

The key is either a payload field key (e.g. `customer.saleRate`) or its display label
(e.g. `Customer -Sale rate`). Date fields accept DD-MM-YYYY and DD-MM-YYYY HH:MM:SS. An
empty value clears the field.

	@param pairs []string - the assignments
	@returns flattened payload fields
*/
func parseAssignments(pairs []string) (map[string]any, error) {
	payloadKeys := map[string]models.Column{}
	for _, col := range models.PayloadColumns() {
		payloadKeys[col.Key] = col
	}

	result := map[string]any{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, ledger.ValidationError{
				Reason: fmt.Sprintf("'%s' is not a key=value assignment", pair),
			}
		}
		name = strings.TrimSpace(name)

		key, _ := models.KeyForLabel(name)
		col, known := payloadKeys[key]
		if !known {
			return nil, ledger.ValidationError{
				Reason: fmt.Sprintf("'%s' is not an editable field", name),
			}
		}

		if col.Kind == models.FieldKindDate {
			parsed, err := sheet.ParseDate(value)
			if err != nil {
				return nil, ledger.ValidationError{
					Reason: fmt.Sprintf("field '%s': %s", col.Label, err.Error()),
				}
			}
			if parsed == nil {
				result[key] = nil
			} else {
				result[key] = *parsed
			}
			continue
		}
		result[key] = strings.TrimSpace(value)
	}
	return result, nil
}

// applyAssignments overlay field assignments onto a payload
func applyAssignments(
	payload models.FleetPayload, assignments map[string]any,
) (models.FleetPayload, error) {
	fields := models.FlattenPayload(payload)
	for key, value := range assignments {
		fields[key] = value
	}
	return models.UnflattenPayload(fields)
}

// confirm ask the operator to confirm. Anything but y/yes declines.
func confirm(cmd *cobra.Command, prompt string) error {
	if flagYes {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read confirmation [%w]", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return ledger.ErrDeclined
}

// printJSON write a value as indented JSON
func printJSON(out io.Writer, value any) error {
	output, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output [%w]", err)
	}
	_, err = fmt.Fprintln(out, string(output))
	return err
}

// printRows print projected versions as a table
func printRows(out io.Writer, rows []history.Row) {
	columns := make([]models.Column, 0, len(tableColumns))
	for _, key := range tableColumns {
		if col, ok := models.LookupColumn(key); ok {
			columns = append(columns, col)
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	labels := make([]string, 0, len(columns))
	for _, col := range columns {
		labels = append(labels, strings.ToUpper(col.Label))
	}
	fmt.Fprintln(w, strings.Join(labels, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row.Values(columns), "\t"))
	}
	w.Flush()
}

// printNotice print a search notice, if any
func printNotice(out io.Writer, notice *ledger.Notice) {
	if notice == nil {
		return
	}
	fmt.Fprintf(out, "[%s] %s\n", notice.Level, notice.Message)
}
