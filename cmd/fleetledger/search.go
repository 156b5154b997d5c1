// Search command, and the search flags shared with export.
package main

import (
	"fmt"

	"github.com/alwitt/fleetledger/history"
	"github.com/alwitt/fleetledger/ledger"
	"github.com/alwitt/fleetledger/models"
	"github.com/alwitt/fleetledger/sheet"
	"github.com/spf13/cobra"
)

// searchFlags one search mode is selected by which flag is given
type searchFlags struct {
	fleetNumber string
	broker      string
	from        string
	to          string
	activeOnly  bool
}

func (f *searchFlags) install(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fleetNumber, "fleet-number", "", "search by fleet number")
	cmd.Flags().StringVar(&f.broker, "broker", "", "search by broker")
	cmd.Flags().StringVar(&f.from, "from", "", "search by creation date, from DD-MM-YYYY")
	cmd.Flags().StringVar(&f.to, "to", "", "search by creation date, to DD-MM-YYYY inclusive")
	cmd.Flags().BoolVar(&f.activeOnly, "active-only", false, "only current versions")
	cmd.MarkFlagsMutuallyExclusive("fleet-number", "broker", "from")
	cmd.MarkFlagsMutuallyExclusive("fleet-number", "broker", "to")
}

// request build the search request. Empty values are left to the query router to reject.
func (f *searchFlags) request(cmd *cobra.Command) (ledger.SearchRequest, error) {
	req := ledger.SearchRequest{ActiveOnly: f.activeOnly}
	switch {
	case cmd.Flags().Changed("fleet-number"):
		req.Mode = models.SearchModeFleetNumber
		req.Key = f.fleetNumber
	case cmd.Flags().Changed("broker"):
		req.Mode = models.SearchModeBroker
		req.Key = f.broker
	case cmd.Flags().Changed("from") || cmd.Flags().Changed("to"):
		req.Mode = models.SearchModeDateRange
		var err error
		if req.From, err = sheet.ParseDate(f.from); err != nil {
			return req, ledger.ValidationError{Reason: fmt.Sprintf("--from: %s", err.Error())}
		}
		if req.To, err = sheet.ParseDate(f.to); err != nil {
			return req, ledger.ValidationError{Reason: fmt.Sprintf("--to: %s", err.Error())}
		}
	default:
		return req, ledger.ValidationError{
			Reason: "select a search with --fleet-number, --broker or --from/--to",
		}
	}
	return req, nil
}

// run execute the search. A rejected search is returned as a validation error.
func (f *searchFlags) run(cmd *cobra.Command) (ledger.SearchResult, error) {
	req, err := f.request(cmd)
	if err != nil {
		return ledger.SearchResult{}, err
	}

	instance, err := openLedger(cmd.Context())
	if err != nil {
		return ledger.SearchResult{}, err
	}

	result, err := instance.Search(cmd.Context(), req)
	if err != nil {
		return ledger.SearchResult{}, err
	}
	if result.Rejected() {
		return result, ledger.ValidationError{Reason: result.Notice.Message}
	}
	return result, nil
}

var searchOpts searchFlags

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search fleet records",
	Long: `Search fleet records by fleet number, broker, or creation date range.

A fleet number search lists the editable current version, followed by the full
version history. Broker and date range searches list matching versions only.

Example:
  fleetledger search --fleet-number 42
  fleetledger search --broker "Acme Logistics" --active-only
  fleetledger search --from 01-05-2024 --to 31-05-2024 --json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchOpts.install(searchCmd)
}

// searchOutput JSON form of a search result
type searchOutput struct {
	Current []models.FleetRecord `json:"current,omitempty"`
	History []models.FleetRecord `json:"history"`
	Notice  *ledger.Notice       `json:"notice,omitempty"`
}

func runSearch(cmd *cobra.Command, _ []string) error {
	result, err := searchOpts.run(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		ordered := append([]models.FleetRecord{}, result.All...)
		history.Order(ordered)
		return printJSON(out, searchOutput{
			Current: result.Current,
			History: ordered,
			Notice:  result.Notice,
		})
	}

	printNotice(out, result.Notice)
	if len(result.All) == 0 {
		return nil
	}
	if len(result.Current) > 0 {
		fmt.Fprintln(out, "Current version:")
		printRows(out, history.ProjectCurrent(result.Current))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Version history:")
	}
	printRows(out, history.Project(result.All))
	return nil
}
