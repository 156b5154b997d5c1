package ledger

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
)

// NoticeLevelENUMType search notice level ENUM value type
type NoticeLevelENUMType string

const (
	// NoticeLevelWarning the request was rejected before reaching the store
	NoticeLevelWarning NoticeLevelENUMType = "WARNING"
	// NoticeLevelInfo the search ran but found nothing
	NoticeLevelInfo NoticeLevelENUMType = "INFO"
)

// Notice user facing search outcome message
type Notice struct {
	Level   NoticeLevelENUMType `json:"level"`
	Message string              `json:"message"`
}

// SearchRequest fleet record search parameters
type SearchRequest struct {
	// Mode how to search
	Mode models.SearchModeENUMType `validate:"required,search_mode"`
	// Key the fleet number or broker to match. Used by FLEET_NUMBER and BROKER mode.
	Key string
	// From start date, inclusive. Used by DATE_RANGE mode.
	From *time.Time
	// To end date, inclusive to the end of that day. Used by DATE_RANGE mode.
	To *time.Time
	// ActiveOnly return only current versions
	ActiveOnly bool
}

// SearchResult fleet record search result
type SearchResult struct {
	// Current the editable current versions. Only populated in FLEET_NUMBER mode.
	Current []models.FleetRecord
	// All every matching version
	All []models.FleetRecord
	// Notice set when the request was rejected, or nothing was found
	Notice *Notice
}

// Rejected whether the request was rejected without running the search
func (r SearchResult) Rejected() bool {
	return r.Notice != nil && r.Notice.Level == NoticeLevelWarning
}

func rejectSearch(message string) SearchResult {
	return SearchResult{
		Current: []models.FleetRecord{},
		All:     []models.FleetRecord{},
		Notice:  &Notice{Level: NoticeLevelWarning, Message: message},
	}
}

// endOfDay the last instant of the day containing ts
func endOfDay(ts time.Time) time.Time {
	year, month, day := ts.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), ts.Location())
}

/*
buildSearchFilter translate a search request into a store query

	@param req SearchRequest - the search
	@returns the query, or a rejection message when the request is malformed
*/
func buildSearchFilter(req SearchRequest) (db.FleetRecordQueryFilter, string) {
	filter := db.FleetRecordQueryFilter{CurrentOnly: req.ActiveOnly}
	key := strings.TrimSpace(req.Key)

	switch req.Mode {
	case models.SearchModeFleetNumber:
		if key == "" {
			return filter, "Please enter a search value."
		}
		fleetNumber, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return filter, fmt.Sprintf("'%s' is not a fleet number.", key)
		}
		filter.FleetNumber = &fleetNumber

	case models.SearchModeBroker:
		if key == "" {
			return filter, "Please enter a search value."
		}
		filter.Broker = &key

	case models.SearchModeDateRange:
		if req.From == nil || req.To == nil {
			return filter, "Please select both From and To dates."
		}
		from := *req.From
		to := endOfDay(*req.To)
		if from.After(to) {
			return filter, "'From' date cannot be after 'To' date."
		}
		from = from.UTC()
		to = to.UTC()
		filter.CreatedAfter = &from
		filter.CreatedBefore = &to
	}

	return filter, ""
}

func emptyResultMessage(req SearchRequest) string {
	key := strings.TrimSpace(req.Key)
	switch req.Mode {
	case models.SearchModeFleetNumber:
		return fmt.Sprintf("No record found for Fleet Number: %s", key)
	case models.SearchModeBroker:
		return fmt.Sprintf("No record found for Broker: %s", key)
	case models.SearchModeDateRange:
		return fmt.Sprintf(
			"No data available between %s and %s",
			req.From.Format("02-01-2006"), req.To.Format("02-01-2006"),
		)
	}
	return "No data found."
}

/*
Search find fleet record versions

Malformed requests are not errors: the result carries a WARNING notice and no query
is issued. An empty result carries an INFO notice.

	@param ctx context.Context - execution context
	@param req SearchRequest - the search
	@returns the current versions (fleet number mode only) and all matching versions
*/
func (l *ledgerImpl) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	if err := l.validator.Struct(&req); err != nil {
		return rejectSearch(fmt.Sprintf("Unsupported search mode '%s'.", req.Mode)), nil
	}

	filter, rejection := buildSearchFilter(req)
	if rejection != "" {
		log.WithFields(l.GetLogTagsForContext(ctx)).
			WithField("mode", req.Mode).
			Debug(rejection)
		return rejectSearch(rejection), nil
	}

	var versions []models.FleetRecord
	if dbErr := l.persistence.UseDatabase(
		ctx, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			versions, err = dbClient.ListFleetRecords(dbCtx, filter)
			return err
		},
	); dbErr != nil {
		return SearchResult{}, fmt.Errorf("fleet record search failed [%w]", dbErr)
	}

	result := SearchResult{Current: []models.FleetRecord{}, All: []models.FleetRecord{}}
	for _, version := range versions {
		result.All = append(result.All, version)
		if version.IsCurrent && req.Mode == models.SearchModeFleetNumber {
			result.Current = append(result.Current, version)
		}
	}
	sort.SliceStable(result.Current, func(i, j int) bool {
		return result.Current[i].FleetNumber > result.Current[j].FleetNumber
	})

	if len(result.All) == 0 {
		result.Notice = &Notice{Level: NoticeLevelInfo, Message: emptyResultMessage(req)}
	}

	return result, nil
}
