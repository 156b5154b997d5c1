// Package changes - fleet record change detection
package changes

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alwitt/fleetledger/models"
)

// BookkeepingFields fields never compared when detecting changes
var BookkeepingFields = []string{
	models.KeyVersionDate,
	models.KeyExpiredAt,
	models.KeyIsCurrent,
	models.KeyUpdateDescription,
	models.KeyCreatedAt,
	models.KeyCreatedBy,
}

// SubmissionFields fields additionally ignored when an edit is submitted
var SubmissionFields = []string{
	models.KeyRecordID,
	models.KeyModifiedBy,
	models.KeyFleetNumber,
}

/*
Normalize render a field value into its comparison form

nil becomes the empty string, timestamps become RFC 3339 in UTC, and everything else
becomes its trimmed string form. This absorbs type drift from the trip through the store,
e.g. a number read back as a string.

	@param value any - the field value
	@returns normalized value
*/
func Normalize(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(time.RFC3339Nano)
	case string:
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

/*
Diff compare two flattened field maps

Keys present in either map are compared, in catalog column order followed by any other
key in lexical order. A key missing from one side compares as the empty string.

	@param edited map[string]any - the edited fields
	@param original map[string]any - the last persisted fields
	@param ignored ...string - keys to skip
	@returns the changed field keys
*/
func Diff(edited, original map[string]any, ignored ...string) []string {
	skip := make(map[string]bool, len(ignored))
	for _, key := range ignored {
		skip[key] = true
	}

	changed := []string{}
	for _, key := range comparisonOrder(edited, original) {
		if skip[key] {
			continue
		}
		if Normalize(edited[key]) != Normalize(original[key]) {
			changed = append(changed, key)
		}
	}
	return changed
}

// comparisonOrder union of the keys of both maps in a stable order
func comparisonOrder(a, b map[string]any) []string {
	seen := make(map[string]bool, len(a)+len(b))
	ordered := []string{}
	for _, col := range models.Columns() {
		_, inA := a[col.Key]
		_, inB := b[col.Key]
		if inA || inB {
			ordered = append(ordered, col.Key)
			seen[col.Key] = true
		}
	}

	extra := []string{}
	for _, m := range []map[string]any{a, b} {
		for key := range m {
			if !seen[key] {
				seen[key] = true
				extra = append(extra, key)
			}
		}
	}
	sort.Strings(extra)

	return append(ordered, extra...)
}

/*
DiffRecords compare an edited fleet record version against its persisted snapshot

Bookkeeping and submission fields are ignored; sub-group fields are reported by
their dotted path.

	@param edited models.FleetRecord - the edited version
	@param original models.FleetRecord - the persisted snapshot
	@returns the changed field keys
*/
func DiffRecords(edited, original models.FleetRecord) []string {
	ignored := append(append([]string{}, BookkeepingFields...), SubmissionFields...)
	return Diff(models.FlattenRecord(edited), models.FlattenRecord(original), ignored...)
}

// HasMeaningfulChanges whether saving the edit would produce a new version
func HasMeaningfulChanges(edited, original models.FleetRecord) bool {
	return len(DiffRecords(edited, original)) > 0
}

/*
Describe render changed fields into an update description

	@param fields []string - the changed field keys
	@param label func(string) string - field key to display label lookup. If nil, the
	    keys are used as is.
	@returns description, e.g. "Updated Sales Rate, Updated Origin"
*/
func Describe(fields []string, label func(string) string) string {
	entries := make([]string, 0, len(fields))
	for _, key := range fields {
		display := key
		if label != nil {
			display = label(key)
		}
		entries = append(entries, "Updated "+display)
	}
	return strings.Join(entries, ", ")
}
