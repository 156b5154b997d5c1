package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alwitt/fleetledger/changes"
	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
)

// ChangeSummary a proposed, not yet written, edit of one fleet record
type ChangeSummary struct {
	// RecordID the current version the edit started from
	RecordID string
	// FleetNumber fleet number of the record
	FleetNumber int64
	// Snapshot the persisted version the edit started from
	Snapshot models.FleetRecord
	// Payload fields of the edited version
	Payload models.FleetPayload
	// Fields changed field keys
	Fields []string
	// ChangeLog one "Updated <label>" entry per changed field
	ChangeLog []string
	// Description the update description the new version will carry
	Description string
}

// BulkItemStatus outcome of one item of a bulk operation
type BulkItemStatus struct {
	// Index position of the item in the request
	Index int
	// FleetNumber fleet number of the item, when known
	FleetNumber int64
	// Record the stored version when the item succeeded
	Record *models.FleetRecord
	// Err why the item failed
	Err error
}

// BulkReport outcome of a bulk operation
type BulkReport struct {
	// Items per-item outcome, in request order
	Items []BulkItemStatus
	// Succeeded number of items which succeeded
	Succeeded int
	// Failed number of items which failed
	Failed int
}

func (r *BulkReport) tally() {
	r.Succeeded, r.Failed = 0, 0
	for _, item := range r.Items {
		if item.Err != nil {
			r.Failed++
		} else {
			r.Succeeded++
		}
	}
}

// DeletionSummary a proposed, not yet performed, deletion of a whole fleet record
type DeletionSummary struct {
	// FleetNumber fleet number of the record
	FleetNumber int64
	// Versions every version to remove
	Versions []models.FleetRecord
}

// DeletionItemStatus outcome of removing one version
type DeletionItemStatus struct {
	// RecordID the version
	RecordID string
	// Err why the removal failed
	Err error
}

// DeletionReport outcome of deleting a fleet record
type DeletionReport struct {
	// FleetNumber fleet number of the record
	FleetNumber int64
	// Requested number of versions removal was attempted for
	Requested int
	// Removed number of versions actually removed
	Removed int
	// Items per-version outcome
	Items []DeletionItemStatus
}

// Complete whether every requested version was removed
func (r DeletionReport) Complete() bool {
	return r.Requested == r.Removed
}

/*
ProposeChange compare an edited version against its persisted snapshot

Nothing is written. Fails with ErrNoChanges if the edit is a no-op.

	@param edited models.FleetRecord - the edited version
	@param snapshot models.FleetRecord - the persisted version the edit started from
	@returns the change summary to confirm
*/
func (l *ledgerImpl) ProposeChange(
	edited models.FleetRecord, snapshot models.FleetRecord,
) (ChangeSummary, error) {
	if snapshot.ID == "" {
		return ChangeSummary{}, newValidationError("no persisted snapshot to compare against")
	}
	if edited.ID != "" && edited.ID != snapshot.ID {
		return ChangeSummary{}, newValidationError(
			"edited version %s does not match snapshot %s", edited.ID, snapshot.ID,
		)
	}

	fields := changes.DiffRecords(edited, snapshot)
	if len(fields) == 0 {
		return ChangeSummary{}, ErrNoChanges
	}

	changeLog := make([]string, 0, len(fields))
	for _, field := range fields {
		changeLog = append(changeLog, changes.Describe([]string{field}, l.fieldLabel))
	}

	return ChangeSummary{
		RecordID:    snapshot.ID,
		FleetNumber: snapshot.FleetNumber,
		Snapshot:    snapshot,
		Payload:     edited.FleetPayload,
		Fields:      fields,
		ChangeLog:   changeLog,
		Description: changes.Describe(fields, l.fieldLabel),
	}, nil
}

/*
Commit write a confirmed change summary as a new version

	@param ctx context.Context - execution context
	@param summary ChangeSummary - the confirmed change
	@param actor string - who is making the change
	@param activeDBClient db.Database - existing database transaction
	@returns the expired and the new current version
*/
func (l *ledgerImpl) Commit(
	ctx context.Context, summary ChangeSummary, actor string, activeDBClient db.Database,
) (SupersedeResult, error) {
	if len(summary.Fields) == 0 {
		return SupersedeResult{}, ErrNoChanges
	}
	return l.Supersede(ctx, SupersedeRequest{
		OldRecordID: summary.RecordID,
		FleetNumber: summary.FleetNumber,
		Payload:     summary.Payload,
		ChangeLog:   summary.ChangeLog,
		Actor:       actor,
	}, activeDBClient)
}

/*
SaveAll commit multiple change summaries concurrently

Each summary is committed in its own transaction. A failure does not affect the others.

	@param ctx context.Context - execution context
	@param summaries []ChangeSummary - the confirmed changes
	@param actor string - who is making the changes
	@returns per-summary outcome
*/
func (l *ledgerImpl) SaveAll(
	ctx context.Context, summaries []ChangeSummary, actor string,
) BulkReport {
	report := BulkReport{Items: make([]BulkItemStatus, len(summaries))}

	wg := sync.WaitGroup{}
	for idx, summary := range summaries {
		report.Items[idx] = BulkItemStatus{Index: idx, FleetNumber: summary.FleetNumber}
		wg.Add(1)
		go func(idx int, summary ChangeSummary) {
			defer wg.Done()
			result, err := l.Commit(ctx, summary, actor, nil)
			if err != nil {
				report.Items[idx].Err = err
				return
			}
			report.Items[idx].Record = &result.Current
		}(idx, summary)
	}
	wg.Wait()

	report.tally()
	l.logBulkReport(ctx, "save-all", report)
	return report
}

/*
ImportPayloads create one new fleet record per payload, in order

Each payload is created in its own transaction. A failure does not affect the others.

	@param ctx context.Context - execution context
	@param payloads []models.FleetPayload - the records to create
	@param actor string - who is creating the records
	@returns per-payload outcome
*/
func (l *ledgerImpl) ImportPayloads(
	ctx context.Context, payloads []models.FleetPayload, actor string,
) BulkReport {
	report := BulkReport{Items: make([]BulkItemStatus, len(payloads))}

	// Sequential so that fleet numbers follow row order
	for idx, payload := range payloads {
		report.Items[idx] = BulkItemStatus{Index: idx}
		stored, err := l.CreateVersion(ctx, payload, actor, nil)
		if err != nil {
			report.Items[idx].Err = err
			continue
		}
		report.Items[idx].FleetNumber = stored.FleetNumber
		report.Items[idx].Record = &stored
	}

	report.tally()
	l.logBulkReport(ctx, "import", report)
	return report
}

func (l *ledgerImpl) logBulkReport(ctx context.Context, operation string, report BulkReport) {
	logHandle := log.WithFields(l.GetLogTagsForContext(ctx)).
		WithField("operation", operation).
		WithField("succeeded", report.Succeeded).
		WithField("failed", report.Failed)
	if report.Failed > 0 {
		logHandle.Warn("Bulk operation partially failed")
	} else {
		logHandle.Debug("Bulk operation complete")
	}
}

/*
ProposeDeleteAll list the versions that deleting a fleet record would remove

Nothing is written. Fails with ErrNoVersions if the fleet number has no versions.

	@param ctx context.Context - execution context
	@param fleetNumber int64 - the fleet number
	@returns the deletion summary to confirm
*/
func (l *ledgerImpl) ProposeDeleteAll(
	ctx context.Context, fleetNumber int64,
) (DeletionSummary, error) {
	if fleetNumber < 1 {
		return DeletionSummary{}, newValidationError("fleet number %d is invalid", fleetNumber)
	}

	versions, err := l.History(ctx, fleetNumber, nil)
	if err != nil {
		return DeletionSummary{}, err
	}
	if len(versions) == 0 {
		return DeletionSummary{}, fmt.Errorf("fleet number %d [%w]", fleetNumber, ErrNoVersions)
	}

	return DeletionSummary{FleetNumber: fleetNumber, Versions: versions}, nil
}

/*
CommitDeleteAll remove every version listed in a confirmed deletion summary

Removals are issued concurrently, each in its own transaction. Failed removals are
not rolled back; the report carries per-version outcome.

	@param ctx context.Context - execution context
	@param summary DeletionSummary - the confirmed deletion
	@param actor string - who is deleting
	@returns per-version outcome
*/
func (l *ledgerImpl) CommitDeleteAll(
	ctx context.Context, summary DeletionSummary, actor string,
) DeletionReport {
	actor = attributedActor(actor)

	report := DeletionReport{
		FleetNumber: summary.FleetNumber,
		Requested:   len(summary.Versions),
		Items:       make([]DeletionItemStatus, len(summary.Versions)),
	}

	wg := sync.WaitGroup{}
	for idx, version := range summary.Versions {
		report.Items[idx] = DeletionItemStatus{RecordID: version.ID}
		wg.Add(1)
		go func(idx int, recordID string) {
			defer wg.Done()
			report.Items[idx].Err = l.persistence.UseDatabaseInTransaction(
				ctx, func(dbCtx context.Context, dbClient db.Database) error {
					return dbClient.DeleteFleetRecord(dbCtx, recordID, actor)
				},
			)
		}(idx, version.ID)
	}
	wg.Wait()

	for _, item := range report.Items {
		if item.Err == nil {
			report.Removed++
		}
	}

	logHandle := log.WithFields(l.GetLogTagsForContext(ctx)).
		WithField("fleet_number", report.FleetNumber).
		WithField("requested", report.Requested).
		WithField("removed", report.Removed)
	if report.Complete() {
		logHandle.Info("Deleted all versions of fleet record")
	} else {
		logHandle.Warn("Partially deleted versions of fleet record")
	}

	return report
}

/*
DeleteAllVersions remove every version of a fleet record without confirmation

	@param ctx context.Context - execution context
	@param fleetNumber int64 - the fleet number
	@param actor string - who is deleting
	@returns per-version outcome
*/
func (l *ledgerImpl) DeleteAllVersions(
	ctx context.Context, fleetNumber int64, actor string,
) (DeletionReport, error) {
	summary, err := l.ProposeDeleteAll(ctx, fleetNumber)
	if err != nil {
		if errors.Is(err, ErrNoVersions) {
			return DeletionReport{FleetNumber: fleetNumber}, nil
		}
		return DeletionReport{}, err
	}
	return l.CommitDeleteAll(ctx, summary, actor), nil
}
