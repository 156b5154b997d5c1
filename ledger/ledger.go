// Package ledger - fleet record versioning protocol
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/identity"
	"github.com/alwitt/fleetledger/models"
	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoChanges the edit does not differ from the persisted version
	ErrNoChanges = errors.New("no changes detected")

	// ErrConcurrentModification the version being superseded is no longer current
	ErrConcurrentModification = errors.New("fleet record was modified concurrently")

	// ErrDeclined the caller declined a proposed destructive change
	ErrDeclined = errors.New("change declined")

	// ErrNoVersions no versions exist for the fleet number
	ErrNoVersions = errors.New("no versions found for fleet number")
)

// ValidationError malformed or incomplete caller input. Nothing was written.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func newValidationError(format string, args ...any) error {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Ledger fleet record SCD type 2 versioning protocol
type Ledger interface {
	// ------------------------------------------------------------------------------------
	// Version writer

	/*
		NextFleetNumber allocate a new fleet number

			@param ctx context.Context - execution context
			@param activeDBClient db.Database - existing database transaction
			@returns the fleet number
	*/
	NextFleetNumber(ctx context.Context, activeDBClient db.Database) (int64, error)

	/*
		CreateVersion create the first version of a new fleet record

			@param ctx context.Context - execution context
			@param payload models.FleetPayload - the record fields
			@param actor string - who is creating the record
			@param activeDBClient db.Database - existing database transaction
			@returns the stored version
	*/
	CreateVersion(
		ctx context.Context, payload models.FleetPayload, actor string, activeDBClient db.Database,
	) (models.FleetRecord, error)

	/*
		Supersede replace the current version of a fleet record with a new version

		The prior version is expired and the new version inserted in one transaction. If the
		prior version is no longer current, this fails with ErrConcurrentModification.

			@param ctx context.Context - execution context
			@param req SupersedeRequest - the supersede parameters
			@param activeDBClient db.Database - existing database transaction
			@returns the expired and the new current version
	*/
	Supersede(
		ctx context.Context, req SupersedeRequest, activeDBClient db.Database,
	) (SupersedeResult, error)

	/*
		History list all versions of one fleet record

			@param ctx context.Context - execution context
			@param fleetNumber int64 - the fleet number
			@param activeDBClient db.Database - existing database transaction
			@returns the versions
	*/
	History(
		ctx context.Context, fleetNumber int64, activeDBClient db.Database,
	) ([]models.FleetRecord, error)

	/*
		ChangeLog list write-level change events

			@param ctx context.Context - execution context
			@param filters db.ChangeEventQueryFilter - event filter
			@returns the events
	*/
	ChangeLog(
		ctx context.Context, filters db.ChangeEventQueryFilter,
	) ([]models.ChangeEvent, error)

	// ------------------------------------------------------------------------------------
	// Two phase edit

	/*
		ProposeChange compare an edited version against its persisted snapshot

		Nothing is written. Fails with ErrNoChanges if the edit is a no-op.

			@param edited models.FleetRecord - the edited version
			@param snapshot models.FleetRecord - the persisted version the edit started from
			@returns the change summary to confirm
	*/
	ProposeChange(edited models.FleetRecord, snapshot models.FleetRecord) (ChangeSummary, error)

	/*
		Commit write a confirmed change summary as a new version

			@param ctx context.Context - execution context
			@param summary ChangeSummary - the confirmed change
			@param actor string - who is making the change
			@param activeDBClient db.Database - existing database transaction
			@returns the expired and the new current version
	*/
	Commit(
		ctx context.Context, summary ChangeSummary, actor string, activeDBClient db.Database,
	) (SupersedeResult, error)

	/*
		SaveAll commit multiple change summaries concurrently

		Each summary is committed in its own transaction. A failure does not affect the others.

			@param ctx context.Context - execution context
			@param summaries []ChangeSummary - the confirmed changes
			@param actor string - who is making the changes
			@returns per-summary outcome
	*/
	SaveAll(ctx context.Context, summaries []ChangeSummary, actor string) BulkReport

	/*
		ImportPayloads create one new fleet record per payload, in order

		Each payload is created in its own transaction. A failure does not affect the others.

			@param ctx context.Context - execution context
			@param payloads []models.FleetPayload - the records to create
			@param actor string - who is creating the records
			@returns per-payload outcome
	*/
	ImportPayloads(ctx context.Context, payloads []models.FleetPayload, actor string) BulkReport

	// ------------------------------------------------------------------------------------
	// Two phase delete

	/*
		ProposeDeleteAll list the versions that deleting a fleet record would remove

		Nothing is written. Fails with ErrNoVersions if the fleet number has no versions.

			@param ctx context.Context - execution context
			@param fleetNumber int64 - the fleet number
			@returns the deletion summary to confirm
	*/
	ProposeDeleteAll(ctx context.Context, fleetNumber int64) (DeletionSummary, error)

	/*
		CommitDeleteAll remove every version listed in a confirmed deletion summary

		Removals are issued concurrently, each in its own transaction. Failed removals are
		not rolled back; the report carries per-version outcome.

			@param ctx context.Context - execution context
			@param summary DeletionSummary - the confirmed deletion
			@param actor string - who is deleting
			@returns per-version outcome
	*/
	CommitDeleteAll(ctx context.Context, summary DeletionSummary, actor string) DeletionReport

	/*
		DeleteAllVersions remove every version of a fleet record without confirmation

			@param ctx context.Context - execution context
			@param fleetNumber int64 - the fleet number
			@param actor string - who is deleting
			@returns per-version outcome
	*/
	DeleteAllVersions(ctx context.Context, fleetNumber int64, actor string) (DeletionReport, error)

	// ------------------------------------------------------------------------------------
	// Query router

	/*
		Search find fleet record versions

		Malformed requests are not errors: the result carries a WARNING notice and no query
		is issued. An empty result carries an INFO notice.

			@param ctx context.Context - execution context
			@param req SearchRequest - the search
			@returns the current versions (fleet number mode only) and all matching versions
	*/
	Search(ctx context.Context, req SearchRequest) (SearchResult, error)
}

// LedgerParams ledger setup parameters
type LedgerParams struct {
	// Persistence DB persistence client
	Persistence db.Client `validate:"required"`
	// AllowCounterBootstrap seed the fleet number counter at 1 when it is missing rather
	// than failing
	AllowCounterBootstrap bool
	// FieldLabel field key to display label lookup used when rendering update descriptions.
	// Defaults to the field catalog labels.
	FieldLabel func(key string) string
	// Now clock source. Defaults to the current UTC time.
	Now func() time.Time
}

// ledgerImpl implements Ledger
type ledgerImpl struct {
	goutils.Component

	persistence           db.Client
	allowCounterBootstrap bool
	fieldLabel            func(key string) string
	now                   func() time.Time
	validator             *validator.Validate
}

/*
NewLedger define a new fleet ledger

	@param ctx context.Context - execution context
	@param params LedgerParams - ledger parameters
	@returns ledger instance
*/
func NewLedger(_ context.Context, params LedgerParams) (Ledger, error) {
	logTags := log.Fields{"package": "fleetledger", "module": "ledger", "component": "fleet-ledger"}

	validate := validator.New()
	if err := models.RegisterWithValidator(validate); err != nil {
		return nil, fmt.Errorf("failed to install custom validation macros [%w]", err)
	}
	if err := validate.Struct(&params); err != nil {
		return nil, fmt.Errorf("ledger parameters are invalid [%w]", err)
	}

	instance := &ledgerImpl{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		persistence:           params.Persistence,
		allowCounterBootstrap: params.AllowCounterBootstrap,
		fieldLabel:            params.FieldLabel,
		now:                   params.Now,
		validator:             validate,
	}
	if instance.fieldLabel == nil {
		instance.fieldLabel = models.FieldLabel
	}
	if instance.now == nil {
		instance.now = func() time.Time { return time.Now().UTC() }
	}

	return instance, nil
}

// attributedActor the actor to record on a write
func attributedActor(actor string) string {
	if actor = strings.TrimSpace(actor); actor == "" {
		return identity.Anonymous
	}
	return actor
}
