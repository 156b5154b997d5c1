package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/models"
	"github.com/apex/log"
)

// SupersedeRequest parameters for replacing the current version of a fleet record
type SupersedeRequest struct {
	// OldRecordID the current version being replaced
	OldRecordID string `validate:"required"`
	// FleetNumber fleet number of the record
	FleetNumber int64 `validate:"required,min=1"`
	// Payload fields of the new version
	Payload models.FleetPayload
	// ChangeLog per-field change descriptions, joined into the update description
	ChangeLog []string
	// Actor who is making the change
	Actor string
}

// SupersedeResult outcome of a supersede
type SupersedeResult struct {
	// Expired the prior version, now expired
	Expired models.FleetRecord
	// Current the new current version
	Current models.FleetRecord
}

/*
NextFleetNumber allocate a new fleet number

	@param ctx context.Context - execution context
	@param activeDBClient db.Database - existing database transaction
	@returns the fleet number
*/
func (l *ledgerImpl) NextFleetNumber(
	ctx context.Context, activeDBClient db.Database,
) (int64, error) {
	var fleetNumber int64
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, l.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			fleetNumber, err = dbClient.AllocateFleetNumber(dbCtx, l.allowCounterBootstrap)
			return err
		},
	); dbErr != nil {
		return 0, fmt.Errorf("failed to allocate fleet number [%w]", dbErr)
	}
	return fleetNumber, nil
}

/*
CreateVersion create the first version of a new fleet record

	@param ctx context.Context - execution context
	@param payload models.FleetPayload - the record fields
	@param actor string - who is creating the record
	@param activeDBClient db.Database - existing database transaction
	@returns the stored version
*/
func (l *ledgerImpl) CreateVersion(
	ctx context.Context, payload models.FleetPayload, actor string, activeDBClient db.Database,
) (models.FleetRecord, error) {
	if payload.IsEmpty() {
		return models.FleetRecord{}, newValidationError("no fields filled for the new fleet record")
	}
	if err := l.validator.Struct(&payload); err != nil {
		return models.FleetRecord{}, newValidationError("fleet record fields are invalid: %s", err)
	}

	actor = attributedActor(actor)

	var stored models.FleetRecord
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, l.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			fleetNumber, err := dbClient.AllocateFleetNumber(dbCtx, l.allowCounterBootstrap)
			if err != nil {
				return fmt.Errorf("failed to allocate fleet number [%w]", err)
			}

			timestamp := l.now()
			stored, err = dbClient.InsertFleetRecord(dbCtx, models.FleetRecord{
				FleetNumber:  fleetNumber,
				FleetPayload: payload,
				IsCurrent:    true,
				CreatedAt:    timestamp,
				CreatedBy:    actor,
				VersionDate:  timestamp,
			})
			if err != nil {
				return fmt.Errorf("failed to insert first version [%w]", err)
			}
			return nil
		},
	); dbErr != nil {
		return models.FleetRecord{}, fmt.Errorf("failed to create fleet record [%w]", dbErr)
	}

	log.WithFields(l.GetLogTagsForContext(ctx)).
		WithField("fleet_number", stored.FleetNumber).
		WithField("record_id", stored.ID).
		Info("Created fleet record")

	return stored, nil
}

/*
Supersede replace the current version of a fleet record with a new version

The prior version is expired and the new version inserted in one transaction. If the
prior version is no longer current, this fails with ErrConcurrentModification.

	@param ctx context.Context - execution context
	@param req SupersedeRequest - the supersede parameters
	@param activeDBClient db.Database - existing database transaction
	@returns the expired and the new current version
*/
func (l *ledgerImpl) Supersede(
	ctx context.Context, req SupersedeRequest, activeDBClient db.Database,
) (SupersedeResult, error) {
	if err := l.validator.Struct(&req); err != nil {
		return SupersedeResult{}, newValidationError("supersede request is invalid: %s", err)
	}

	actor := attributedActor(req.Actor)

	var result SupersedeResult
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, l.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			prior, err := dbClient.GetFleetRecord(dbCtx, req.OldRecordID)
			if err != nil {
				return err
			}
			if prior.FleetNumber != req.FleetNumber {
				return newValidationError(
					"version %s belongs to fleet number %d, not %d",
					req.OldRecordID, prior.FleetNumber, req.FleetNumber,
				)
			}
			if !prior.IsCurrent {
				return ErrConcurrentModification
			}

			timestamp := l.now()

			result.Expired, err = dbClient.ExpireFleetRecord(dbCtx, prior.ID, actor, timestamp)
			if err != nil {
				if errors.Is(err, db.ErrNotCurrent) {
					return ErrConcurrentModification
				}
				return fmt.Errorf("failed to expire prior version [%w]", err)
			}

			result.Current, err = dbClient.InsertFleetRecord(dbCtx, models.FleetRecord{
				FleetNumber:       req.FleetNumber,
				FleetPayload:      req.Payload,
				IsCurrent:         true,
				CreatedAt:         timestamp,
				CreatedBy:         actor,
				VersionDate:       timestamp,
				UpdateDescription: strings.Join(req.ChangeLog, ", "),
			})
			if err != nil {
				return fmt.Errorf("failed to insert new version [%w]", err)
			}
			return nil
		},
	); dbErr != nil {
		return SupersedeResult{}, fmt.Errorf(
			"failed to supersede fleet number %d version %s [%w]",
			req.FleetNumber, req.OldRecordID, dbErr,
		)
	}

	log.WithFields(l.GetLogTagsForContext(ctx)).
		WithField("fleet_number", req.FleetNumber).
		WithField("expired", result.Expired.ID).
		WithField("current", result.Current.ID).
		Info("Superseded fleet record version")

	return result, nil
}

/*
History list all versions of one fleet record

	@param ctx context.Context - execution context
	@param fleetNumber int64 - the fleet number
	@param activeDBClient db.Database - existing database transaction
	@returns the versions
*/
func (l *ledgerImpl) History(
	ctx context.Context, fleetNumber int64, activeDBClient db.Database,
) ([]models.FleetRecord, error) {
	var versions []models.FleetRecord
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, l.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			versions, err = dbClient.ListFleetRecords(
				dbCtx, db.FleetRecordQueryFilter{FleetNumber: &fleetNumber},
			)
			return err
		},
	); dbErr != nil {
		return nil, fmt.Errorf("failed to list fleet number %d versions [%w]", fleetNumber, dbErr)
	}
	return versions, nil
}

/*
ChangeLog list write-level change events

	@param ctx context.Context - execution context
	@param filters db.ChangeEventQueryFilter - event filter
	@returns the events
*/
func (l *ledgerImpl) ChangeLog(
	ctx context.Context, filters db.ChangeEventQueryFilter,
) ([]models.ChangeEvent, error) {
	var events []models.ChangeEvent
	if dbErr := l.persistence.UseDatabase(
		ctx, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			events, err = dbClient.ListChangeEvents(dbCtx, filters)
			return err
		},
	); dbErr != nil {
		return nil, fmt.Errorf("failed to list change events [%w]", dbErr)
	}
	return events, nil
}
