package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alwitt/fleetledger/models"
	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	// ErrCounterMissing the fleet number counter entry does not exist
	ErrCounterMissing = errors.New("fleet number counter entry is missing")

	// ErrRecordNotFound the fleet record version does not exist
	ErrRecordNotFound = errors.New("fleet record version not found")

	// ErrNotCurrent the fleet record version is no longer the current version
	ErrNotCurrent = errors.New("fleet record version is not current")
)

// CommonListEntryQueryFilter common query filter when listing data entries
type CommonListEntryQueryFilter struct {
	Limit  *int
	Offset *int
}

// FleetRecordQueryFilter fleet record version query filter conditions
type FleetRecordQueryFilter struct {
	CommonListEntryQueryFilter
	// FleetNumber fetch only versions with this fleet number
	FleetNumber *int64
	// Broker fetch only versions with this broker
	Broker *string
	// CreatedAfter fetch only versions created at or after this timestamp
	CreatedAfter *time.Time
	// CreatedBefore fetch only versions created at or before this timestamp
	CreatedBefore *time.Time
	// CurrentOnly fetch only current versions
	CurrentOnly bool
}

// ChangeEventQueryFilter change log query filter conditions
type ChangeEventQueryFilter struct {
	CommonListEntryQueryFilter
	// Operations the specific operations to query for
	Operations []models.ChangeOperationENUMType
	// FleetNumber fetch only events related to this fleet number
	FleetNumber *int64
	// EventsAfter filter for events after this timestamp
	EventsAfter *time.Time
	// EventsBefore filter for events before this timestamp
	EventsBefore *time.Time
}

// Database the database handle to interacting with the data base
type Database interface {
	// ------------------------------------------------------------------------------------
	// Fleet number counter

	/*
		InitializeFleetCounter create the fleet number counter entry. NOOP if the entry
		already exists.

			@param ctx context.Context - execution context
			@param seed int64 - the first fleet number to hand out
			@returns the counter entry
	*/
	InitializeFleetCounter(ctx context.Context, seed int64) (models.FleetCounter, error)

	/*
		GetFleetCounter fetch the fleet number counter entry

			@param ctx context.Context - execution context
			@returns the counter entry
	*/
	GetFleetCounter(ctx context.Context) (models.FleetCounter, error)

	/*
		AllocateFleetNumber atomically hand out the next fleet number

		Must be called within a transaction. If the counter entry is missing, the call fails
		with ErrCounterMissing unless `allowBootstrap` is set, in which case the counter is
		seeded with 1.

			@param ctx context.Context - execution context
			@param allowBootstrap bool - whether to seed a missing counter
			@returns the allocated fleet number
	*/
	AllocateFleetNumber(ctx context.Context, allowBootstrap bool) (int64, error)

	// ------------------------------------------------------------------------------------
	// Fleet record versions

	/*
		InsertFleetRecord insert a new fleet record version

			@param ctx context.Context - execution context
			@param record models.FleetRecord - the new version. The ID is assigned if empty.
			@returns the stored version
	*/
	InsertFleetRecord(ctx context.Context, record models.FleetRecord) (models.FleetRecord, error)

	/*
		GetFleetRecord fetch a fleet record version by ID

			@param ctx context.Context - execution context
			@param recordID string - record version ID
			@returns the version
	*/
	GetFleetRecord(ctx context.Context, recordID string) (models.FleetRecord, error)

	/*
		ExpireFleetRecord mark a current fleet record version as superseded

		Fails with ErrNotCurrent if the version is no longer current.

			@param ctx context.Context - execution context
			@param recordID string - record version ID
			@param actor string - who superseded the version
			@param timestamp time.Time - the expiry timestamp
			@returns the expired version
	*/
	ExpireFleetRecord(
		ctx context.Context, recordID string, actor string, timestamp time.Time,
	) (models.FleetRecord, error)

	/*
		ListFleetRecords list fleet record versions

			@param ctx context.Context - execution context
			@param filters FleetRecordQueryFilter - entry listing filter
			@return list of versions
	*/
	ListFleetRecords(
		ctx context.Context, filters FleetRecordQueryFilter,
	) ([]models.FleetRecord, error)

	/*
		DeleteFleetRecord delete one fleet record version

			@param ctx context.Context - execution context
			@param recordID string - record version ID
			@param actor string - who deleted the version
	*/
	DeleteFleetRecord(ctx context.Context, recordID string, actor string) error

	// ------------------------------------------------------------------------------------
	// Change log

	/*
		ListChangeEvents list captured fleet record change events

			@param ctx context.Context - execution context
			@param filters ChangeEventQueryFilter - entry listing filter
			@return list of change events
	*/
	ListChangeEvents(
		ctx context.Context, filters ChangeEventQueryFilter,
	) ([]models.ChangeEvent, error)
}

// databaseImpl implements Database
type databaseImpl struct {
	goutils.Component
	db        *gorm.DB
	validator *validator.Validate
}

// newDatabase define a new database client
func newDatabase(_ context.Context, sqlClient *gorm.DB) (Database, error) {
	logTags := log.Fields{"package": "fleetledger", "module": "db", "component": "db-client"}

	instance := &databaseImpl{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		db:        sqlClient,
		validator: validator.New(),
	}

	if err := models.RegisterWithValidator(instance.validator); err != nil {
		return nil, fmt.Errorf("failed to install custom validation macros [%w]", err)
	}

	return instance, nil
}
