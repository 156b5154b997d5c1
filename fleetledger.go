// Package fleetledger - versioned fleet billing ledger
package fleetledger

import (
	"context"
	"fmt"

	"github.com/alwitt/fleetledger/db"
	"github.com/alwitt/fleetledger/ledger"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
InitializeStore prepare a database for use as fleet ledger storage

Defines the tables, and seeds the fleet number counter if it does not exist yet. Safe to
call against an already prepared database.

	@param ctx context.Context - execution context
	@param dbDialector gorm.Dialector - GORM dialector
	@param dbLogLevel logger.LogLevel - SQL log level
	@param counterSeed int64 - the first fleet number to hand out
*/
func InitializeStore(
	ctx context.Context, dbDialector gorm.Dialector, dbLogLevel logger.LogLevel, counterSeed int64,
) error {
	persistence, err := db.NewConnection(dbDialector, dbLogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialized persistence client [%w]", err)
	}

	if err := persistence.RunSQLInTransaction(ctx, db.DefineTables); err != nil {
		return fmt.Errorf("failed to define tables [%w]", err)
	}

	return persistence.UseDatabaseInTransaction(
		ctx, func(dbCtx context.Context, dbClient db.Database) error {
			_, err := dbClient.InitializeFleetCounter(dbCtx, counterSeed)
			return err
		},
	)
}

/*
NewFleetLedger initialize a fleet ledger instance.

Each instance is backed by a SQL database; two instances using the same database are
essentially copies of each other.

	@param ctx context.Context - execution context
	@param dbDialector gorm.Dialector - GORM dialector
	@param dbLogLevel logger.LogLevel - SQL log level
	@param allowCounterBootstrap bool - seed a missing fleet number counter at 1 instead
	    of failing
	@returns new ledger instance
*/
func NewFleetLedger(
	ctx context.Context,
	dbDialector gorm.Dialector,
	dbLogLevel logger.LogLevel,
	allowCounterBootstrap bool,
) (ledger.Ledger, error) {
	persistence, err := db.NewConnection(dbDialector, dbLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialized persistence client [%w]", err)
	}

	instance, err := ledger.NewLedger(ctx, ledger.LedgerParams{
		Persistence:           persistence,
		AllowCounterBootstrap: allowCounterBootstrap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialized fleet ledger [%w]", err)
	}

	return instance, nil
}
