package db

import (
	"context"

	"gorm.io/gorm"
)

// DefineTables prepare a database with the ledger tables
//
// Used by unit-tests and the CLI `init` command; managed deployments should apply the
// statements printed by utils/atlas-migrate instead.
func DefineTables(_ context.Context, db *gorm.DB) error {
	return db.AutoMigrate(
		FleetRecordDBEntry{},
		FleetCounterDBEntry{},
		ChangeEventDBEntry{},
	)
}
