// Package postgres owns the physical schema backing the reservation
// manager: the rsvp schema, its enum type, the reservations table and
// its interval-exclusion constraint.
package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a pooled connection to databaseURL and migrates the
// rsvp schema before returning. It never seeds or reads application
// data, matching the manager's own externally-configured pool contract.
func Connect(databaseURL string) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("database connected and migrated")
	return db, nil
}

// statements runs in order: the exclusion constraint depends on
// btree_gist, the enum type must exist before the table references it,
// and the table must exist before its indexes and constraint do.
var statements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE SCHEMA IF NOT EXISTS rsvp`,

	`DO $$ BEGIN
		CREATE TYPE rsvp.reservation_status AS ENUM ('UNKNOWN', 'PENDING', 'CONFIRMED', 'BLOCKED');
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE TABLE IF NOT EXISTS rsvp.reservations (
		id UUID NOT NULL DEFAULT gen_random_uuid(),
		user_id VARCHAR(64) NOT NULL,
		resource_id VARCHAR(64) NOT NULL,
		timespan TSTZRANGE NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		status rsvp.reservation_status NOT NULL DEFAULT 'PENDING',
		metadata JSONB,
		PRIMARY KEY (id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON rsvp.reservations (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_resource_id ON rsvp.reservations (resource_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_status ON rsvp.reservations (status)`,

	`DO $$ BEGIN
		ALTER TABLE rsvp.reservations
			ADD CONSTRAINT reservations_resource_timespan_excl
			EXCLUDE USING gist (resource_id WITH =, timespan WITH &&);
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$`,
}

// Migrate applies the rsvp schema. It is idempotent: re-running it
// against an already-migrated database is a no-op.
func Migrate(db *gorm.DB) error {
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration statement failed: %w\n%s", err, stmt)
		}
	}
	return nil
}

// CloseConnection releases the underlying connection pool.
func CloseConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	slog.Info("database connection closed")
	return nil
}
