package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/xy-planning-network/enumfields"
	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return createMigrationRecord(tx, m.Key)
	})
}

// MigrateUp runs every migration whose Key has not been recorded yet, in order,
// each in its own transaction.
// MigrateUp stops at the first failing migration.
func MigrateUp(db *DB, schemaName string, migrations []Migration, l *slog.Logger) error {
	if l == nil {
		l = slog.Default()
	}

	gdb := db.DB()
	if err := gdb.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(schemaName))).Error; err != nil {
		return fmt.Errorf("%w: creating schema %s: %s", enumfields.ErrUnexpected, schemaName, err)
	}

	if err := ensureMigrationsTable(gdb); err != nil {
		return err
	}

	toRun, err := determineMigrationsToRun(gdb, migrations)
	if err != nil {
		return err
	}

	for _, m := range toRun {
		if err := m.execute(gdb); err != nil {
			l.Error("migration failed", "key", m.Key, "error", err)
			return fmt.Errorf("%w: migration %q: %s", enumfields.ErrUnexpected, m.Key, err)
		}

		l.Debug("ran migration", "key", m.Key)
	}

	return nil
}

func ensureMigrationsTable(db *gorm.DB) error {
	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", enumfields.ErrUnexpected, err)
	}

	return nil
}

func determineMigrationsToRun(db *gorm.DB, all []Migration) ([]Migration, error) {
	var ran []string
	if err := db.Raw("SELECT key FROM migrations;").Scan(&ran).Error; err != nil {
		return nil, fmt.Errorf("%w: fetching ran migrations: %s", enumfields.ErrUnexpected, err)
	}

	return pendingMigrations(all, ran), nil
}

// pendingMigrations filters out of all the migrations whose keys are in ran.
func pendingMigrations(all []Migration, ran []string) []Migration {
	seen := make(map[string]bool, len(ran))
	for _, key := range ran {
		seen[key] = true
	}

	var toRun []Migration
	for _, m := range all {
		if !seen[m.Key] {
			toRun = append(toRun, m)
		}
	}

	return toRun
}

func createMigrationRecord(db *gorm.DB, key string) error {
	return db.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, key, time.Now().Unix()).Error
}
