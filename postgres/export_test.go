package postgres

var (
	AlterStatements   = alterStatements
	DBLogger          = dbLogger
	PendingMigrations = pendingMigrations
	Unwrap            = unwrap
)
