package postgres

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/xy-planning-network/enumfields"
	applog "github.com/xy-planning-network/enumfields/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

const (
	dbHostEnvVar    = "DATABASE_HOST"
	defaultDBHost   = "localhost"
	dbNameEnvVar    = "DATABASE_NAME"
	dbPassEnvVar    = "DATABASE_PASSWORD"
	dbPortEnvVar    = "DATABASE_PORT"
	defaultDBPort   = "5432"
	dbSSLModeEnvVar = "DATABASE_SSLMODE"
	// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"
	dbSchemaEnvVar   = "DATABASE_SCHEMA"
	defaultDBSchema  = "public"
)

// CxnConfig holds connection information used to connect to a PostgreSQL database.
type CxnConfig struct {
	IsTestDB bool
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Schema   string
	SSLMode  string
}

// NewConfig reads a CxnConfig from DATABASE_* environment variables.
// In [enumfields.Testing], the config targets a test database.
func NewConfig(env enumfields.Environment) *CxnConfig {
	cfg := &CxnConfig{
		IsTestDB: env.IsTesting(),
		URL:      enumfields.EnvVarOrString(dbURLEnvVar, ""),
		Host:     enumfields.EnvVarOrString(dbHostEnvVar, defaultDBHost),
		Port:     enumfields.EnvVarOrString(dbPortEnvVar, defaultDBPort),
		Name:     enumfields.EnvVarOrString(dbNameEnvVar, ""),
		User:     enumfields.EnvVarOrString(dbUserEnvVar, ""),
		Password: enumfields.EnvVarOrString(dbPassEnvVar, ""),
		Schema:   enumfields.EnvVarOrString(dbSchemaEnvVar, defaultDBSchema),
		SSLMode:  enumfields.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
	}

	if cfg.IsTestDB && cfg.Name != "" && !strings.HasSuffix(cfg.Name, "_test") {
		cfg.Name += "_test"
	}

	return cfg
}

// Connect creates a database connection through GORM according to the connection config and runs all migrations.
//
// Queries slower than 200ms and failed queries are logged to l at WARN.
// When l is nil, a logger of kind [enumfields.DatabaseLogKind] writing to stdout is built for env.
func Connect(config *CxnConfig, migrations []Migration, env enumfields.Environment, l *slog.Logger) (*DB, error) {
	l = dbLogger(l, env)

	// https://gorm.io/docs/logger.html
	c := logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  env.IsDevelopment(),
	}

	gdb, err := gorm.Open(postgres.Open(buildCxnStr(config)), &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(l.Handler(), slog.LevelWarn), c),
		NamingStrategy: schema.NamingStrategy{
			NameReplacer: strings.NewReplacer("Table", ""),
		},
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", enumfields.ErrBadConfig, err)
	}

	schemaName := config.Schema
	if schemaName == "" {
		schemaName = defaultDBSchema
	}

	if config.IsTestDB {
		l.Debug("dropping test schema", "schema", schemaName)
		stmt := fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE;", pq.QuoteIdentifier(schemaName))
		if err := gdb.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("%w: %s", enumfields.ErrUnexpected, err)
		}
	}

	db := NewDB(gdb)
	if err := MigrateUp(db, schemaName, migrations, l); err != nil {
		return nil, err
	}

	return db, nil
}

func buildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = defaultDBSSLMode
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		sslMode,
	)
}

// WipeDB truncates every table in schemaName.
func WipeDB(db *gorm.DB, schemaName string) error {
	var tables []string
	err := db.
		Table("information_schema.tables").
		Select("table_name").
		Where("table_schema = ?", schemaName).
		Not("table_type = ?", "VIEW").
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		return nil
	}

	for i, t := range tables {
		tables[i] = pq.QuoteIdentifier(schemaName) + "." + pq.QuoteIdentifier(t)
	}

	return db.Exec(fmt.Sprintf("TRUNCATE %s CASCADE;", strings.Join(tables, ", "))).Error
}

func dbLogger(l *slog.Logger, env enumfields.Environment) *slog.Logger {
	if l != nil {
		return l
	}

	return applog.New(enumfields.DatabaseLogKind, env, os.Stdout)
}
