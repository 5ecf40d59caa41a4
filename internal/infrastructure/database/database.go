package database

import (
	"fmt"

	"clinical-registry/config"
	"clinical-registry/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database selected by cfg.Driver.
func NewConnection(cfg config.DBConfig, production bool) (*gorm.DB, error) {
	logLevel := logger.Info
	if production {
		logLevel = logger.Warn
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresConnection(cfg, logLevel)
	case config.DriverSQLite, "":
		return NewSQLiteConnection(cfg.Path, logLevel)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Models lists every table managed by the registry.
func Models() []interface{} {
	return []interface{}{
		&entity.PatientRecord{},
		&entity.AuditLog{},
	}
}

// Migrate brings the schema up to date. PostgreSQL uses versioned SQL
// migrations; SQLite is migrated from the gorm models.
func Migrate(db *gorm.DB, cfg config.DBConfig) error {
	if cfg.Driver == config.DriverPostgres {
		return MigrateUp(cfg)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
