package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

//go:embed scripts/mysql/*.sql scripts/sqlite/*.sql
var scripts embed.FS

// goose keeps dialect and base FS in package state.
var gooseMu sync.Mutex

// Migrator applies the embedded goose scripts for one SQL dialect.
type Migrator struct {
	dialect string
	dir     string
	logger  logger.Interface
}

// NewMigrator returns a migrator for "mysql" or "sqlite".
func NewMigrator(driver string, log logger.Interface) (*Migrator, error) {
	m := &Migrator{logger: log.With("component", "migration.goose")}
	switch strings.ToLower(driver) {
	case "mysql", "":
		m.dialect, m.dir = "mysql", "scripts/mysql"
	case "sqlite", "sqlite3":
		m.dialect, m.dir = "sqlite3", "scripts/sqlite"
	default:
		return nil, fmt.Errorf("unsupported migration driver: %s", driver)
	}
	return m, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(db *gorm.DB) error {
	return m.run(db, func(sqlDB *sql.DB) error {
		current, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		m.logger.Infow("starting goose migration", "dialect", m.dialect, "version", current)

		if err := goose.Up(sqlDB, m.dir); err != nil {
			m.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		final, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}
		m.logger.Infow("migration completed successfully",
			"from_version", current,
			"to_version", final)
		return nil
	})
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(db *gorm.DB, steps int) error {
	m.logger.Infow("starting down migration", "steps", steps)
	return m.run(db, func(sqlDB *sql.DB) error {
		for i := 0; i < steps; i++ {
			if err := goose.Down(sqlDB, m.dir); err != nil {
				m.logger.Errorw("down migration failed", "error", err)
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}
		m.logger.Infow("down migration completed successfully")
		return nil
	})
}

// Version returns the current schema version.
func (m *Migrator) Version(db *gorm.DB) (int64, error) {
	var version int64
	err := m.run(db, func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// Status logs the applied state of every migration.
func (m *Migrator) Status(db *gorm.DB) error {
	return m.run(db, func(sqlDB *sql.DB) error {
		if err := goose.Status(sqlDB, m.dir); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		return nil
	})
}

func (m *Migrator) run(db *gorm.DB, fn func(*sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scripts)
	goose.SetLogger(gooseLogger{m.logger})
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(sqlDB)
}

// gooseLogger forwards goose output to the structured logger.
type gooseLogger struct {
	logger logger.Interface
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Infow(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatalw(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
