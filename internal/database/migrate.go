package database

import (
	"fmt"
	"io"
	"net/url"

	"github.com/amacneil/dbmate/v2/pkg/dbmate"
	_ "github.com/amacneil/dbmate/v2/pkg/driver/postgres"
	_ "github.com/amacneil/dbmate/v2/pkg/driver/sqlite"

	"github.com/killallgit/fortune-api/migrations"
)

// MigrationInfo describes one versioned migration file
type MigrationInfo struct {
	Version  string
	FileName string
	Applied  bool
}

// Migrator applies the embedded SQL migrations with dbmate
type Migrator struct {
	db *dbmate.DB
}

// MigrationURL builds the dbmate connection URL for a driver.
// sqlite takes a file path, postgres a postgres:// URL.
func MigrationURL(driver, path, dsn string) (*url.URL, error) {
	switch driver {
	case "sqlite":
		if path == "" || path == ":memory:" {
			return nil, fmt.Errorf("sqlite migrations need a file path")
		}
		return url.Parse("sqlite:" + path)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres migrations need a database url")
		}
		return url.Parse(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewMigrator creates a migrator for driver writing dbmate output to out
func NewMigrator(driver string, u *url.URL, out io.Writer) (*Migrator, error) {
	dir, err := migrations.Dir(driver)
	if err != nil {
		return nil, err
	}

	db := dbmate.New(u)
	db.FS = migrations.FS
	db.MigrationsDir = []string{dir}
	db.AutoDumpSchema = false
	db.Log = out

	return &Migrator{db: db}, nil
}

// Up creates the database if needed and applies every pending migration
func (m *Migrator) Up() error {
	if err := m.db.CreateAndMigrate(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent steps migrations
func (m *Migrator) Down(steps int) error {
	for i := 0; i < steps; i++ {
		if err := m.db.Rollback(); err != nil {
			return fmt.Errorf("rollback migration %d of %d: %w", i+1, steps, err)
		}
	}
	return nil
}

// Status lists every known migration and whether it has been applied
func (m *Migrator) Status() ([]MigrationInfo, error) {
	found, err := m.db.FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("find migrations: %w", err)
	}

	infos := make([]MigrationInfo, 0, len(found))
	for _, mig := range found {
		infos = append(infos, MigrationInfo{
			Version:  mig.Version,
			FileName: mig.FileName,
			Applied:  mig.Applied,
		})
	}
	return infos, nil
}

// Pending returns the migrations Up would apply
func (m *Migrator) Pending() ([]MigrationInfo, error) {
	all, err := m.Status()
	if err != nil {
		return nil, err
	}

	var pending []MigrationInfo
	for _, mig := range all {
		if !mig.Applied {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// LastApplied returns up to steps applied migrations, newest first
func (m *Migrator) LastApplied(steps int) ([]MigrationInfo, error) {
	all, err := m.Status()
	if err != nil {
		return nil, err
	}

	var applied []MigrationInfo
	for i := len(all) - 1; i >= 0 && len(applied) < steps; i-- {
		if all[i].Applied {
			applied = append(applied, all[i])
		}
	}
	return applied, nil
}
