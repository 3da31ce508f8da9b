package migrations

import (
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Run applies the SQL migrations (audit and archive tables) against the
// given database. No-change is not an error.
func Run(dbURL string) error {
	log.Info("running database migrations")
	m, err := migrate.New(
		"file://internal/shared/db/migrations/sql",
		dbURL,
	)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	log.Info("database migrations completed", zap.String("source", "internal/shared/db/migrations/sql"))
	return nil
}
