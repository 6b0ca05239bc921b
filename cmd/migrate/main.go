// Command migrate applies the embedded users schema to DATABASE_URL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"

	"github.com/Skryldev/user-api/config"
	"github.com/Skryldev/user-api/db"
	"github.com/Skryldev/user-api/migrations"
)

var logger zerolog.Logger

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = config.NewLogger(cfg, os.Stderr)

	m, err := newMigrate(cfg.DatabaseURL)
	if err != nil {
		fatalf("migration init failed: %v", err)
	}
	defer m.Close()

	m.Log = &migrateLogger{verbose: cfg.LogLevel <= zerolog.DebugLevel}

	if err := run(m, args); err != nil {
		fatalf("%s failed: %v", args[0], err)
	}
}

// newMigrate pairs the embedded migrations for the URL's driver with the
// golang-migrate database URL derived from it.
func newMigrate(databaseURL string) (*migrate.Migrate, error) {
	drv, err := db.ResolveURL(databaseURL)
	if err != nil {
		return nil, err
	}
	migrateURL, err := drv.MigrateURL(databaseURL)
	if err != nil {
		return nil, err
	}
	files, err := migrations.Source(drv.Name())
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(files, ".")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", src, migrateURL)
}

func run(m *migrate.Migrate, args []string) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		logger.Info().Msg("migrations: up completed")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid steps argument %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		logger.Info().Int("steps", steps).Msg("migrations: down completed")

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return err
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	case "force":
		if len(args) < 2 {
			return errors.New("version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			return err
		}
		logger.Info().Int("version", v).Msg("migrations: forced")

	case "drop":
		fmt.Fprintln(os.Stderr, "WARNING: drop will destroy all tables. Type 'yes' to confirm:")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("aborted")
			return nil
		}
		if err := m.Drop(); err != nil {
			return err
		}
		logger.Info().Msg("migrations: all tables dropped")

	default:
		usage()
		os.Exit(1)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type migrateLogger struct {
	verbose bool
}

func (l *migrateLogger) Printf(format string, v ...any) {
	logger.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
func (l *migrateLogger) Verbose() bool { return l.verbose }

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Rollback N migrations (default: 1)
  version      Print current migration version
  force <V>    Force set migration version (bypass dirty state)
  drop         Drop all tables (dev only)

Environment:
  DATABASE_URL      Required. sqlite:path, postgres://... or mysql://...
  LOG_LEVEL         Log level (default: info)
  LOG_FORMAT        json or console (default: json)`)
}

func fatalf(format string, args ...any) {
	logger.Fatal().Msgf(format, args...)
}
