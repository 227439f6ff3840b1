package migration

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/logging"
	"git.shiro.blog/shiro/shiro/src/website"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func init() {
	migrateCommand := &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending database migrations",
		Run: func(cmd *cobra.Command, args []string) {
			Migrate()
		},
	}

	rollbackCommand := &cobra.Command{
		Use:   "rollback [steps]",
		Short: "Roll back database migrations (default 1 step)",
		Run: func(cmd *cobra.Command, args []string) {
			steps := 1
			if len(args) > 0 {
				var err error
				steps, err = strconv.Atoi(args[0])
				if err != nil || steps < 1 {
					fmt.Printf("ERROR: bad number of steps: %s\n", args[0])
					os.Exit(1)
				}
			}
			Rollback(steps)
		},
	}

	versionCommand := &cobra.Command{
		Use:   "migrationversion",
		Short: "Print the current database migration version",
		Run: func(cmd *cobra.Command, args []string) {
			version, dirty, err := newMigrator().Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("No migrations applied yet")
				return
			} else if err != nil {
				logging.Fatal().Err(err).Msg("Failed to read migration version")
			}
			fmt.Printf("Version %d (dirty: %v)\n", version, dirty)
		},
	}

	website.WebsiteCommand.AddCommand(migrateCommand, rollbackCommand, versionCommand)
}

func newMigrator() *migrate.Migrate {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load embedded migrations")
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, config.Config.Postgres.URL())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect for migrations")
	}
	return migrator
}

func Migrate() {
	migrator := newMigrator()
	defer migrator.Close()

	err := migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logging.Info().Msg("Database is already up to date")
		return
	} else if err != nil {
		logging.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	logging.Info().Msg("Applied all pending migrations")
}

func Rollback(steps int) {
	migrator := newMigrator()
	defer migrator.Close()

	err := migrator.Steps(-steps)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to roll back migrations")
	}
	logging.Info().Int("steps", steps).Msg("Rolled back migrations")
}
