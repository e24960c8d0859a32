// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/l3montree-dev/modelguard/database"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/spf13/cobra"
)

// openDB returns the database together with a function closing its pool.
func openDB() (shared.DB, func(), error) {
	pool, err := database.NewPgxConnPool(database.GetPoolConfigFromEnv())
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewGormDB(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return db, pool.Close, nil
}

func migrateDB() {
	db, closeDB, err := openDB()
	if err != nil {
		slog.Error("could not connect to database", "err", err)
		return
	}
	defer closeDB()
	if err := database.RunMigrationsWithDB(db); err != nil {
		slog.Error("could not run migrations", "err", err)
	}
}

func NewMigrateCommand() *cobra.Command {
	migrateCmd := cobra.Command{
		Use:   "migrate",
		Short: "Applies all pending database migrations",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()
			if err := database.RunMigrationsWithDB(db); err != nil {
				return err
			}
			return printMigrationVersion(db)
		},
	}

	migrateCmd.AddCommand(newMigrateDownCommand())
	migrateCmd.AddCommand(newMigrateVersionCommand())
	return &migrateCmd
}

func newMigrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down <steps>",
		Short: "Rolls back the given number of migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := strconv.Atoi(args[0])
			if err != nil || steps < 1 {
				return errors.New("steps must be a positive number")
			}
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()
			if err := database.RollbackMigrationsWithDB(db, steps); err != nil {
				return err
			}
			return printMigrationVersion(db)
		},
	}
}

func newMigrateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the current migration version",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()
			return printMigrationVersion(db)
		},
	}
}

func printMigrationVersion(db shared.DB) error {
	version, dirty, err := database.GetMigrationVersionWithDB(db)
	if errors.Is(err, migrate.ErrNilVersion) {
		slog.Info("no migration applied yet")
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("migration version", "version", version, "dirty", dirty)
	return nil
}
