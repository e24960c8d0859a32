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

package tests

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/modelguard/database"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// InitDatabaseContainer starts a postgres container and applies the embedded migrations.
func InitDatabaseContainer() (shared.DB, *pgxpool.Pool, func()) {
	ctx := context.Background()

	dbName := "modelguard"
	dbUser := "user"
	dbPassword := "password"

	postgresC, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start postgres container: %s", err)
		panic(err)
	}

	terminate := func() {
		if err := testcontainers.TerminateContainer(postgresC); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}

	host, err := postgresC.Host(ctx)
	if err != nil {
		terminate()
		panic(err)
	}
	port, err := postgresC.MappedPort(ctx, "5432")
	if err != nil {
		terminate()
		panic(err)
	}

	pool, err := database.NewPgxConnPool(database.PoolConfig{
		MaxOpenConns:    5,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
		User:            dbUser,
		DBName:          dbName,
		Password:        dbPassword,
		Host:            host,
		Port:            port.Port(),
	})
	if err != nil {
		terminate()
		panic(err)
	}

	db, err := database.NewGormDB(pool)
	if err != nil {
		terminate()
		panic(err)
	}

	if err := database.RunMigrationsWithDB(db); err != nil {
		terminate()
		panic(err)
	}

	return db, pool, func() {
		pool.Close()
		terminate()
	}
}
