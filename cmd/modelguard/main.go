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

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/modelguard/accesscontrol"
	"github.com/l3montree-dev/modelguard/controllers"
	"github.com/l3montree-dev/modelguard/daemons"
	"github.com/l3montree-dev/modelguard/database"
	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/monitoring"
	"github.com/l3montree-dev/modelguard/router"
	"github.com/l3montree-dev/modelguard/services"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

var release string // Will be filled at build time

func main() {
	shared.LoadConfig() // nolint: errcheck
	shared.InitLogger()

	if os.Getenv("ERROR_TRACKING_DSN") != "" {
		initSentry()

		// Catch panics
		defer func() {
			if err := recover(); err != nil {
				sentry.CurrentHub().Recover(err)
				// Wait for events to be send to server
				sentry.Flush(time.Second * 5)
			}
		}()
	}

	shutdownTracing, err := monitoring.InitTracing(context.Background(), release)
	if err != nil {
		slog.Error("could not initialize tracing", "err", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	pool, err := database.NewPgxConnPool(database.GetPoolConfigFromEnv())
	if err != nil {
		slog.Error(err.Error())
		panic(errors.New("Failed to setup database connection"))
	}
	db, err := database.NewGormDB(pool)
	if err != nil {
		slog.Error(err.Error())
		panic(errors.New("Failed to setup database connection"))
	}

	if os.Getenv("DISABLE_AUTOMIGRATE") != "true" {
		slog.Info("running database migrations...")
		if err := database.RunMigrationsWithDB(db); err != nil {
			slog.Error("failed to run database migrations", "error", err)
			panic(errors.New("Failed to run database migrations"))
		}
	} else {
		slog.Info("automatic migrations disabled via DISABLE_AUTOMIGRATE=true")
	}

	router.Version = release

	fx.New(
		fx.Supply(pool),
		fx.Supply(db),
		fx.Provide(database.BrokerFactory),
		repositories.Module,
		services.ServiceModule,
		controllers.ControllerModule,
		router.RouterModule,
		accesscontrol.Module,
		daemons.Module,

		// we need to invoke all routers to register their routes
		fx.Invoke(func(SessionRouter router.SessionRouter) {}),
		fx.Invoke(func(ProjectRouter router.ProjectRouter) {}),
		fx.Invoke(func(InterchangeRouter router.InterchangeRouter) {}),
		fx.Invoke(func(lc fx.Lifecycle, server *echo.Echo, trashDaemon shared.TrashDaemon, pool *pgxpool.Pool) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						if err := server.Start(":8080"); err != nil && !errors.Is(err, http.ErrServerClosed) {
							slog.Error("failed to start server", "err", err)
						}
					}()
					trashDaemon.Start()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					defer pool.Close()
					if err := server.Shutdown(ctx); err != nil {
						return err
					}
					return shutdownTracing(ctx)
				},
			})
		}),
	).Run()
}

func initSentry() {
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "dev"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              os.Getenv("ERROR_TRACKING_DSN"),
		Environment:      environment,
		Release:          release,
		Debug:            environment == "dev",
		AttachStacktrace: true,
		SendDefaultPII:   false,
	})
	if err != nil {
		slog.Error("Failed to init logger", "err", err)
	}
}
