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

package router

import (
	"os"
	"runtime"
	"time"

	"github.com/l3montree-dev/modelguard/database"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is filled at build time.
var Version string

var startedAt = time.Now()

type APIV1Router struct {
	*echo.Group
}

func info(db shared.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		resp := InfoResponse{
			Build: BuildInfo{
				Version:       Version,
				BundleVersion: dtos.BundleVersion,
			},
			Runtime: RuntimeInfo{
				GoVersion:     runtime.Version(),
				NumGoroutines: runtime.NumGoroutine(),
				HeapAlloc:     mem.HeapAlloc,
			},
			Process: ProcessInfo{
				PID:           os.Getpid(),
				UptimeSeconds: int(time.Since(startedAt).Seconds()),
			},
		}
		if host, _ := os.Hostname(); host != "" {
			resp.Process.Hostname = host
		}

		dbInfo := DatabaseInfo{Status: "unknown"}
		sqlDB, err := db.DB()
		switch {
		case err != nil:
			errMsg := "failed to get database instance"
			dbInfo.Status = "unhealthy"
			dbInfo.Error = &errMsg
		case sqlDB.Ping() != nil:
			errMsg := "database ping failed"
			dbInfo.Status = "unhealthy"
			dbInfo.Error = &errMsg
		default:
			dbInfo.Status = "healthy"
			dbInfo.DBStats = sqlDB.Stats()
			if ver, dirty, err := database.GetMigrationVersionWithDB(db); err == nil {
				dbInfo.MigrationVersion = &ver
				dbInfo.MigrationDirty = &dirty
			} else {
				errStr := err.Error()
				dbInfo.MigrationError = &errStr
			}
		}
		resp.Database = dbInfo

		return c.JSON(200, resp)
	}
}

func health(db shared.DB) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return ctx.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  "failed to get database instance",
			})
		}

		if err := sqlDB.Ping(); err != nil {
			return ctx.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  "database ping failed",
			})
		}

		return ctx.JSON(200, map[string]string{
			"status": "healthy",
		})
	}
}

func NewAPIV1Router(server *echo.Echo, db shared.DB) APIV1Router {
	apiV1Router := server.Group("/api/v1")

	apiV1Router.GET("/info/", info(db))
	apiV1Router.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))
	apiV1Router.GET("/health/", health(db))

	return APIV1Router{
		Group: apiV1Router,
	}
}
