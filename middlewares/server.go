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

package middlewares

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func allowedOrigins() []string {
	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		return []string{"http://localhost:3000"}
	}
	return strings.Split(origins, ",")
}

func registerMiddlewares(e *echo.Echo) {
	e.Pre(middleware.AddTrailingSlash())
	e.Use(otelecho.Middleware("modelguard", otelecho.WithSkipper(func(ctx echo.Context) bool {
		return ctx.Path() == "/api/v1/health/" || ctx.Path() == "/api/v1/metrics/"
	})))
	e.Use(middleware.CORSWithConfig(
		middleware.CORSConfig{
			AllowOrigins:     allowedOrigins(),
			AllowHeaders:     middleware.DefaultCORSConfig.AllowHeaders,
			AllowMethods:     middleware.DefaultCORSConfig.AllowMethods,
			AllowCredentials: true,
		},
	))

	e.Use(logger())

	e.Use(recovermiddleware())

	e.HTTPErrorHandler = errorHandler(e)
}

// errorHandler does the logging of failed requests. This keeps controller methods clean.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		he, ok := err.(*echo.HTTPError)
		if !ok {
			he = &echo.HTTPError{
				Code:     http.StatusInternalServerError,
				Message:  http.StatusText(http.StatusInternalServerError),
				Internal: err,
			}
		}

		attrs := []any{"method", ctx.Request().Method, "path", ctx.Request().URL, "status", he.Code}
		if he.Internal != nil {
			attrs = append(attrs, "err", he.Internal)
		}
		if he.Code >= 500 {
			slog.Error(err.Error(), attrs...)
		} else {
			slog.Warn(err.Error(), attrs...)
		}

		if ctx.Response().Committed {
			return
		}

		var message any
		switch m := he.Message.(type) {
		case string:
			if e.Debug && he.Internal != nil {
				message = echo.Map{"message": m, "error": he.Internal.Error()}
			} else {
				message = echo.Map{"message": m}
			}
		case error:
			message = echo.Map{"message": m.Error()}
		default:
			message = m
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(he.Code)
		} else {
			err = ctx.JSON(he.Code, message)
		}
		if err != nil {
			slog.Error("could not send error response", "error", err)
		}
	}
}

func Server() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(99)
	registerMiddlewares(e)
	return e
}
