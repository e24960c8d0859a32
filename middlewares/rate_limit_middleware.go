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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// CallerRateLimit allows every caller burst requests at once and one more per interval.
// Must run after the session middleware.
func CallerRateLimit(interval time.Duration, burst int) echo.MiddlewareFunc {
	// idle callers fall out after ten minutes and start with a full bucket again
	limiters := expirable.NewLRU[uuid.UUID, *rate.Limiter](4096, nil, 10*time.Minute)
	var mu sync.Mutex

	limiterFor := func(userID uuid.UUID) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters.Get(userID); ok {
			return l
		}
		l := rate.NewLimiter(rate.Every(interval), burst)
		limiters.Add(userID, l)
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx shared.Context) error {
			caller := shared.GetSession(ctx)
			if !limiterFor(caller.UserID).Allow() {
				slog.Warn("rate limit exceeded", "user", caller.UserID, "path", ctx.Path())
				return echo.NewHTTPError(429, "too many requests, please slow down")
			}
			return next(ctx)
		}
	}
}

// InterchangeRateLimit reads INTERCHANGE_REQUESTS_PER_MINUTE (default 30) with a burst of 5.
func InterchangeRateLimit() echo.MiddlewareFunc {
	perMinute := shared.GetEnvInt("INTERCHANGE_REQUESTS_PER_MINUTE", 30)
	return CallerRateLimit(time.Minute/time.Duration(perMinute), 5)
}
