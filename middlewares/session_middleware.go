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
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
)

const sessionCookieName = "ory_kratos_session"

func getCookie(name string, cookies []*http.Cookie) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func cookieAuth(ctx context.Context, oryAPIClient shared.AdminClient, oryKratosSessionCookie string) (models.User, error) {
	// check if we have a session
	unescaped, err := url.QueryUnescape(oryKratosSessionCookie)
	if err != nil {
		return models.User{}, err
	}

	identity, err := oryAPIClient.GetIdentityFromCookie(ctx, unescaped)
	if err != nil {
		return models.User{}, err
	}

	email, name := shared.IdentityTraits(identity)
	user := models.User{Email: email, Name: name}
	if id, err := uuid.Parse(identity.Id); err == nil {
		user.ID = id
	}
	return user, nil
}

// SessionMiddleware resolves the kratos session cookie to a caller.
// Users are created on their first request, identified by their email.
func SessionMiddleware(oryAPIClient shared.AdminClient, userRepository shared.UserRepository) echo.MiddlewareFunc {
	sessions := expirable.NewLRU[string, shared.Caller](1024, nil, 5*time.Minute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie := getCookie(sessionCookieName, ctx.Cookies())
			if cookie == nil {
				return echo.NewHTTPError(401, "no session")
			}

			if caller, ok := sessions.Get(cookie.Value); ok {
				shared.SetSession(ctx, caller)
				return next(ctx)
			}

			user, err := cookieAuth(ctx.Request().Context(), oryAPIClient, cookie.String())
			if err != nil {
				slog.Warn("could not get identity from cookie", "err", err)
				return echo.NewHTTPError(401, "invalid session").WithInternal(err)
			}
			if user.Email == "" {
				return echo.NewHTTPError(401, "identity has no email address")
			}

			if err := userRepository.FirstOrCreate(nil, &user); err != nil {
				return echo.NewHTTPError(500, "could not read user").WithInternal(err)
			}

			caller := shared.NewCaller(user)
			sessions.Add(cookie.Value, caller)
			shared.SetSession(ctx, caller)
			return next(ctx)
		}
	}
}
