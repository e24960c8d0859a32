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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/mocks"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/labstack/echo/v4"
	"github.com/ory/client-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: value})
	}
	return req
}

func TestSessionMiddleware(t *testing.T) {
	db := tests.NewSQLiteDB(t)
	users := repositories.NewUserRepository(db)
	identityID := uuid.New()
	identity := client.Identity{
		Id: identityID.String(),
		Traits: map[string]any{
			"email": "Alice@Example.com",
			"name":  map[string]any{"first": "Alice", "last": "Liddell"},
		},
	}

	t.Run("should reject requests without a session cookie", func(t *testing.T) {
		mw := SessionMiddleware(mocks.NewAdminClient(t), users)
		err := mw(func(ctx echo.Context) error {
			t.Fatal("next must not be called")
			return nil
		})(tests.NewContext(requestWithCookie(""), httptest.NewRecorder()))

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 401, he.Code)
	})

	t.Run("should reject invalid sessions", func(t *testing.T) {
		admin := mocks.NewAdminClient(t)
		admin.On("GetIdentityFromCookie", mock.Anything, mock.Anything).Return(client.Identity{}, errors.New("expired"))

		err := SessionMiddleware(admin, users)(func(ctx echo.Context) error {
			return nil
		})(tests.NewContext(requestWithCookie("stale"), httptest.NewRecorder()))

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 401, he.Code)
	})

	t.Run("should create the user on the first request and cache the session", func(t *testing.T) {
		admin := mocks.NewAdminClient(t)
		admin.On("GetIdentityFromCookie", mock.Anything, mock.Anything).Return(identity, nil).Once()
		mw := SessionMiddleware(admin, users)

		var callers []shared.Caller
		handler := mw(func(ctx echo.Context) error {
			callers = append(callers, shared.GetSession(ctx))
			return nil
		})

		require.NoError(t, handler(tests.NewContext(requestWithCookie("abc"), httptest.NewRecorder())))
		require.NoError(t, handler(tests.NewContext(requestWithCookie("abc"), httptest.NewRecorder())))

		require.Len(t, callers, 2)
		assert.Equal(t, identityID, callers[0].UserID)
		assert.Equal(t, "alice@example.com", callers[0].Email)
		assert.Equal(t, "Alice Liddell", callers[0].Name)
		assert.Equal(t, callers[0], callers[1])

		stored, err := users.ReadByEmail("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, identityID, stored.ID)
	})
}
