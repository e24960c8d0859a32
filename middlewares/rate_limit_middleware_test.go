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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallerRateLimit(t *testing.T) {
	mw := CallerRateLimit(time.Hour, 2)
	handler := mw(func(ctx echo.Context) error {
		return ctx.NoContent(http.StatusNoContent)
	})

	call := func(user models.User) error {
		ctx := tests.NewCallerContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder(), user)
		return handler(ctx)
	}

	alice := models.User{Model: models.Model{ID: uuid.New()}, Email: "alice@example.com"}
	bob := models.User{Model: models.Model{ID: uuid.New()}, Email: "bob@example.com"}

	require.NoError(t, call(alice))
	require.NoError(t, call(alice))

	err := call(alice)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)

	// every caller has its own bucket
	assert.NoError(t, call(bob))
}
