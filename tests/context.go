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
	"net/http"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
)

func NewContext(r *http.Request, w http.ResponseWriter) shared.Context {
	app := echo.New()
	return app.NewContext(r, w)
}

// NewCallerContext returns a context carrying the session of user.
func NewCallerContext(r *http.Request, w http.ResponseWriter, user models.User) shared.Context {
	ctx := NewContext(r, w)
	shared.SetSession(ctx, shared.NewCaller(user))
	return ctx
}
