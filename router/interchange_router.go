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
	"github.com/l3montree-dev/modelguard/controllers"
	"github.com/l3montree-dev/modelguard/middlewares"
	"github.com/labstack/echo/v4"
)

type InterchangeRouter struct {
	*echo.Group
}

// NewInterchangeRouter registers the batch export and import. Authorization happens per project inside the services.
func NewInterchangeRouter(sessionRouter SessionRouter, interchangeController *controllers.InterchangeController) InterchangeRouter {
	interchangeRouter := sessionRouter.Group.Group("/interchange", middlewares.InterchangeRateLimit())
	interchangeRouter.POST("/export/", interchangeController.Export)
	interchangeRouter.POST("/import/", interchangeController.Import)

	return InterchangeRouter{
		Group: interchangeRouter,
	}
}
