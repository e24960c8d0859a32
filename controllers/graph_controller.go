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

package controllers

import (
	"fmt"

	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
)

type GraphController struct {
	graphService shared.GraphService
}

func NewGraphController(graphService shared.GraphService) *GraphController {
	return &GraphController{graphService: graphService}
}

// @Summary Move a node below a container or detach it
// @Security CookieAuth
// @Param projectID path string true "Project ID"
// @Param nodeID path string true "Node ID"
// @Param body body dtos.SetParentRequest true "Request body"
// @Success 200 {object} models.ModelNode
// @Router /projects/{projectID}/nodes/{nodeID}/parent [patch]
func (c *GraphController) SetParent(ctx shared.Context) error {
	nodeID, err := shared.GetUUIDParam(ctx, "nodeID")
	if err != nil {
		return err
	}

	var req dtos.SetParentRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	node, err := c.graphService.SetParent(ctx.Request().Context(), shared.GetSession(ctx), shared.GetProject(ctx).ID, nodeID, req.ParentNodeID)
	if err != nil {
		return err
	}
	return ctx.JSON(200, node)
}
