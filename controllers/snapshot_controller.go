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
	"log/slog"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/labstack/echo/v4"
)

type SnapshotController struct {
	snapshotService shared.SnapshotService
	restoreService  shared.RestoreService
	authorizer      shared.Authorizer
}

func NewSnapshotController(snapshotService shared.SnapshotService, restoreService shared.RestoreService, authorizer shared.Authorizer) *SnapshotController {
	return &SnapshotController{
		snapshotService: snapshotService,
		restoreService:  restoreService,
		authorizer:      authorizer,
	}
}

func toSnapshotDTO(s models.Snapshot) dtos.SnapshotDTO {
	return dtos.SnapshotDTO{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		Name:        s.Name,
		CreatedByID: s.CreatedByID,
		CreatedAt:   s.CreatedAt,
	}
}

// @Summary Capture a snapshot of the project graph
// @Security CookieAuth
// @Param projectID path string true "Project ID"
// @Param body body dtos.CreateSnapshotRequest true "Request body"
// @Success 200 {object} dtos.SnapshotDTO
// @Router /projects/{projectID}/snapshots [post]
func (c *SnapshotController) Create(ctx shared.Context) error {
	var req dtos.CreateSnapshotRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	snapshot, err := c.snapshotService.Capture(ctx.Request().Context(), shared.GetSession(ctx), shared.GetProject(ctx).ID, req)
	if err != nil {
		return err
	}
	return ctx.JSON(200, toSnapshotDTO(snapshot))
}

// @Summary List the snapshots of a project
// @Security CookieAuth
// @Param projectID path string true "Project ID"
// @Success 200 {array} dtos.SnapshotDTO
// @Router /projects/{projectID}/snapshots [get]
func (c *SnapshotController) List(ctx shared.Context) error {
	snapshots, err := c.snapshotService.List(shared.GetProject(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(200, utils.Map(snapshots, toSnapshotDTO))
}

// @Summary Replace the project graph with a snapshot
// @Security CookieAuth
// @Param projectID path string true "Project ID"
// @Param snapshotID path string true "Snapshot ID"
// @Success 200 {object} dtos.RestoreResponse
// @Router /projects/{projectID}/snapshots/{snapshotID}/restore [post]
func (c *SnapshotController) Restore(ctx shared.Context) error {
	snapshotID, err := shared.GetUUIDParam(ctx, "snapshotID")
	if err != nil {
		return err
	}
	caller := shared.GetSession(ctx)
	project := shared.GetProject(ctx)

	if !c.authorizer.CanRestore(caller, shared.GetMembershipRole(ctx)) {
		slog.Warn("restore denied", "user", caller.UserID, "projectID", project.ID)
		return echo.NewHTTPError(403, "not allowed to restore snapshots of this project")
	}

	resp, err := c.restoreService.Restore(ctx.Request().Context(), caller, project.ID, snapshotID)
	if err != nil {
		return err
	}
	return ctx.JSON(200, resp)
}
