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

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
)

type InterchangeController struct {
	exportService shared.ExportService
	importService shared.ImportService
	authorizer    shared.Authorizer
}

func NewInterchangeController(exportService shared.ExportService, importService shared.ImportService, authorizer shared.Authorizer) *InterchangeController {
	return &InterchangeController{
		exportService: exportService,
		importService: importService,
		authorizer:    authorizer,
	}
}

// BundleFileName is the download name of a native project bundle.
func BundleFileName(project models.Project) string {
	name := slug.Make(project.Name)
	if name == "" {
		name = project.ID.String()
	}
	return name + ".modelguard.json"
}

// @Summary Export projects
// @Security CookieAuth
// @Param body body dtos.ExportRequest true "Request body"
// @Success 200 {object} dtos.ExportResponse
// @Router /interchange/export [post]
func (c *InterchangeController) Export(ctx shared.Context) error {
	var req dtos.ExportRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	ids := make([]uuid.UUID, 0, len(req.ProjectIDs))
	for _, raw := range req.ProjectIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(400, fmt.Sprintf("invalid project id %q", raw)).WithInternal(err)
		}
		ids = append(ids, id)
	}

	resp, err := c.exportService.Export(ctx.Request().Context(), shared.GetSession(ctx), ids, req.Format)
	if err != nil {
		return err
	}
	return ctx.JSON(200, resp)
}

// @Summary Import project bundles
// @Security CookieAuth
// @Param body body dtos.ImportRequest true "Request body"
// @Success 200 {object} dtos.ImportResponse
// @Router /interchange/import [post]
func (c *InterchangeController) Import(ctx shared.Context) error {
	caller := shared.GetSession(ctx)
	if !c.authorizer.CanImport(caller) {
		return echo.NewHTTPError(403, "not allowed to import projects")
	}

	var req dtos.ImportRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	resp, err := c.importService.Import(ctx.Request().Context(), caller, req)
	if err != nil {
		return err
	}
	slog.Info("import finished", "user", caller.UserID, "imported", resp.ImportedCount, "failed", resp.FailedCount)
	return ctx.JSON(200, resp)
}

// @Summary Download the native bundle of a single project
// @Security CookieAuth
// @Param projectID path string true "Project ID"
// @Success 200 {object} dtos.ProjectBundle
// @Router /projects/{projectID}/export [get]
func (c *InterchangeController) ExportProject(ctx shared.Context) error {
	project := shared.GetProject(ctx)
	if !c.authorizer.CanExport(shared.GetSession(ctx), shared.GetMembershipRole(ctx)) {
		return echo.NewHTTPError(403, "not allowed to export this project")
	}

	bundle, err := c.exportService.ExportProject(ctx.Request().Context(), project.ID)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", BundleFileName(project)))
	return ctx.JSON(200, bundle)
}
