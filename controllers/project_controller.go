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

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProjectController struct {
	projectService       shared.ProjectService
	membershipRepository shared.MembershipRepository
	authorizer           shared.Authorizer
}

func NewProjectController(projectService shared.ProjectService, membershipRepository shared.MembershipRepository, authorizer shared.Authorizer) *ProjectController {
	return &ProjectController{
		projectService:       projectService,
		membershipRepository: membershipRepository,
		authorizer:           authorizer,
	}
}

func toProjectDTO(p models.Project) dtos.ProjectDTO {
	dto := dtos.ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Norms:       p.Norms,
		Visibility:  string(p.Visibility),
		CreatedAt:   p.CreatedAt,
	}
	if p.DeletedAt.Valid {
		dto.DeletedAt = &p.DeletedAt.Time
	}
	return dto
}

// @Summary Create project
// @Security CookieAuth
// @Param body body dtos.ProjectCreateRequest true "Request body"
// @Success 200 {object} dtos.ProjectDTO
// @Router /projects [post]
func (c *ProjectController) Create(ctx shared.Context) error {
	var req dtos.ProjectCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	project, err := c.projectService.Create(ctx.Request().Context(), shared.GetSession(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(200, toProjectDTO(project))
}

// @Summary List the projects of the current user
// @Security CookieAuth
// @Success 200 {array} dtos.ProjectDTO
// @Router /projects [get]
func (c *ProjectController) List(ctx shared.Context) error {
	projects, err := c.projectService.ListForUser(shared.GetSession(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(200, utils.Map(projects, toProjectDTO))
}

func (c *ProjectController) Read(ctx shared.Context) error {
	return ctx.JSON(200, toProjectDTO(shared.GetProject(ctx)))
}

// @Summary Move a project to the trash
// @Security CookieAuth
// @Param projectID path string true "Project ID"
// @Success 200
// @Router /projects/{projectID} [delete]
func (c *ProjectController) Delete(ctx shared.Context) error {
	project := shared.GetProject(ctx)
	if err := c.projectService.Trash(ctx.Request().Context(), project.ID); err != nil {
		return err
	}
	return ctx.NoContent(200)
}

// Untrash is registered outside of the project access middleware, trashed projects are invisible to it.
func (c *ProjectController) Untrash(ctx shared.Context) error {
	projectID, err := shared.GetUUIDParam(ctx, "projectID")
	if err != nil {
		return err
	}
	caller := shared.GetSession(ctx)

	var role *models.MembershipRole
	r, err := c.membershipRepository.FindRole(projectID, caller.UserID)
	if err == nil {
		role = &r
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(500, "could not read membership").WithInternal(err)
	}
	if !c.authorizer.IsAllowed(caller, role, shared.ObjectProject, shared.ActionDelete) {
		return echo.NewHTTPError(404, "could not find project")
	}

	if err := c.projectService.Untrash(ctx.Request().Context(), projectID); err != nil {
		return err
	}
	return ctx.NoContent(200)
}
