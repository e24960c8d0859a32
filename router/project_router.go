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
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
)

type ProjectRouter struct {
	*echo.Group
}

func NewProjectRouter(
	sessionRouter SessionRouter,
	projectController *controllers.ProjectController,
	graphController *controllers.GraphController,
	snapshotController *controllers.SnapshotController,
	interchangeController *controllers.InterchangeController,
	projectRepository shared.ProjectRepository,
	membershipRepository shared.MembershipRepository,
	authorizer shared.Authorizer,
) ProjectRouter {
	sessionRouter.POST("/projects/", projectController.Create)
	sessionRouter.GET("/projects/", projectController.List)
	// trashed projects are not visible to the project access middleware
	sessionRouter.POST("/projects/:projectID/untrash/", projectController.Untrash)

	/**
	Project scoped router
	All routes below this line are scoped to a specific project.
	*/
	projectScopedRBAC := middlewares.ProjectAccessControlFactory(projectRepository, membershipRepository, authorizer)

	projectRouter := sessionRouter.Group.Group("/projects/:projectID", projectScopedRBAC(shared.ObjectProject, shared.ActionRead))
	projectRouter.GET("/", projectController.Read)
	projectRouter.DELETE("/", projectController.Delete, projectScopedRBAC(shared.ObjectProject, shared.ActionDelete))

	projectRouter.GET("/export/", interchangeController.ExportProject)

	projectRouter.GET("/snapshots/", snapshotController.List, projectScopedRBAC(shared.ObjectSnapshot, shared.ActionRead))
	projectRouter.POST("/snapshots/", snapshotController.Create, projectScopedRBAC(shared.ObjectSnapshot, shared.ActionCreate))
	projectRouter.POST("/snapshots/:snapshotID/restore/", snapshotController.Restore)

	projectRouter.PATCH("/nodes/:nodeID/parent/", graphController.SetParent, projectScopedRBAC(shared.ObjectGraph, shared.ActionUpdate))

	return ProjectRouter{
		Group: projectRouter,
	}
}
