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
	"log/slog"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ProjectAccessControlFactory loads the project of the :projectID parameter and the membership role of the caller.
// Callers which are no member do not learn whether the project exists.
func ProjectAccessControlFactory(projectRepository shared.ProjectRepository, membershipRepository shared.MembershipRepository, authorizer shared.Authorizer) shared.RBACMiddleware {
	return func(obj shared.Object, act shared.Action) shared.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(ctx shared.Context) error {
				caller := shared.GetSession(ctx)

				var project models.Project
				// check if project is already set in the context
				if p, ok := ctx.Get("project").(models.Project); ok {
					project = p
				} else {
					projectID, err := shared.GetUUIDParam(ctx, "projectID")
					if err != nil {
						return err
					}
					project, err = projectRepository.Read(projectID)
					if err != nil {
						if errors.Is(err, gorm.ErrRecordNotFound) {
							return echo.NewHTTPError(404, "could not find project")
						}
						return echo.NewHTTPError(500, "could not read project").WithInternal(err)
					}
				}

				role := shared.GetMembershipRole(ctx)
				if role == nil {
					r, err := membershipRepository.FindRole(project.ID, caller.UserID)
					if err == nil {
						role = &r
					} else if !errors.Is(err, gorm.ErrRecordNotFound) {
						return echo.NewHTTPError(500, "could not determine if the user has access").WithInternal(err)
					}
				}

				if !authorizer.IsAllowed(caller, role, obj, act) {
					slog.Warn("access denied in ProjectAccess", "user", caller.UserID, "object", obj, "action", act, "projectID", project.ID)
					if role == nil {
						return echo.NewHTTPError(404, "could not find project")
					}
					return echo.NewHTTPError(403, "not allowed to perform this action")
				}

				shared.SetProject(ctx, project)
				if role != nil {
					shared.SetMembershipRole(ctx, *role)
				}
				return next(ctx)
			}
		}
	}
}
