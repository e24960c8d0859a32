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

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/interchange"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type projectService struct {
	store  shared.ProjectStore
	broker shared.PubSubBroker
}

var _ shared.ProjectService = (*projectService)(nil)

func NewProjectService(store shared.ProjectStore, broker shared.PubSubBroker) *projectService {
	return &projectService{
		store:  store,
		broker: broker,
	}
}

func (s *projectService) publish(ctx context.Context, projectID uuid.UUID, kind string) {
	if err := s.broker.Publish(ctx, shared.NewProjectChangeMessage(projectID.String(), kind)); err != nil {
		slog.Warn("could not publish project change", "projectID", projectID, "kind", kind, "err", err)
	}
}

// Create stores the project and makes the caller its creator.
func (s *projectService) Create(ctx context.Context, caller shared.Caller, req dtos.ProjectCreateRequest) (models.Project, error) {
	project, err := interchange.ProjectFromMeta(dtos.ProjectMetaDTO{
		Name:        req.Name,
		Description: req.Description,
		Norms:       req.Norms,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return models.Project{}, echo.NewHTTPError(400, err.Error()).WithInternal(err)
	}
	project.Audit = models.NewAudit(caller.UserIDPtr())

	err = s.store.Projects.Transaction(func(tx shared.DB) error {
		if err := s.store.Projects.Create(tx, &project); err != nil {
			return err
		}
		return s.store.Memberships.Create(tx, &models.Membership{
			ProjectID: project.ID,
			UserID:    caller.UserID,
			Role:      models.MembershipRoleAdmin,
		})
	})
	if err != nil {
		slog.Error("could not create project", "err", err, "name", project.Name)
		return models.Project{}, echo.NewHTTPError(500, "could not create project").WithInternal(err)
	}

	s.publish(ctx, project.ID, "created")
	return project, nil
}

func (s *projectService) ListForUser(caller shared.Caller) ([]models.Project, error) {
	projects, err := s.store.Projects.ListForUser(caller.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(500, "could not list projects").WithInternal(err)
	}
	return projects, nil
}

func (s *projectService) Trash(ctx context.Context, projectID uuid.UUID) error {
	if err := s.store.Projects.Trash(nil, projectID); err != nil {
		return echo.NewHTTPError(500, "could not move project to trash").WithInternal(err)
	}
	s.publish(ctx, projectID, "trashed")
	return nil
}

func (s *projectService) Untrash(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.store.Projects.ReadUnscoped(projectID); err != nil {
		return echo.NewHTTPError(404, "project not found").WithInternal(err)
	}
	if err := s.store.Projects.Untrash(nil, projectID); err != nil {
		return echo.NewHTTPError(500, "could not restore project from trash").WithInternal(err)
	}
	s.publish(ctx, projectID, "untrashed")
	return nil
}

func (s *projectService) Purge(ctx context.Context, projectID uuid.UUID) error {
	if err := s.store.Projects.Purge(nil, projectID); err != nil {
		return echo.NewHTTPError(500, "could not delete project").WithInternal(err)
	}
	s.publish(ctx, projectID, "purged")
	return nil
}

// PurgeTrashedBefore hard deletes every project moved to the trash before the given time.
// A failing project does not stop the others.
func (s *projectService) PurgeTrashedBefore(ctx context.Context, before time.Time) (int, error) {
	projects, err := s.store.Projects.FindTrashedBefore(before)
	if err != nil {
		return 0, errors.Wrap(err, "could not find trashed projects")
	}

	purged := 0
	var errs []error
	for _, p := range projects {
		if err := s.Purge(ctx, p.ID); err != nil {
			slog.Error("could not purge trashed project", "projectID", p.ID, "err", err)
			errs = append(errs, err)
			continue
		}
		purged++
	}
	if len(errs) > 0 {
		return purged, errors.Wrapf(errs[0], "could not purge %d of %d trashed projects", len(errs), len(projects))
	}
	return purged, nil
}

func (s *projectService) Creator(projectID uuid.UUID) (models.Membership, error) {
	membership, err := s.store.Memberships.Creator(nil, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Membership{}, echo.NewHTTPError(404, "project has no members").WithInternal(err)
		}
		return models.Membership{}, echo.NewHTTPError(500, "could not read project creator").WithInternal(err)
	}
	return membership, nil
}
