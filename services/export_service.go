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
	"github.com/l3montree-dev/modelguard/monitoring"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const exportConcurrency = 5

type exportService struct {
	store      shared.ProjectStore
	authorizer shared.Authorizer
}

var _ shared.ExportService = (*exportService)(nil)

func NewExportService(store shared.ProjectStore, authorizer shared.Authorizer) *exportService {
	return &exportService{
		store:      store,
		authorizer: authorizer,
	}
}

type exportResult struct {
	bundle *dtos.ProjectBundle
	err    *dtos.ExportError
}

func (s *exportService) Export(ctx context.Context, caller shared.Caller, projectIDs []uuid.UUID, format string) (dtos.ExportResponse, error) {
	if format == "" {
		format = dtos.ExportFormatNative
	}
	if format != dtos.ExportFormatNative && format != dtos.ExportFormatCycloneDX {
		return dtos.ExportResponse{}, echo.NewHTTPError(400, "unsupported export format").WithInternal(interchange.ErrUnsupportedFormat)
	}

	start := time.Now()
	defer func() {
		monitoring.ExportDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	}()

	group := utils.ErrGroup[exportResult](exportConcurrency)
	for _, projectID := range utils.UniqBy(projectIDs, func(id uuid.UUID) uuid.UUID { return id }) {
		group.Go(func() (exportResult, error) {
			return s.exportOne(ctx, caller, projectID)
		})
	}
	results, err := group.WaitAndCollect()
	if err != nil {
		return dtos.ExportResponse{}, echo.NewHTTPError(500, "could not export projects").WithInternal(err)
	}

	resp := dtos.ExportResponse{
		Format:     format,
		Version:    dtos.BundleVersion,
		ExportedAt: time.Now().UTC(),
		ExportedBy: dtos.ExportIdentity{
			ID:    caller.UserID.String(),
			Email: caller.Email,
			Name:  caller.Name,
		},
		Errors: []dtos.ExportError{},
	}
	if format == dtos.ExportFormatNative {
		resp.Projects = []dtos.ProjectBundle{}
	}

	for _, r := range results {
		if r.err != nil {
			resp.Errors = append(resp.Errors, *r.err)
			continue
		}
		monitoring.ExportedProjectsAmount.WithLabelValues(format).Inc()
		if format == dtos.ExportFormatCycloneDX {
			resp.Documents = append(resp.Documents, interchange.ToCycloneDX(*r.bundle))
		} else {
			resp.Projects = append(resp.Projects, *r.bundle)
		}
	}
	return resp, nil
}

// exportOne returns an error only for storage failures, missing or forbidden projects are reported in the result.
func (s *exportService) exportOne(ctx context.Context, caller shared.Caller, projectID uuid.UUID) (exportResult, error) {
	ctx, span := monitoring.Tracer().Start(ctx, "export.project")
	defer span.End()
	span.SetAttributes(attribute.String("modelguard.project.id", projectID.String()))

	project, err := s.store.Projects.Read(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return exportResult{err: &dtos.ExportError{ProjectID: projectID.String(), Status: 404, Error: "project not found"}}, nil
		}
		return exportResult{}, errors.Wrapf(err, "could not read project %s", projectID)
	}

	var role *models.MembershipRole
	r, err := s.store.Memberships.FindRole(projectID, caller.UserID)
	if err == nil {
		role = &r
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return exportResult{}, errors.Wrap(err, "could not read membership")
	}

	if !s.authorizer.CanExport(caller, role) {
		// do not leak the existence of projects the caller is not a member of
		if role == nil {
			return exportResult{err: &dtos.ExportError{ProjectID: projectID.String(), Status: 404, Error: "project not found"}}, nil
		}
		return exportResult{err: &dtos.ExportError{ProjectID: projectID.String(), Status: 403, Error: "not allowed to export this project"}}, nil
	}

	data, err := loadProjectData(ctx, s.store, project)
	if err != nil {
		return exportResult{}, err
	}
	bundle := interchange.BuildBundle(data)
	slog.Debug("exported project", "projectID", projectID, "nodes", len(bundle.Nodes), "users", len(bundle.Users))
	return exportResult{bundle: &bundle}, nil
}

// ExportProject builds the native bundle of one project. Authorization happens before.
func (s *exportService) ExportProject(ctx context.Context, projectID uuid.UUID) (dtos.ProjectBundle, error) {
	ctx, span := monitoring.Tracer().Start(ctx, "export.project")
	defer span.End()

	project, err := s.store.Projects.Read(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.ProjectBundle{}, echo.NewHTTPError(404, "project not found").WithInternal(err)
		}
		return dtos.ProjectBundle{}, echo.NewHTTPError(500, "could not read project").WithInternal(err)
	}
	data, err := loadProjectData(ctx, s.store, project)
	if err != nil {
		return dtos.ProjectBundle{}, echo.NewHTTPError(500, "could not export project").WithInternal(err)
	}
	monitoring.ExportedProjectsAmount.WithLabelValues(dtos.ExportFormatNative).Inc()
	return interchange.BuildBundle(data), nil
}
