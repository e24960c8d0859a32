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
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/interchange"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type snapshotService struct {
	store shared.ProjectStore
}

var _ shared.SnapshotService = (*snapshotService)(nil)

func NewSnapshotService(store shared.ProjectStore) *snapshotService {
	return &snapshotService{store: store}
}

// Capture stores the current canonical graph of the project together with the supplied view state.
func (s *snapshotService) Capture(ctx context.Context, caller shared.Caller, projectID uuid.UUID, req dtos.CreateSnapshotRequest) (models.Snapshot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Snapshot{}, echo.NewHTTPError(400, "snapshot name is required")
	}

	data, err := loadGraph(s.store, s.store.DB.WithContext(ctx), projectID)
	if err != nil {
		return models.Snapshot{}, echo.NewHTTPError(500, "could not read project graph").WithInternal(err)
	}
	document, err := json.Marshal(interchange.BuildSnapshotDocument(data, req.State))
	if err != nil {
		return models.Snapshot{}, echo.NewHTTPError(500, "could not encode snapshot").WithInternal(err)
	}

	snapshot := models.Snapshot{
		ProjectID:   projectID,
		CreatedByID: caller.UserIDPtr(),
		Name:        name,
		Document:    datatypes.JSON(document),
	}
	if err := s.store.Snapshots.Create(nil, &snapshot); err != nil {
		return models.Snapshot{}, echo.NewHTTPError(500, "could not store snapshot").WithInternal(err)
	}
	slog.Info("captured snapshot", "projectID", projectID, "snapshotID", snapshot.ID, "nodes", len(data.Nodes))
	return snapshot, nil
}

func (s *snapshotService) List(projectID uuid.UUID) ([]models.Snapshot, error) {
	snapshots, err := s.store.Snapshots.FindByProject(nil, projectID)
	if err != nil {
		return nil, echo.NewHTTPError(500, "could not list snapshots").WithInternal(err)
	}
	return snapshots, nil
}
