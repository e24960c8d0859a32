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

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/interchange"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type graphService struct {
	store  shared.ProjectStore
	broker shared.PubSubBroker
}

var _ shared.GraphService = (*graphService)(nil)

func NewGraphService(store shared.ProjectStore, broker shared.PubSubBroker) *graphService {
	return &graphService{
		store:  store,
		broker: broker,
	}
}

// SetParent moves a node below a container of the same project, or detaches it if parentID is nil.
func (s *graphService) SetParent(ctx context.Context, caller shared.Caller, projectID, nodeID uuid.UUID, parentID *uuid.UUID) (models.ModelNode, error) {
	var updated models.ModelNode
	err := s.store.DB.WithContext(ctx).Transaction(func(tx shared.DB) error {
		nodes, err := s.store.Nodes.FindByProject(tx, projectID)
		if err != nil {
			return echo.NewHTTPError(500, "could not read nodes").WithInternal(err)
		}

		hierarchy := interchange.NewHierarchy()
		for _, n := range nodes {
			hierarchy.Add(n.ID, n.IsContainer(), n.ParentNodeID)
		}

		if err := hierarchy.Assign(nodeID, parentID); err != nil {
			switch {
			case errors.Is(err, interchange.ErrNodeNotFound):
				return echo.NewHTTPError(404, "node not found").WithInternal(err)
			default:
				return echo.NewHTTPError(400, err.Error()).WithInternal(err)
			}
		}

		if err := s.store.Nodes.UpdateParent(tx, nodeID, parentID, caller.UserIDPtr()); err != nil {
			return echo.NewHTTPError(500, "could not update parent").WithInternal(err)
		}

		for _, n := range nodes {
			if n.ID == nodeID {
				updated = n
				break
			}
		}
		updated.ParentNodeID = parentID
		updated.UpdatedByID = caller.UserIDPtr()
		return nil
	})
	if err != nil {
		return models.ModelNode{}, err
	}

	if err := s.broker.Publish(ctx, shared.NewProjectChangeMessage(projectID.String(), "graph")); err != nil {
		slog.Warn("could not publish project change", "projectID", projectID, "err", err)
	}
	return updated, nil
}
