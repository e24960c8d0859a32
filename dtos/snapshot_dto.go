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

package dtos

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const SnapshotVersion = 1

// ViewState maps node ids to opaque canvas payloads.
type ViewState struct {
	NodePositions  map[string]json.RawMessage `json:"nodePositions"`
	ContainerSizes map[string]json.RawMessage `json:"containerSizes"`
}

type SnapshotDocument struct {
	Version       int                `json:"version"`
	Nodes         []NodeDTO          `json:"nodes"`
	Edges         []EdgeDTO          `json:"edges"`
	DataObjects   []DataObjectDTO    `json:"dataObjects"`
	ComponentData []ComponentDataDTO `json:"componentData"`
	EdgeDataFlows []EdgeDataFlowDTO  `json:"edgeDataFlows"`
	State         ViewState          `json:"state"`
}

type CreateSnapshotRequest struct {
	Name  string    `json:"name" validate:"required"`
	State ViewState `json:"state"`
}

type SnapshotDTO struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"projectId"`
	Name        string     `json:"name"`
	CreatedByID *uuid.UUID `json:"createdById"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type RestoredCounts struct {
	Nodes         int `json:"nodes"`
	DataObjects   int `json:"dataObjects"`
	Edges         int `json:"edges"`
	ComponentData int `json:"componentData"`
	EdgeDataFlows int `json:"edgeDataFlows"`
}

type RestoreResponse struct {
	Restored RestoredCounts `json:"restored"`
	State    ViewState      `json:"state"`
	Warning  *string        `json:"warning"`
}
