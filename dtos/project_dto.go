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
	"time"

	"github.com/google/uuid"
)

type ProjectCreateRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Norms       []string `json:"norms"`
	Visibility  string   `json:"visibility" validate:"omitempty,oneof=any viewer-plus editor-plus admin-only private"`
}

type SetParentRequest struct {
	// nil detaches the node from its parent
	ParentNodeID *uuid.UUID `json:"parentNodeId"`
}

type ProjectDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Norms       []string   `json:"norms"`
	Visibility  string     `json:"visibility"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}
