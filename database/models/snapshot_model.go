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

package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Snapshot is an immutable copy of a project's graph plus its canvas state.
// Document holds the serialized snapshot, see interchange.SnapshotDocument.
type Snapshot struct {
	Model
	ProjectID   uuid.UUID      `json:"projectId" gorm:"type:uuid;not null;index"`
	CreatedByID *uuid.UUID     `json:"createdById" gorm:"type:uuid"`
	Name        string         `json:"name" gorm:"type:text;not null"`
	Document    datatypes.JSON `json:"document" gorm:"type:jsonb;not null"`
}

func (s Snapshot) TableName() string {
	return "snapshots"
}

// AllModels lists every table in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Project{},
		&Membership{},
		&ModelNode{},
		&ModelEdge{},
		&DataObject{},
		&ComponentDataLink{},
		&EdgeDataFlowLink{},
		&AssetValue{},
		&Question{},
		&Answer{},
		&FinalAnswer{},
		&Finding{},
		&Measure{},
		&Report{},
		&Snapshot{},
		&Config{},
	}
}
