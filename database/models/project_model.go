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
	"gorm.io/gorm"
)

type Project struct {
	Model
	Audit
	Name        string                      `json:"name" gorm:"type:text;not null"`
	Description string                      `json:"description" gorm:"type:text"`
	Norms       datatypes.JSONSlice[string] `json:"norms" gorm:"type:jsonb"`
	Visibility  Visibility                  `json:"visibility" gorm:"type:text;not null;default:'private'"`
	DeletedAt   gorm.DeletedAt              `json:"deletedAt" gorm:"index"`
}

func (p Project) TableName() string {
	return "projects"
}

func (p Project) IsTrashed() bool {
	return p.DeletedAt.Valid
}

// Membership rows are ordered by creation time. The earliest one belongs to the creator.
type Membership struct {
	Model
	ProjectID uuid.UUID      `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_membership_project_user"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_membership_project_user"`
	Role      MembershipRole `json:"role" gorm:"type:text;not null"`
}

func (m Membership) TableName() string {
	return "memberships"
}
