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

// AssetRef points at a node, an edge or a data object of the same project.
type AssetRef struct {
	AssetType AssetType `json:"assetType" gorm:"type:text;not null"`
	AssetID   uuid.UUID `json:"assetId" gorm:"type:uuid;not null;index"`
}

func (a AssetRef) GetAssetRef() AssetRef {
	return a
}

type AssetValue struct {
	Model
	Audit
	AssetRef
	ProjectID     uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	Value         int       `json:"value" gorm:"not null;default:1"`
	Justification string    `json:"justification" gorm:"type:text"`
}

func (a AssetValue) TableName() string {
	return "asset_values"
}

type Question struct {
	Model
	AssetRef
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	Norm      string    `json:"norm" gorm:"type:text"`
	Text      string    `json:"text" gorm:"type:text;not null"`
}

func (q Question) TableName() string {
	return "questions"
}

type Answer struct {
	Model
	ProjectID  uuid.UUID  `json:"projectId" gorm:"type:uuid;not null;index"`
	QuestionID uuid.UUID  `json:"questionId" gorm:"type:uuid;not null;index"`
	AuthorID   *uuid.UUID `json:"authorId" gorm:"type:uuid"`
	Value      string     `json:"value" gorm:"type:text"`
}

func (a Answer) TableName() string {
	return "answers"
}

type FinalAnswer struct {
	Model
	Audit
	AssetRef
	ProjectID  uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	QuestionID uuid.UUID `json:"questionId" gorm:"type:uuid;not null;index"`
	Value      string    `json:"value" gorm:"type:text"`
}

func (f FinalAnswer) TableName() string {
	return "final_answers"
}

type Finding struct {
	Model
	Audit
	AssetRef
	ProjectID   uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Severity    string    `json:"severity" gorm:"type:text"`
}

func (f Finding) TableName() string {
	return "findings"
}

type Measure struct {
	Model
	Audit
	ProjectID   uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	FindingID   uuid.UUID `json:"findingId" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:text"`
}

func (m Measure) TableName() string {
	return "measures"
}

type Report struct {
	Model
	Audit
	ProjectID uuid.UUID      `json:"projectId" gorm:"type:uuid;not null;index"`
	Name      string         `json:"name" gorm:"type:text;not null"`
	Content   datatypes.JSON `json:"content" gorm:"type:jsonb"`
}

func (r Report) TableName() string {
	return "reports"
}
