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

	"github.com/CycloneDX/cyclonedx-go"
)

const (
	BundleFormat  = "modelguard-bundle"
	BundleVersion = 1

	ExportFormatNative    = "native"
	ExportFormatCycloneDX = "cyclonedx"
)

// All identifiers inside a bundle are plain strings. Bundles are untrusted input,
// an identifier is only meaningful through the lookup table of the operation reading it.

type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type ProjectMetaDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Norms       []string  `json:"norms"`
	Visibility  string    `json:"visibility"`
	CreatedBy   *string   `json:"createdBy,omitempty"`
	UpdatedBy   *string   `json:"updatedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MemberDTO struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type NodeDTO struct {
	ID           string  `json:"id"`
	StableID     string  `json:"stableId"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category"`
	ParentNodeID *string `json:"parentNodeId"`
	OriginID     *string `json:"originId,omitempty"`
	CreatedBy    *string `json:"createdBy,omitempty"`
	UpdatedBy    *string `json:"updatedBy,omitempty"`
}

type EdgeDTO struct {
	ID           string  `json:"id"`
	SourceNodeID string  `json:"sourceNodeId"`
	TargetNodeID string  `json:"targetNodeId"`
	Direction    string  `json:"direction"`
	Protocol     string  `json:"protocol"`
	Name         string  `json:"name"`
	OriginID     *string `json:"originId,omitempty"`
	CreatedBy    *string `json:"createdBy,omitempty"`
	UpdatedBy    *string `json:"updatedBy,omitempty"`
}

type DataObjectDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Classification  string  `json:"classification"`
	Confidentiality *int    `json:"confidentiality"`
	Integrity       *int    `json:"integrity"`
	Availability    *int    `json:"availability"`
	OriginID        *string `json:"originId,omitempty"`
	CreatedBy       *string `json:"createdBy,omitempty"`
	UpdatedBy       *string `json:"updatedBy,omitempty"`
}

type ComponentDataDTO struct {
	ID           string `json:"id"`
	NodeID       string `json:"nodeId"`
	DataObjectID string `json:"dataObjectId"`
	Role         string `json:"role"`
}

type EdgeDataFlowDTO struct {
	ID           string `json:"id"`
	EdgeID       string `json:"edgeId"`
	DataObjectID string `json:"dataObjectId"`
	Direction    string `json:"direction"`
}

type AssetValueDTO struct {
	ID            string  `json:"id"`
	AssetType     string  `json:"assetType"`
	AssetID       string  `json:"assetId"`
	Value         *int    `json:"value"`
	Justification string  `json:"justification,omitempty"`
	CreatedBy     *string `json:"createdBy,omitempty"`
	UpdatedBy     *string `json:"updatedBy,omitempty"`
}

type QuestionDTO struct {
	ID        string `json:"id"`
	AssetType string `json:"assetType"`
	AssetID   string `json:"assetId"`
	Norm      string `json:"norm"`
	Text      string `json:"text"`
}

type AnswerDTO struct {
	ID         string  `json:"id"`
	QuestionID string  `json:"questionId"`
	AuthorID   *string `json:"authorId,omitempty"`
	Value      string  `json:"value"`
}

type FinalAnswerDTO struct {
	ID         string  `json:"id"`
	QuestionID string  `json:"questionId"`
	AssetType  string  `json:"assetType"`
	AssetID    string  `json:"assetId"`
	Value      string  `json:"value"`
	CreatedBy  *string `json:"createdBy,omitempty"`
	UpdatedBy  *string `json:"updatedBy,omitempty"`
}

type FindingDTO struct {
	ID          string  `json:"id"`
	AssetType   string  `json:"assetType"`
	AssetID     string  `json:"assetId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Severity    string  `json:"severity"`
	CreatedBy   *string `json:"createdBy,omitempty"`
	UpdatedBy   *string `json:"updatedBy,omitempty"`
}

type MeasureDTO struct {
	ID          string  `json:"id"`
	FindingID   string  `json:"findingId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	CreatedBy   *string `json:"createdBy,omitempty"`
	UpdatedBy   *string `json:"updatedBy,omitempty"`
}

type ReportDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content,omitempty"`
	CreatedBy *string         `json:"createdBy,omitempty"`
	UpdatedBy *string         `json:"updatedBy,omitempty"`
}

// SavepointDTO carries a stored snapshot. The document is copied verbatim, its ids get
// remapped once the snapshot is restored.
type SavepointDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document"`
	CreatedBy *string         `json:"createdBy,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ProjectBundle struct {
	Format        string             `json:"format"`
	Version       int                `json:"version"`
	Project       ProjectMetaDTO     `json:"project"`
	Members       []MemberDTO        `json:"members"`
	Users         []UserDTO          `json:"users"`
	Nodes         []NodeDTO          `json:"nodes"`
	Edges         []EdgeDTO          `json:"edges"`
	DataObjects   []DataObjectDTO    `json:"dataObjects"`
	ComponentData []ComponentDataDTO `json:"componentData"`
	EdgeDataFlows []EdgeDataFlowDTO  `json:"edgeDataFlows"`
	AssetValues   []AssetValueDTO    `json:"assetValues"`
	Questions     []QuestionDTO      `json:"questions"`
	Answers       []AnswerDTO        `json:"answers"`
	FinalAnswers  []FinalAnswerDTO   `json:"finalAnswers"`
	Findings      []FindingDTO       `json:"findings"`
	Measures      []MeasureDTO       `json:"measures"`
	Reports       []ReportDTO        `json:"reports"`
	Savepoints    []SavepointDTO     `json:"savepoints"`
}

type ExportRequest struct {
	ProjectIDs []string `json:"projectIds" validate:"required,min=1,dive,uuid"`
	Format     string   `json:"format" validate:"omitempty,oneof=native cyclonedx"`
}

type ExportIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ExportError struct {
	ProjectID string `json:"projectId"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
}

type ExportResponse struct {
	Format     string           `json:"format"`
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	ExportedBy ExportIdentity   `json:"exportedBy"`
	Projects   []ProjectBundle  `json:"projects,omitempty"`
	Documents  []*cyclonedx.BOM `json:"documents,omitempty"`
	Errors     []ExportError    `json:"errors"`
}

type ImportRequest struct {
	Format   string            `json:"format" validate:"required"`
	Version  int               `json:"version" validate:"gte=0"`
	Projects []json.RawMessage `json:"projects" validate:"required,min=1"`
}

type ImportedProject struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Warning *string `json:"warning,omitempty"`
}

type FailedProject struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type ImportResponse struct {
	ImportedCount    int               `json:"importedCount"`
	FailedCount      int               `json:"failedCount"`
	ImportedProjects []ImportedProject `json:"importedProjects"`
	FailedProjects   []FailedProject   `json:"failedProjects"`
}
