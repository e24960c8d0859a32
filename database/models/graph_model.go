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

import "github.com/google/uuid"

type ModelNode struct {
	Model
	Audit
	ProjectID    uuid.UUID    `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_node_project_stable_id"`
	StableID     string       `json:"stableId" gorm:"type:text;not null;uniqueIndex:idx_node_project_stable_id"`
	Name         string       `json:"name" gorm:"type:text;not null"`
	Description  string       `json:"description" gorm:"type:text"`
	Category     NodeCategory `json:"category" gorm:"type:text;not null;default:'component'"`
	ParentNodeID *uuid.UUID   `json:"parentNodeId" gorm:"type:uuid;index"`
	OriginID     *string      `json:"originId,omitempty" gorm:"type:text"`
}

func (n ModelNode) TableName() string {
	return "model_nodes"
}

func (n ModelNode) LineageKey() string {
	return LineageKey(n.ID.String(), n.OriginID)
}

func (n ModelNode) IsContainer() bool {
	return n.Category == NodeCategoryContainer
}

type ModelEdge struct {
	Model
	Audit
	ProjectID    uuid.UUID     `json:"projectId" gorm:"type:uuid;not null;index"`
	SourceNodeID uuid.UUID     `json:"sourceNodeId" gorm:"type:uuid;not null"`
	TargetNodeID uuid.UUID     `json:"targetNodeId" gorm:"type:uuid;not null"`
	Direction    EdgeDirection `json:"direction" gorm:"type:text;not null;default:'a_to_b'"`
	Protocol     string        `json:"protocol" gorm:"type:text"`
	Name         string        `json:"name" gorm:"type:text"`
	OriginID     *string       `json:"originId,omitempty" gorm:"type:text"`
}

func (e ModelEdge) TableName() string {
	return "model_edges"
}

func (e ModelEdge) LineageKey() string {
	return LineageKey(e.ID.String(), e.OriginID)
}

type DataObject struct {
	Model
	Audit
	ProjectID       uuid.UUID          `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_data_object_project_name"`
	Name            string             `json:"name" gorm:"type:text;not null;uniqueIndex:idx_data_object_project_name"`
	Description     string             `json:"description" gorm:"type:text"`
	Classification  DataClassification `json:"classification" gorm:"type:text;not null;default:'internal'"`
	Confidentiality int                `json:"confidentiality" gorm:"not null;default:1"`
	Integrity       int                `json:"integrity" gorm:"not null;default:1"`
	Availability    int                `json:"availability" gorm:"not null;default:1"`
	OriginID        *string            `json:"originId,omitempty" gorm:"type:text"`
}

func (d DataObject) TableName() string {
	return "data_objects"
}

func (d DataObject) LineageKey() string {
	return LineageKey(d.ID.String(), d.OriginID)
}

// LineageKey identifies a graph entity across the copies restores and imports make of it.
// An entity that was never copied is its own origin.
func LineageKey(id string, originID *string) string {
	if originID != nil && *originID != "" {
		return *originID
	}
	return id
}

type ComponentDataLink struct {
	Model
	ProjectID    uuid.UUID         `json:"projectId" gorm:"type:uuid;not null;index"`
	NodeID       uuid.UUID         `json:"nodeId" gorm:"type:uuid;not null;uniqueIndex:idx_component_data_pair"`
	DataObjectID uuid.UUID         `json:"dataObjectId" gorm:"type:uuid;not null;uniqueIndex:idx_component_data_pair"`
	Role         ComponentDataRole `json:"role" gorm:"type:text;not null;default:'processes'"`
}

func (l ComponentDataLink) TableName() string {
	return "component_data_links"
}

type EdgeDataFlowLink struct {
	Model
	ProjectID    uuid.UUID     `json:"projectId" gorm:"type:uuid;not null;index"`
	EdgeID       uuid.UUID     `json:"edgeId" gorm:"type:uuid;not null;uniqueIndex:idx_edge_data_flow_pair"`
	DataObjectID uuid.UUID     `json:"dataObjectId" gorm:"type:uuid;not null;uniqueIndex:idx_edge_data_flow_pair"`
	Direction    FlowDirection `json:"direction" gorm:"type:text;not null;default:'source_to_target'"`
}

func (l EdgeDataFlowLink) TableName() string {
	return "edge_data_flow_links"
}
