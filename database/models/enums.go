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

import "strings"

type NodeCategory string

const (
	NodeCategoryContainer NodeCategory = "container"
	NodeCategoryComponent NodeCategory = "component"
)

type EdgeDirection string

const (
	EdgeDirectionAToB          EdgeDirection = "a_to_b"
	EdgeDirectionBToA          EdgeDirection = "b_to_a"
	EdgeDirectionBidirectional EdgeDirection = "bidirectional"
)

type DataClassification string

const (
	ClassificationPublic       DataClassification = "public"
	ClassificationInternal     DataClassification = "internal"
	ClassificationConfidential DataClassification = "confidential"
	ClassificationSecret       DataClassification = "secret"
)

type ComponentDataRole string

const (
	ComponentDataRoleStores    ComponentDataRole = "stores"
	ComponentDataRoleProcesses ComponentDataRole = "processes"
	ComponentDataRoleGenerates ComponentDataRole = "generates"
	ComponentDataRoleReceives  ComponentDataRole = "receives"
)

type FlowDirection string

const (
	FlowDirectionSourceToTarget FlowDirection = "source_to_target"
	FlowDirectionTargetToSource FlowDirection = "target_to_source"
	FlowDirectionBidirectional  FlowDirection = "bidirectional"
)

type MembershipRole string

const (
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleEditor MembershipRole = "editor"
	MembershipRoleViewer MembershipRole = "viewer"
)

type Visibility string

const (
	VisibilityAny        Visibility = "any"
	VisibilityViewerPlus Visibility = "viewer-plus"
	VisibilityEditorPlus Visibility = "editor-plus"
	VisibilityAdminOnly  Visibility = "admin-only"
	VisibilityPrivate    Visibility = "private"
)

type AssetType string

const (
	AssetTypeComponent  AssetType = "component"
	AssetTypeInterface  AssetType = "interface"
	AssetTypeDataObject AssetType = "data_object"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// normalizeEnum lower-cases the value and folds separators, so "A-To-B" and "a_to_b" match.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func ParseNodeCategory(s string) NodeCategory {
	if normalizeEnum(s) == string(NodeCategoryContainer) {
		return NodeCategoryContainer
	}
	return NodeCategoryComponent
}

func ParseEdgeDirection(s string) EdgeDirection {
	switch normalizeEnum(s) {
	case string(EdgeDirectionBToA):
		return EdgeDirectionBToA
	case string(EdgeDirectionBidirectional):
		return EdgeDirectionBidirectional
	}
	return EdgeDirectionAToB
}

func ParseDataClassification(s string) DataClassification {
	switch c := DataClassification(normalizeEnum(s)); c {
	case ClassificationPublic, ClassificationConfidential, ClassificationSecret:
		return c
	}
	return ClassificationInternal
}

func ParseComponentDataRole(s string) ComponentDataRole {
	switch r := ComponentDataRole(normalizeEnum(s)); r {
	case ComponentDataRoleStores, ComponentDataRoleGenerates, ComponentDataRoleReceives:
		return r
	}
	return ComponentDataRoleProcesses
}

func ParseFlowDirection(s string) FlowDirection {
	switch d := FlowDirection(normalizeEnum(s)); d {
	case FlowDirectionTargetToSource, FlowDirectionBidirectional:
		return d
	}
	return FlowDirectionSourceToTarget
}

func ParseMembershipRole(s string) MembershipRole {
	switch r := MembershipRole(normalizeEnum(s)); r {
	case MembershipRoleAdmin, MembershipRoleEditor:
		return r
	}
	return MembershipRoleViewer
}

func ParseVisibility(s string) Visibility {
	// visibility values use dashes on the wire
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case VisibilityAny, VisibilityViewerPlus, VisibilityEditorPlus, VisibilityAdminOnly:
		return v
	}
	return VisibilityPrivate
}

// ParseAssetType reports false for unknown asset types, there is no sensible default.
func ParseAssetType(s string) (AssetType, bool) {
	switch t := AssetType(normalizeEnum(s)); t {
	case AssetTypeComponent, AssetTypeInterface, AssetTypeDataObject:
		return t, true
	}
	return "", false
}

// Rank orders membership roles, higher means more permissions.
func (r MembershipRole) Rank() int {
	switch r {
	case MembershipRoleAdmin:
		return 3
	case MembershipRoleEditor:
		return 2
	case MembershipRoleViewer:
		return 1
	}
	return 0
}
