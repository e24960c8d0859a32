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

package interchange

import (
	"fmt"
	"strings"
	"time"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/utils"
)

const propertyPrefix = "modelguard:"

func prop(name, value string) cyclonedx.Property {
	return cyclonedx.Property{Name: propertyPrefix + name, Value: value}
}

func optionalProp(props []cyclonedx.Property, name string, value *string) []cyclonedx.Property {
	if value == nil {
		return props
	}
	return append(props, prop(name, *value))
}

func cdxFlow(direction string) cyclonedx.DataFlow {
	switch direction {
	case "target_to_source":
		return cyclonedx.DataFlowInbound
	case "bidirectional":
		return cyclonedx.DataFlowBidirectional
	default:
		return cyclonedx.DataFlowOutbound
	}
}

// ToCycloneDX renders a bundle as a CycloneDX document for third party tooling.
// Nodes become components nested along the hierarchy, edges become services and data objects
// become data components. Every id and field without a CycloneDX counterpart is kept as a property.
// The transformation is one way, bundles are never read back from CycloneDX.
func ToCycloneDX(bundle dtos.ProjectBundle) *cyclonedx.BOM {
	bom := cyclonedx.NewBOM()
	bom.SpecVersion = cyclonedx.SpecVersion1_6
	bom.SerialNumber = fmt.Sprintf("urn:uuid:%s", bundle.Project.ID)

	projectProps := []cyclonedx.Property{
		prop("format", bundle.Format),
		prop("version", fmt.Sprintf("%d", bundle.Version)),
		prop("visibility", bundle.Project.Visibility),
	}
	for _, norm := range bundle.Project.Norms {
		projectProps = append(projectProps, prop("norm", norm))
	}
	bom.Metadata = &cyclonedx.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Component: &cyclonedx.Component{
			BOMRef:      bundle.Project.ID,
			Type:        cyclonedx.ComponentTypeApplication,
			Name:        bundle.Project.Name,
			Description: bundle.Project.Description,
			Properties:  &projectProps,
		},
	}

	bom.Components = utils.Ptr(append(nodeComponents(bundle), dataObjectComponents(bundle)...))
	bom.Services = utils.Ptr(edgeServices(bundle))
	bom.Dependencies = utils.Ptr(edgeDependencies(bundle))
	return bom
}

func nodeComponents(bundle dtos.ProjectBundle) []cyclonedx.Component {
	known := make(map[string]bool, len(bundle.Nodes))
	for _, n := range bundle.Nodes {
		known[n.ID] = true
	}

	children := make(map[string][]dtos.NodeDTO)
	roots := make([]dtos.NodeDTO, 0)
	for _, n := range bundle.Nodes {
		if n.ParentNodeID != nil && known[*n.ParentNodeID] && *n.ParentNodeID != n.ID {
			children[*n.ParentNodeID] = append(children[*n.ParentNodeID], n)
			continue
		}
		roots = append(roots, n)
	}

	dataByNode := make(map[string][]dtos.ComponentDataDTO)
	for _, l := range bundle.ComponentData {
		dataByNode[l.NodeID] = append(dataByNode[l.NodeID], l)
	}

	visited := make(map[string]bool)
	var build func(n dtos.NodeDTO) cyclonedx.Component
	build = func(n dtos.NodeDTO) cyclonedx.Component {
		visited[n.ID] = true
		props := []cyclonedx.Property{
			prop("id", n.ID),
			prop("stableId", n.StableID),
			prop("category", n.Category),
		}
		props = optionalProp(props, "parentNodeId", n.ParentNodeID)
		for _, l := range dataByNode[n.ID] {
			props = append(props, prop("componentData", fmt.Sprintf("%s:%s:%s", l.ID, l.DataObjectID, l.Role)))
		}

		typ := cyclonedx.ComponentTypeApplication
		if n.Category == "container" {
			typ = cyclonedx.ComponentTypeContainer
		}
		c := cyclonedx.Component{
			BOMRef:      n.ID,
			Type:        typ,
			Name:        n.Name,
			Description: n.Description,
			Properties:  &props,
		}
		nested := make([]cyclonedx.Component, 0)
		for _, child := range children[n.ID] {
			if visited[child.ID] {
				continue
			}
			nested = append(nested, build(child))
		}
		if len(nested) > 0 {
			c.Components = &nested
		}
		return c
	}

	res := make([]cyclonedx.Component, 0, len(bundle.Nodes))
	for _, root := range roots {
		res = append(res, build(root))
	}
	// nodes caught in a parent cycle are not reachable from a root
	for _, n := range bundle.Nodes {
		if !visited[n.ID] {
			res = append(res, build(n))
		}
	}
	return res
}

func dataObjectComponents(bundle dtos.ProjectBundle) []cyclonedx.Component {
	return utils.Map(bundle.DataObjects, func(o dtos.DataObjectDTO) cyclonedx.Component {
		props := []cyclonedx.Property{
			prop("id", o.ID),
			prop("classification", o.Classification),
			prop("confidentiality", fmt.Sprintf("%d", Rating(o.Confidentiality))),
			prop("integrity", fmt.Sprintf("%d", Rating(o.Integrity))),
			prop("availability", fmt.Sprintf("%d", Rating(o.Availability))),
		}
		return cyclonedx.Component{
			BOMRef:      o.ID,
			Type:        cyclonedx.ComponentTypeData,
			Name:        o.Name,
			Description: o.Description,
			Properties:  &props,
		}
	})
}

func edgeServices(bundle dtos.ProjectBundle) []cyclonedx.Service {
	classifications := make(map[string]string, len(bundle.DataObjects))
	for _, o := range bundle.DataObjects {
		classifications[o.ID] = o.Classification
	}
	flowsByEdge := make(map[string][]dtos.EdgeDataFlowDTO)
	for _, f := range bundle.EdgeDataFlows {
		flowsByEdge[f.EdgeID] = append(flowsByEdge[f.EdgeID], f)
	}

	return utils.Map(bundle.Edges, func(e dtos.EdgeDTO) cyclonedx.Service {
		props := []cyclonedx.Property{
			prop("id", e.ID),
			prop("sourceNodeId", e.SourceNodeID),
			prop("targetNodeId", e.TargetNodeID),
			prop("direction", e.Direction),
			prop("protocol", e.Protocol),
		}
		data := make([]cyclonedx.DataClassification, 0)
		for _, f := range flowsByEdge[e.ID] {
			props = append(props, prop("edgeDataFlow", fmt.Sprintf("%s:%s:%s", f.ID, f.DataObjectID, f.Direction)))
			data = append(data, cyclonedx.DataClassification{
				Flow:           cdxFlow(f.Direction),
				Classification: classifications[f.DataObjectID],
			})
		}
		name := e.Name
		if strings.TrimSpace(name) == "" {
			name = e.ID
		}
		s := cyclonedx.Service{
			BOMRef:     e.ID,
			Name:       name,
			Properties: &props,
		}
		if len(data) > 0 {
			s.Data = &data
		}
		return s
	})
}

func edgeDependencies(bundle dtos.ProjectBundle) []cyclonedx.Dependency {
	dependsOn := make(map[string][]string)
	order := make([]string, 0)
	for _, e := range bundle.Edges {
		if _, ok := dependsOn[e.SourceNodeID]; !ok {
			order = append(order, e.SourceNodeID)
		}
		dependsOn[e.SourceNodeID] = append(dependsOn[e.SourceNodeID], e.TargetNodeID)
	}

	return utils.Map(order, func(source string) cyclonedx.Dependency {
		targets := utils.UniqBy(dependsOn[source], func(s string) string { return s })
		return cyclonedx.Dependency{Ref: source, Dependencies: &targets}
	})
}
