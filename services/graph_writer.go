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
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/interchange"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
)

// auditFunc turns the audit references of an incoming entity into the audit fields of the created row.
type auditFunc func(createdBy, updatedBy *string) models.Audit

// graphWriter materializes a canonical graph into one project inside an open transaction.
// Every reference is resolved through the remapper, everything that does not resolve is skipped and tallied.
type graphWriter struct {
	store     shared.ProjectStore
	tx        shared.DB
	projectID uuid.UUID
	operation string

	remapper  *interchange.Remapper
	lineage   *interchange.Lineage
	tally     *interchange.Tally
	audit     auditFunc
	hierarchy *interchange.Hierarchy

	stableIDs *interchange.NaturalKeys
	names     *interchange.NaturalKeys

	// new ids in input order, duplicated old ids cannot be resolved through the remapper
	nodeIDs []uuid.UUID
	// nodes which are containers, by new id
	containers map[uuid.UUID]bool
}

func newGraphWriter(store shared.ProjectStore, tx shared.DB, projectID uuid.UUID, operation string, remapper *interchange.Remapper, tally *interchange.Tally, audit auditFunc) (*graphWriter, error) {
	existingNodes, err := store.Nodes.FindByProject(tx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "could not load existing nodes")
	}
	existingDataObjects, err := store.DataObjects.FindByProject(tx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "could not load existing data objects")
	}

	w := &graphWriter{
		store:      store,
		tx:         tx,
		projectID:  projectID,
		operation:  operation,
		remapper:   remapper,
		lineage:    interchange.NewLineage(),
		tally:      tally,
		audit:      audit,
		hierarchy:  interchange.NewHierarchy(),
		containers: make(map[uuid.UUID]bool),
	}

	stableIDs := make([]string, 0, len(existingNodes))
	for _, n := range existingNodes {
		stableIDs = append(stableIDs, n.StableID)
		w.hierarchy.Add(n.ID, n.IsContainer(), n.ParentNodeID)
		w.containers[n.ID] = n.IsContainer()
	}
	names := make([]string, 0, len(existingDataObjects))
	for _, o := range existingDataObjects {
		names = append(names, o.Name)
	}
	w.stableIDs = interchange.NewStableIDKeys(stableIDs...)
	w.names = interchange.NewNameKeys(names...)
	return w, nil
}

func (w *graphWriter) skip(kind interchange.Kind, reason string, oldID string) {
	w.tally.Skip(kind, reason)
	slog.Warn("skipping entity", "operation", w.operation, "projectID", w.projectID, "kind", kind, "id", oldID, "reason", reason)
}

// writeGraph creates nodes, data objects, parent links, edges and both link kinds, in that order.
func (w *graphWriter) writeGraph(nodes []dtos.NodeDTO, edges []dtos.EdgeDTO, dataObjects []dtos.DataObjectDTO, componentData []dtos.ComponentDataDTO, edgeDataFlows []dtos.EdgeDataFlowDTO) error {
	if err := w.writeNodes(nodes); err != nil {
		return err
	}
	if err := w.assignParents(nodes); err != nil {
		return err
	}
	if err := w.writeDataObjects(dataObjects); err != nil {
		return err
	}
	if err := w.writeEdges(edges); err != nil {
		return err
	}
	if err := w.writeComponentData(componentData); err != nil {
		return err
	}
	return w.writeEdgeDataFlows(edgeDataFlows)
}

func (w *graphWriter) writeNodes(nodes []dtos.NodeDTO) error {
	rows := make([]models.ModelNode, 0, len(nodes))
	w.nodeIDs = make([]uuid.UUID, 0, len(nodes))
	for i, n := range nodes {
		id := w.remapper.Allocate(n.ID, interchange.KindNode, i)
		stableID := w.stableIDs.Claim(n.StableID, fmt.Sprintf("node-%d", i+1))
		name := n.Name
		if name == "" {
			name = stableID
		}
		category := models.ParseNodeCategory(n.Category)
		origin := w.recordLineage(interchange.KindNode, n.ID, n.OriginID, id)

		rows = append(rows, models.ModelNode{
			Model:       models.Model{ID: id},
			Audit:       w.audit(n.CreatedBy, n.UpdatedBy),
			ProjectID:   w.projectID,
			StableID:    stableID,
			Name:        name,
			Description: n.Description,
			Category:    category,
			OriginID:    origin,
		})
		w.nodeIDs = append(w.nodeIDs, id)
		w.hierarchy.Add(id, category == models.NodeCategoryContainer, nil)
		w.containers[id] = category == models.NodeCategoryContainer
	}

	if err := w.store.Nodes.CreateBatch(w.tx, rows); err != nil {
		return errors.Wrap(err, "could not create nodes")
	}
	for range rows {
		w.tally.Create(interchange.KindNode)
	}
	return nil
}

// assignParents runs after every node exists. Assignments are applied in input order, an assignment
// that would close a cycle with an earlier one is the one that gets skipped.
func (w *graphWriter) assignParents(nodes []dtos.NodeDTO) error {
	for i, n := range nodes {
		if n.ParentNodeID == nil || *n.ParentNodeID == "" {
			continue
		}
		nodeID := w.nodeIDs[i]
		parentID, ok := w.remapper.Resolve(interchange.KindNode, *n.ParentNodeID)
		if !ok {
			w.skip(interchange.KindParent, interchange.ReasonUnresolved, n.ID)
			continue
		}

		if err := w.hierarchy.Assign(nodeID, &parentID); err != nil {
			switch {
			case errors.Is(err, interchange.ErrParentNotContainer):
				w.skip(interchange.KindParent, interchange.ReasonNotContainer, n.ID)
			case errors.Is(err, interchange.ErrCycle):
				w.skip(interchange.KindParent, interchange.ReasonCycle, n.ID)
			default:
				w.skip(interchange.KindParent, interchange.ReasonUnresolved, n.ID)
			}
			continue
		}

		updatedBy := w.audit(n.CreatedBy, n.UpdatedBy).UpdatedByID
		if err := w.store.Nodes.UpdateParent(w.tx, nodeID, &parentID, updatedBy); err != nil {
			return errors.Wrap(err, "could not assign parent node")
		}
		w.tally.Create(interchange.KindParent)
	}
	return nil
}

func (w *graphWriter) writeDataObjects(dataObjects []dtos.DataObjectDTO) error {
	rows := make([]models.DataObject, 0, len(dataObjects))
	for i, o := range dataObjects {
		id := w.remapper.Allocate(o.ID, interchange.KindDataObject, i)
		rows = append(rows, models.DataObject{
			Model:           models.Model{ID: id},
			Audit:           w.audit(o.CreatedBy, o.UpdatedBy),
			ProjectID:       w.projectID,
			Name:            w.names.Claim(o.Name, fmt.Sprintf("Data object %d", i+1)),
			Description:     o.Description,
			Classification:  models.ParseDataClassification(o.Classification),
			Confidentiality: interchange.Rating(o.Confidentiality),
			Integrity:       interchange.Rating(o.Integrity),
			Availability:    interchange.Rating(o.Availability),
			OriginID:        w.recordLineage(interchange.KindDataObject, o.ID, o.OriginID, id),
		})
	}

	if err := w.store.DataObjects.CreateBatch(w.tx, rows); err != nil {
		return errors.Wrap(err, "could not create data objects")
	}
	for range rows {
		w.tally.Create(interchange.KindDataObject)
	}
	return nil
}

type nodePair struct {
	source uuid.UUID
	target uuid.UUID
}

func (w *graphWriter) writeEdges(edges []dtos.EdgeDTO) error {
	rows := make([]models.ModelEdge, 0, len(edges))
	seen := make(map[nodePair]struct{}, len(edges))
	for i, e := range edges {
		source, okSource := w.remapper.Resolve(interchange.KindNode, e.SourceNodeID)
		target, okTarget := w.remapper.Resolve(interchange.KindNode, e.TargetNodeID)
		if !okSource || !okTarget {
			w.skip(interchange.KindEdge, interchange.ReasonUnresolved, e.ID)
			continue
		}
		if source == target {
			w.skip(interchange.KindEdge, interchange.ReasonSelfLoop, e.ID)
			continue
		}
		pair := nodePair{source: source, target: target}
		if _, ok := seen[pair]; ok {
			w.skip(interchange.KindEdge, interchange.ReasonDuplicate, e.ID)
			continue
		}
		seen[pair] = struct{}{}

		// only created edges get an id, so links to skipped edges do not resolve
		id := w.remapper.Allocate(e.ID, interchange.KindEdge, i)
		rows = append(rows, models.ModelEdge{
			Model:        models.Model{ID: id},
			Audit:        w.audit(e.CreatedBy, e.UpdatedBy),
			ProjectID:    w.projectID,
			SourceNodeID: source,
			TargetNodeID: target,
			Direction:    models.ParseEdgeDirection(e.Direction),
			Protocol:     e.Protocol,
			Name:         e.Name,
			OriginID:     w.recordLineage(interchange.KindEdge, e.ID, e.OriginID, id),
		})
	}

	if err := w.store.Edges.CreateBatch(w.tx, rows); err != nil {
		return errors.Wrap(err, "could not create edges")
	}
	for range rows {
		w.tally.Create(interchange.KindEdge)
	}
	return nil
}

type linkPair struct {
	owner      uuid.UUID
	dataObject uuid.UUID
}

func (w *graphWriter) writeComponentData(links []dtos.ComponentDataDTO) error {
	rows := make([]models.ComponentDataLink, 0, len(links))
	seen := make(map[linkPair]struct{}, len(links))
	for i, l := range links {
		nodeID, okNode := w.remapper.Resolve(interchange.KindNode, l.NodeID)
		dataObjectID, okDataObject := w.remapper.Resolve(interchange.KindDataObject, l.DataObjectID)
		if !okNode || !okDataObject {
			w.skip(interchange.KindComponentData, interchange.ReasonUnresolved, l.ID)
			continue
		}
		if w.containers[nodeID] {
			w.skip(interchange.KindComponentData, interchange.ReasonContainerNode, l.ID)
			continue
		}
		pair := linkPair{owner: nodeID, dataObject: dataObjectID}
		if _, ok := seen[pair]; ok {
			w.skip(interchange.KindComponentData, interchange.ReasonDuplicate, l.ID)
			continue
		}
		seen[pair] = struct{}{}

		rows = append(rows, models.ComponentDataLink{
			Model:        models.Model{ID: w.remapper.Allocate(l.ID, interchange.KindComponentData, i)},
			ProjectID:    w.projectID,
			NodeID:       nodeID,
			DataObjectID: dataObjectID,
			Role:         models.ParseComponentDataRole(l.Role),
		})
	}

	if err := w.store.ComponentData.CreateBatch(w.tx, rows); err != nil {
		return errors.Wrap(err, "could not create component data mappings")
	}
	for range rows {
		w.tally.Create(interchange.KindComponentData)
	}
	return nil
}

func (w *graphWriter) writeEdgeDataFlows(links []dtos.EdgeDataFlowDTO) error {
	rows := make([]models.EdgeDataFlowLink, 0, len(links))
	seen := make(map[linkPair]struct{}, len(links))
	for i, l := range links {
		edgeID, okEdge := w.remapper.Resolve(interchange.KindEdge, l.EdgeID)
		dataObjectID, okDataObject := w.remapper.Resolve(interchange.KindDataObject, l.DataObjectID)
		if !okEdge || !okDataObject {
			w.skip(interchange.KindEdgeDataFlow, interchange.ReasonUnresolved, l.ID)
			continue
		}
		pair := linkPair{owner: edgeID, dataObject: dataObjectID}
		if _, ok := seen[pair]; ok {
			w.skip(interchange.KindEdgeDataFlow, interchange.ReasonDuplicate, l.ID)
			continue
		}
		seen[pair] = struct{}{}

		rows = append(rows, models.EdgeDataFlowLink{
			Model:        models.Model{ID: w.remapper.Allocate(l.ID, interchange.KindEdgeDataFlow, i)},
			ProjectID:    w.projectID,
			EdgeID:       edgeID,
			DataObjectID: dataObjectID,
			Direction:    models.ParseFlowDirection(l.Direction),
		})
	}

	if err := w.store.EdgeDataFlows.CreateBatch(w.tx, rows); err != nil {
		return errors.Wrap(err, "could not create edge data flow mappings")
	}
	for range rows {
		w.tally.Create(interchange.KindEdgeDataFlow)
	}
	return nil
}

// recordLineage returns the origin of the written entity and remembers it as the current copy of that origin.
func (w *graphWriter) recordLineage(kind interchange.Kind, oldID string, originID *string, id uuid.UUID) *string {
	origin := interchange.OriginOf(oldID, originID)
	if origin != nil {
		w.lineage.Record(kind, *origin, id)
	}
	return origin
}

// assetRef resolves an incoming (assetType, assetId) pair against the entities created by this writer.
func (w *graphWriter) assetRef(assetType, assetID string) (models.AssetRef, string, bool) {
	t, kind, ok := interchange.AssetKind(assetType)
	if !ok {
		return models.AssetRef{}, interchange.ReasonUnknownAssetType, false
	}
	id, ok := w.remapper.Resolve(kind, assetID)
	if !ok {
		return models.AssetRef{}, interchange.ReasonUnresolved, false
	}
	return models.AssetRef{AssetType: t, AssetID: id}, "", true
}

func (w *graphWriter) counts() dtos.RestoredCounts {
	return dtos.RestoredCounts{
		Nodes:         w.tally.Created(interchange.KindNode),
		DataObjects:   w.tally.Created(interchange.KindDataObject),
		Edges:         w.tally.Created(interchange.KindEdge),
		ComponentData: w.tally.Created(interchange.KindComponentData),
		EdgeDataFlows: w.tally.Created(interchange.KindEdgeDataFlow),
	}
}
