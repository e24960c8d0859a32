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
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed snapshot_schema.json
var snapshotSchemaJSON []byte

const snapshotSchemaURL = "https://modelguard.l3montree.com/schemas/snapshot.json"

var (
	snapshotSchemaOnce sync.Once
	snapshotSchema     *jsonschema.Schema
	snapshotSchemaErr  error
)

func compileSnapshotSchema() (*jsonschema.Schema, error) {
	snapshotSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(snapshotSchemaJSON))
		if err != nil {
			snapshotSchemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(snapshotSchemaURL, doc); err != nil {
			snapshotSchemaErr = err
			return
		}
		snapshotSchema, snapshotSchemaErr = compiler.Compile(snapshotSchemaURL)
	})
	return snapshotSchema, snapshotSchemaErr
}

// ParseSnapshot validates a stored snapshot document and decodes it.
// Every failure is wrapped in ErrCorruptedSnapshot.
func ParseSnapshot(raw []byte) (dtos.SnapshotDocument, error) {
	schema, err := compileSnapshotSchema()
	if err != nil {
		return dtos.SnapshotDocument{}, errors.Wrap(err, "could not compile snapshot schema")
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return dtos.SnapshotDocument{}, errors.Wrap(ErrCorruptedSnapshot, err.Error())
	}
	if err := schema.Validate(inst); err != nil {
		return dtos.SnapshotDocument{}, errors.Wrap(ErrCorruptedSnapshot, err.Error())
	}

	var doc dtos.SnapshotDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dtos.SnapshotDocument{}, errors.Wrap(ErrCorruptedSnapshot, err.Error())
	}
	if doc.State.NodePositions == nil {
		doc.State.NodePositions = map[string]json.RawMessage{}
	}
	if doc.State.ContainerSizes == nil {
		doc.State.ContainerSizes = map[string]json.RawMessage{}
	}
	return doc, nil
}

// RemapViewState carries canvas entries over to the restored node ids.
// Entries of nodes which did not survive are dropped.
func RemapViewState(state dtos.ViewState, remapper *Remapper) dtos.ViewState {
	res := dtos.ViewState{
		NodePositions:  make(map[string]json.RawMessage, len(state.NodePositions)),
		ContainerSizes: make(map[string]json.RawMessage, len(state.ContainerSizes)),
	}
	for oldID, pos := range state.NodePositions {
		if id, ok := remapper.Resolve(KindNode, oldID); ok {
			res.NodePositions[id.String()] = pos
		}
	}
	for oldID, size := range state.ContainerSizes {
		if id, ok := remapper.Resolve(KindNode, oldID); ok {
			res.ContainerSizes[id.String()] = size
		}
	}
	return res
}

// RemapSnapshotDocument rewrites the ids inside a snapshot document to the ids allocated by remapper.
// Ids without a mapping are kept as they are, restore treats them like any other snapshot-local id.
// Nodes, edges and data objects keep their lineage key, so the document still matches the entities
// the same remapper created.
func RemapSnapshotDocument(doc dtos.SnapshotDocument, remapper *Remapper) dtos.SnapshotDocument {
	remap := func(kind Kind, id string) string {
		if newID, ok := remapper.Resolve(kind, id); ok {
			return newID.String()
		}
		return id
	}
	remapState := func(m map[string]json.RawMessage) map[string]json.RawMessage {
		res := make(map[string]json.RawMessage, len(m))
		for id, v := range m {
			res[remap(KindNode, id)] = v
		}
		return res
	}

	return dtos.SnapshotDocument{
		Version: doc.Version,
		Nodes: utils.Map(doc.Nodes, func(n dtos.NodeDTO) dtos.NodeDTO {
			n.OriginID = OriginOf(n.ID, n.OriginID)
			n.ID = remap(KindNode, n.ID)
			if n.ParentNodeID != nil {
				n.ParentNodeID = utils.Ptr(remap(KindNode, *n.ParentNodeID))
			}
			return n
		}),
		Edges: utils.Map(doc.Edges, func(e dtos.EdgeDTO) dtos.EdgeDTO {
			e.OriginID = OriginOf(e.ID, e.OriginID)
			e.ID = remap(KindEdge, e.ID)
			e.SourceNodeID = remap(KindNode, e.SourceNodeID)
			e.TargetNodeID = remap(KindNode, e.TargetNodeID)
			return e
		}),
		DataObjects: utils.Map(doc.DataObjects, func(o dtos.DataObjectDTO) dtos.DataObjectDTO {
			o.OriginID = OriginOf(o.ID, o.OriginID)
			o.ID = remap(KindDataObject, o.ID)
			return o
		}),
		ComponentData: utils.Map(doc.ComponentData, func(l dtos.ComponentDataDTO) dtos.ComponentDataDTO {
			l.ID = remap(KindComponentData, l.ID)
			l.NodeID = remap(KindNode, l.NodeID)
			l.DataObjectID = remap(KindDataObject, l.DataObjectID)
			return l
		}),
		EdgeDataFlows: utils.Map(doc.EdgeDataFlows, func(l dtos.EdgeDataFlowDTO) dtos.EdgeDataFlowDTO {
			l.ID = remap(KindEdgeDataFlow, l.ID)
			l.EdgeID = remap(KindEdge, l.EdgeID)
			l.DataObjectID = remap(KindDataObject, l.DataObjectID)
			return l
		}),
		State: dtos.ViewState{
			NodePositions:  remapState(doc.State.NodePositions),
			ContainerSizes: remapState(doc.State.ContainerSizes),
		},
	}
}
