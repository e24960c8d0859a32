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

	"github.com/google/uuid"
)

type Kind string

const (
	KindNode          Kind = "node"
	KindEdge          Kind = "edge"
	KindDataObject    Kind = "data_object"
	KindComponentData Kind = "component_data"
	KindEdgeDataFlow  Kind = "edge_data_flow"
	KindAssetValue    Kind = "asset_value"
	KindQuestion      Kind = "question"
	KindAnswer        Kind = "answer"
	KindFinalAnswer   Kind = "final_answer"
	KindFinding       Kind = "finding"
	KindMeasure       Kind = "measure"
	KindReport        Kind = "report"
	KindSnapshot      Kind = "snapshot"

	// only used for tallies
	KindParent Kind = "parent"
	KindMember Kind = "member"
)

// Remapper hands out fresh identifiers for externally supplied ones and remembers the mapping.
// A Remapper belongs to exactly one import or restore and must not be shared.
//
// Identifiers are derived with uuid.NewSHA1 from a namespace drawn once per operation, so the same
// old id always yields the same new id within one run while two runs never collide.
type Remapper struct {
	namespace uuid.UUID
	tables    map[Kind]map[string]uuid.UUID
	allocated map[uuid.UUID]struct{}
}

func NewRemapper() *Remapper {
	return &Remapper{
		namespace: uuid.New(),
		tables:    make(map[Kind]map[string]uuid.UUID),
		allocated: make(map[uuid.UUID]struct{}),
	}
}

// Allocate returns a new identifier for oldID. Missing or already seen old ids get an identifier
// synthesized from kind and index. The first allocation of an old id wins the lookup entry.
func (r *Remapper) Allocate(oldID string, kind Kind, index int) uuid.UUID {
	table, ok := r.tables[kind]
	if !ok {
		table = make(map[string]uuid.UUID)
		r.tables[kind] = table
	}

	_, seen := table[oldID]
	var base string
	if oldID != "" && !seen {
		base = fmt.Sprintf("%s:%s", kind, oldID)
	} else {
		base = fmt.Sprintf("%s#%d", kind, index)
	}

	candidate := uuid.NewSHA1(r.namespace, []byte(base))
	for nonce := 1; r.isAllocated(candidate); nonce++ {
		candidate = uuid.NewSHA1(r.namespace, fmt.Appendf(nil, "%s/%d", base, nonce))
	}
	r.allocated[candidate] = struct{}{}

	if oldID != "" && !seen {
		table[oldID] = candidate
	}
	return candidate
}

func (r *Remapper) isAllocated(id uuid.UUID) bool {
	_, ok := r.allocated[id]
	return ok
}

// Resolve looks up the identifier allocated for oldID.
func (r *Remapper) Resolve(kind Kind, oldID string) (uuid.UUID, bool) {
	if oldID == "" {
		return uuid.Nil, false
	}
	id, ok := r.tables[kind][oldID]
	return id, ok
}

// ResolvePtr resolves optional references. The second value is false if a reference was
// given but could not be resolved.
func (r *Remapper) ResolvePtr(kind Kind, oldID *string) (*uuid.UUID, bool) {
	if oldID == nil || *oldID == "" {
		return nil, true
	}
	id, ok := r.Resolve(kind, *oldID)
	if !ok {
		return nil, false
	}
	return &id, true
}

// Mapping returns a copy of the lookup table of one kind.
func (r *Remapper) Mapping(kind Kind) map[string]uuid.UUID {
	res := make(map[string]uuid.UUID, len(r.tables[kind]))
	for k, v := range r.tables[kind] {
		res[k] = v
	}
	return res
}
