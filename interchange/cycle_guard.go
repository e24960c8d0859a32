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

import "github.com/google/uuid"

// WouldCreateCycle walks the ancestor chain of candidateParentID and reports whether nodeID is part of it.
// parentOf returns nil for root nodes. A chain that revisits a node is treated as a cycle as well.
func WouldCreateCycle(nodeID, candidateParentID uuid.UUID, parentOf func(uuid.UUID) *uuid.UUID) bool {
	if nodeID == candidateParentID {
		return true
	}

	visited := make(map[uuid.UUID]struct{})
	current := &candidateParentID
	for current != nil {
		if *current == nodeID {
			return true
		}
		if _, ok := visited[*current]; ok {
			return true
		}
		visited[*current] = struct{}{}
		current = parentOf(*current)
	}
	return false
}

type hierarchyNode struct {
	container bool
	parent    *uuid.UUID
}

// Hierarchy is an arena of the nodes of one project keyed by id.
// Every parent assignment goes through Assign, which keeps the parent graph a forest.
type Hierarchy struct {
	nodes map[uuid.UUID]*hierarchyNode
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{nodes: make(map[uuid.UUID]*hierarchyNode)}
}

// Add registers a node. The parent is taken as is, use Assign to validate it.
func (h *Hierarchy) Add(id uuid.UUID, container bool, parent *uuid.UUID) {
	var p *uuid.UUID
	if parent != nil {
		cp := *parent
		p = &cp
	}
	h.nodes[id] = &hierarchyNode{container: container, parent: p}
}

func (h *Hierarchy) IsContainer(id uuid.UUID) bool {
	n, ok := h.nodes[id]
	return ok && n.container
}

func (h *Hierarchy) ParentOf(id uuid.UUID) *uuid.UUID {
	n, ok := h.nodes[id]
	if !ok {
		return nil
	}
	return n.parent
}

// Check validates the assignment of parentID to nodeID without applying it.
func (h *Hierarchy) Check(nodeID uuid.UUID, parentID *uuid.UUID) error {
	if _, ok := h.nodes[nodeID]; !ok {
		return ErrNodeNotFound
	}
	if parentID == nil {
		return nil
	}
	parent, ok := h.nodes[*parentID]
	if !ok {
		return ErrParentNotFound
	}
	if !parent.container {
		return ErrParentNotContainer
	}
	if WouldCreateCycle(nodeID, *parentID, h.ParentOf) {
		return ErrCycle
	}
	return nil
}

// Assign sets the parent of nodeID if Check allows it. A nil parent detaches the node.
func (h *Hierarchy) Assign(nodeID uuid.UUID, parentID *uuid.UUID) error {
	if err := h.Check(nodeID, parentID); err != nil {
		return err
	}
	if parentID == nil {
		h.nodes[nodeID].parent = nil
		return nil
	}
	p := *parentID
	h.nodes[nodeID].parent = &p
	return nil
}
