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
	"sort"
	"strings"
)

const (
	ReasonUnresolved       = "unresolved reference"
	ReasonSelfLoop         = "self-loop"
	ReasonDuplicate        = "duplicate"
	ReasonCycle            = "would create a cycle"
	ReasonNotContainer     = "parent is not a container"
	ReasonContainerNode    = "node is a container"
	ReasonUnknownAssetType = "unknown asset type"
	ReasonAssetGone        = "asset no longer exists"
	ReasonUnknownUser      = "user not found"
	ReasonEmptyDocument    = "empty document"
)

// kinds are reported in this order
var tallyOrder = []Kind{
	KindNode, KindParent, KindEdge, KindDataObject, KindComponentData, KindEdgeDataFlow,
	KindMember, KindAssetValue, KindQuestion, KindAnswer, KindFinalAnswer, KindFinding, KindMeasure,
	KindReport, KindSnapshot,
}

var kindLabels = map[Kind][2]string{
	KindNode:          {"node", "nodes"},
	KindParent:        {"parent assignment", "parent assignments"},
	KindEdge:          {"edge", "edges"},
	KindDataObject:    {"data object", "data objects"},
	KindComponentData: {"component-data mapping", "component-data mappings"},
	KindEdgeDataFlow:  {"edge data-flow mapping", "edge data-flow mappings"},
	KindMember:        {"member", "members"},
	KindAssetValue:    {"asset value", "asset values"},
	KindQuestion:      {"question", "questions"},
	KindAnswer:        {"answer", "answers"},
	KindFinalAnswer:   {"final answer", "final answers"},
	KindFinding:       {"finding", "findings"},
	KindMeasure:       {"measure", "measures"},
	KindReport:        {"report", "reports"},
	KindSnapshot:      {"snapshot", "snapshots"},
}

type KindTally struct {
	Created int
	Skipped int
	Reasons map[string]int
}

// Tally accumulates created and skipped items per kind. Skipping is the normal way
// to deal with references which do not resolve, nothing in here is an error.
type Tally struct {
	kinds map[Kind]*KindTally
}

func NewTally() *Tally {
	return &Tally{kinds: make(map[Kind]*KindTally)}
}

func (t *Tally) get(kind Kind) *KindTally {
	k, ok := t.kinds[kind]
	if !ok {
		k = &KindTally{Reasons: make(map[string]int)}
		t.kinds[kind] = k
	}
	return k
}

func (t *Tally) Create(kind Kind) {
	t.get(kind).Created++
}

func (t *Tally) Skip(kind Kind, reason string) {
	k := t.get(kind)
	k.Skipped++
	k.Reasons[reason]++
}

// SkipN records n skipped items of one kind with the same reason.
func (t *Tally) SkipN(kind Kind, reason string, n int) {
	if n <= 0 {
		return
	}
	k := t.get(kind)
	k.Skipped += n
	k.Reasons[reason] += n
}

func (t *Tally) Created(kind Kind) int {
	if k, ok := t.kinds[kind]; ok {
		return k.Created
	}
	return 0
}

func (t *Tally) Skipped(kind Kind) int {
	if k, ok := t.kinds[kind]; ok {
		return k.Skipped
	}
	return 0
}

func (t *Tally) TotalSkipped() int {
	total := 0
	for _, k := range t.kinds {
		total += k.Skipped
	}
	return total
}

// SkippedByKind only contains kinds with at least one skip.
func (t *Tally) SkippedByKind() map[Kind]int {
	res := make(map[Kind]int, len(t.kinds))
	for kind, k := range t.kinds {
		if k.Skipped > 0 {
			res[kind] = k.Skipped
		}
	}
	return res
}

// Warning summarizes every skip in one human readable line, nil if nothing was skipped.
func (t *Tally) Warning() *string {
	parts := make([]string, 0)
	for _, kind := range tallyOrder {
		k, ok := t.kinds[kind]
		if !ok || k.Skipped == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s (%s)", k.Skipped, label(kind, k.Skipped), formatReasons(k.Reasons)))
	}
	if len(parts) == 0 {
		return nil
	}
	w := "skipped " + strings.Join(parts, ", ")
	return &w
}

func label(kind Kind, n int) string {
	l, ok := kindLabels[kind]
	if !ok {
		return string(kind)
	}
	if n == 1 {
		return l[0]
	}
	return l[1]
}

func formatReasons(reasons map[string]int) string {
	keys := make([]string, 0, len(reasons))
	for r := range reasons {
		keys = append(keys, r)
	}
	sort.Strings(keys)

	res := make([]string, len(keys))
	for i, r := range keys {
		res[i] = fmt.Sprintf("%s: %d", r, reasons[r])
	}
	return strings.Join(res, ", ")
}
