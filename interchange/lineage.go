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
	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/utils"
)

// Lineage maps lineage keys to the entities written for them by one import or restore.
// Assessment records pointing at an earlier copy of an entity find the current copy through it.
type Lineage struct {
	keys map[Kind]map[string]uuid.UUID
}

func NewLineage() *Lineage {
	return &Lineage{keys: make(map[Kind]map[string]uuid.UUID)}
}

// Record remembers id as the copy of key. The first copy of a key wins.
func (l *Lineage) Record(kind Kind, key string, id uuid.UUID) {
	if key == "" {
		return
	}
	table, ok := l.keys[kind]
	if !ok {
		table = make(map[string]uuid.UUID)
		l.keys[kind] = table
	}
	if _, ok := table[key]; !ok {
		table[key] = id
	}
}

func (l *Lineage) Resolve(kind Kind, key string) (uuid.UUID, bool) {
	if key == "" {
		return uuid.Nil, false
	}
	id, ok := l.keys[kind][key]
	return id, ok
}

// OriginOf returns the lineage key of an incoming entity as origin reference, nil for entities without id.
func OriginOf(id string, originID *string) *string {
	key := models.LineageKey(id, originID)
	if key == "" {
		return nil
	}
	return utils.Ptr(key)
}
