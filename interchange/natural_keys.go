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

	"golang.org/x/text/unicode/norm"
)

// NaturalKeys hands out project-unique business keys, suffixing duplicates.
type NaturalKeys struct {
	taken  map[string]struct{}
	suffix func(base string, n int) string
}

// NewStableIDKeys suffixes node stable ids: "api", "api-2", "api-3".
func NewStableIDKeys(existing ...string) *NaturalKeys {
	return newNaturalKeys(func(base string, n int) string {
		return fmt.Sprintf("%s-%d", base, n)
	}, existing)
}

// NewNameKeys suffixes data object names: "Credentials", "Credentials (2)".
func NewNameKeys(existing ...string) *NaturalKeys {
	return newNaturalKeys(func(base string, n int) string {
		return fmt.Sprintf("%s (%d)", base, n)
	}, existing)
}

func newNaturalKeys(suffix func(string, int) string, existing []string) *NaturalKeys {
	k := &NaturalKeys{
		taken:  make(map[string]struct{}, len(existing)),
		suffix: suffix,
	}
	for _, e := range existing {
		k.taken[norm.NFC.String(e)] = struct{}{}
	}
	return k
}

// Claim reserves base, or the first free suffixed variant of it. Blank keys use fallback.
// Keys are compared in unicode NFC form.
func (k *NaturalKeys) Claim(base string, fallback string) string {
	base = norm.NFC.String(strings.TrimSpace(base))
	if base == "" {
		base = fallback
	}

	key := base
	for n := 2; k.isTaken(key); n++ {
		key = k.suffix(base, n)
	}
	k.taken[key] = struct{}{}
	return key
}

func (k *NaturalKeys) isTaken(key string) bool {
	_, ok := k.taken[key]
	return ok
}
