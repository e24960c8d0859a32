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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalKeys(t *testing.T) {
	t.Run("should suffix data object names", func(t *testing.T) {
		keys := NewNameKeys()
		assert.Equal(t, "Credentials", keys.Claim("Credentials", "x"))
		assert.Equal(t, "Credentials (2)", keys.Claim("Credentials", "x"))
		assert.Equal(t, "Credentials (3)", keys.Claim("Credentials", "x"))
	})

	t.Run("should suffix stable ids", func(t *testing.T) {
		keys := NewStableIDKeys()
		assert.Equal(t, "api", keys.Claim("api", "x"))
		assert.Equal(t, "api-2", keys.Claim("api", "x"))
	})

	t.Run("should respect existing keys", func(t *testing.T) {
		keys := NewNameKeys("Secret", "Secret (2)")
		assert.Equal(t, "Secret (3)", keys.Claim("Secret", "x"))
	})

	t.Run("should not hand out a key which was suffixed before", func(t *testing.T) {
		keys := NewNameKeys()
		assert.Equal(t, "A", keys.Claim("A", "x"))
		assert.Equal(t, "A (2)", keys.Claim("A", "x"))
		assert.Equal(t, "A (2) (2)", keys.Claim("A (2)", "x"))
	})

	t.Run("should use the fallback for blank keys", func(t *testing.T) {
		keys := NewStableIDKeys()
		assert.Equal(t, "node-1", keys.Claim("  ", "node-1"))
		assert.Equal(t, "node-1-2", keys.Claim("", "node-1"))
	})

	t.Run("should treat composed and decomposed names as equal", func(t *testing.T) {
		keys := NewNameKeys("Caf\u00e9")
		assert.Equal(t, "Caf\u00e9 (2)", keys.Claim("Cafe\u0301", "x"))
	})
}
