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
	"strings"
	"testing"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/stretchr/testify/assert"
)

func TestRating(t *testing.T) {
	assert.Equal(t, 1, Rating(nil))
	assert.Equal(t, 1, Rating(utils.Ptr(0)))
	assert.Equal(t, 10, Rating(utils.Ptr(42)))
	assert.Equal(t, 5, Rating(utils.Ptr(5)))
}

func TestProjectFromMeta(t *testing.T) {
	t.Run("should reject an empty name", func(t *testing.T) {
		_, err := ProjectFromMeta(dtos.ProjectMetaDTO{Name: "   "})
		assert.ErrorIs(t, err, ErrUnusableProject)
	})

	t.Run("should reject an overly long name", func(t *testing.T) {
		_, err := ProjectFromMeta(dtos.ProjectMetaDTO{Name: strings.Repeat("a", 256)})
		assert.ErrorIs(t, err, ErrUnusableProject)
	})

	t.Run("should fill defaults", func(t *testing.T) {
		p, err := ProjectFromMeta(dtos.ProjectMetaDTO{Name: " Payment ", Visibility: "weird", Norms: []string{"ISO 27001", " ", "ISO 27001"}})
		assert.NoError(t, err)
		assert.Equal(t, "Payment", p.Name)
		assert.Equal(t, models.VisibilityPrivate, p.Visibility)
		assert.Equal(t, []string{"ISO 27001"}, []string(p.Norms))
	})
}

func TestAssetKind(t *testing.T) {
	_, kind, ok := AssetKind("interface")
	assert.True(t, ok)
	assert.Equal(t, KindEdge, kind)

	_, _, ok = AssetKind("spaceship")
	assert.False(t, ok)
}
