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
	"unicode/utf8"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/pkg/errors"
)

const maxProjectNameLength = 255

// Rating clamps a confidentiality, integrity or availability rating to 1..10. Missing ratings become 1.
func Rating(v *int) int {
	if v == nil {
		return 1
	}
	return utils.Clamp(*v, 1, 10)
}

// ProjectFromMeta builds the project of an imported bundle item.
// Only an unusable name rejects the item, every other field falls back to a default.
func ProjectFromMeta(meta dtos.ProjectMetaDTO) (models.Project, error) {
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		return models.Project{}, errors.Wrap(ErrUnusableProject, "project name is empty")
	}
	if utf8.RuneCountInString(name) > maxProjectNameLength {
		return models.Project{}, errors.Wrapf(ErrUnusableProject, "project name exceeds %d characters", maxProjectNameLength)
	}

	norms := utils.Filter(utils.Map(meta.Norms, strings.TrimSpace), func(n string) bool { return n != "" })
	norms = utils.UniqBy(norms, func(n string) string { return n })

	return models.Project{
		Name:        name,
		Description: meta.Description,
		Norms:       norms,
		Visibility:  models.ParseVisibility(meta.Visibility),
	}, nil
}

// AssetKind maps the asset type of an assessment record to the remapper kind of the referenced entity.
func AssetKind(assetType string) (models.AssetType, Kind, bool) {
	t, ok := models.ParseAssetType(assetType)
	if !ok {
		return "", "", false
	}
	switch t {
	case models.AssetTypeComponent:
		return t, KindNode, true
	case models.AssetTypeInterface:
		return t, KindEdge, true
	default:
		return t, KindDataObject, true
	}
}
