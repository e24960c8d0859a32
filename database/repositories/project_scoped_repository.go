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

package repositories

import (
	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/utils"
	"gorm.io/gorm"
)

// projectScopedRepository serves every table carrying a project_id column.
type projectScopedRepository[T utils.Tabler] struct {
	*GormRepository[uuid.UUID, T]
}

func newProjectScopedRepository[T utils.Tabler](db *gorm.DB) *projectScopedRepository[T] {
	return &projectScopedRepository[T]{
		GormRepository: newGormRepository[uuid.UUID, T](db),
	}
}

func (r *projectScopedRepository[T]) FindByProject(tx *gorm.DB, projectID uuid.UUID) ([]T, error) {
	var ts []T
	err := r.GetDB(tx).Where("project_id = ?", projectID).Order("created_at ASC").Order("id ASC").Find(&ts).Error
	return ts, err
}

func (r *projectScopedRepository[T]) DeleteByProject(tx *gorm.DB, projectID uuid.UUID) error {
	var t T
	return r.GetDB(tx).Where("project_id = ?", projectID).Delete(&t).Error
}

func (r *projectScopedRepository[T]) DeleteByIDs(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var t T
	return r.GetDB(tx).Where("id IN ?", ids).Delete(&t).Error
}
