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
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type projectRepository struct {
	*GormRepository[uuid.UUID, models.Project]
}

func NewProjectRepository(db shared.DB) *projectRepository {
	return &projectRepository{
		GormRepository: newGormRepository[uuid.UUID, models.Project](db),
	}
}

func (r *projectRepository) ReadUnscoped(id uuid.UUID) (models.Project, error) {
	var project models.Project
	err := r.db.Unscoped().First(&project, "id = ?", id).Error
	return project, err
}

func (r *projectRepository) ListForUser(userID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN memberships ON memberships.project_id = projects.id").
		Where("memberships.user_id = ?", userID).
		Order("projects.name ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Trash(tx shared.DB, id uuid.UUID) error {
	return r.GetDB(tx).Delete(&models.Project{}, "id = ?", id).Error
}

func (r *projectRepository) Untrash(tx shared.DB, id uuid.UUID) error {
	return r.GetDB(tx).Model(&models.Project{}).Unscoped().Where("id = ?", id).Update("deleted_at", nil).Error
}

// owned tables in deletion order, children before their parents
var projectOwnedModels = []any{
	&models.Snapshot{},
	&models.Report{},
	&models.Measure{},
	&models.Finding{},
	&models.FinalAnswer{},
	&models.Answer{},
	&models.Question{},
	&models.AssetValue{},
	&models.EdgeDataFlowLink{},
	&models.ComponentDataLink{},
	&models.ModelEdge{},
	&models.ModelNode{},
	&models.DataObject{},
	&models.Membership{},
}

// Purge removes every owned row explicitly, the database cascade is not relied upon.
func (r *projectRepository) Purge(tx shared.DB, id uuid.UUID) error {
	purge := func(tx *gorm.DB) error {
		for _, m := range projectOwnedModels {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return errors.Wrapf(err, "could not purge %T", m)
			}
		}
		return tx.Unscoped().Delete(&models.Project{}, "id = ?", id).Error
	}
	if tx != nil {
		return purge(tx)
	}
	return r.db.Transaction(purge)
}

func (r *projectRepository) FindTrashedBefore(t time.Time) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Unscoped().Where("deleted_at IS NOT NULL AND deleted_at < ?", t).Find(&projects).Error
	return projects, err
}
