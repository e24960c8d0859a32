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
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
)

type membershipRepository struct {
	*projectScopedRepository[models.Membership]
}

func NewMembershipRepository(db shared.DB) *membershipRepository {
	return &membershipRepository{
		projectScopedRepository: newProjectScopedRepository[models.Membership](db),
	}
}

func (r *membershipRepository) FindRole(projectID, userID uuid.UUID) (models.MembershipRole, error) {
	var membership models.Membership
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&membership).Error
	return membership.Role, err
}

func (r *membershipRepository) Creator(tx shared.DB, projectID uuid.UUID) (models.Membership, error) {
	var membership models.Membership
	err := r.GetDB(tx).Where("project_id = ?", projectID).Order("created_at ASC").First(&membership).Error
	return membership, err
}
