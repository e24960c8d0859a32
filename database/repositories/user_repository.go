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
	"github.com/l3montree-dev/modelguard/utils"
)

type userRepository struct {
	*GormRepository[uuid.UUID, models.User]
}

func NewUserRepository(db shared.DB) *userRepository {
	return &userRepository{
		GormRepository: newGormRepository[uuid.UUID, models.User](db),
	}
}

func (r *userRepository) FindByEmails(tx shared.DB, emails []string) ([]models.User, error) {
	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		if e := utils.NormalizeEmail(email); e != "" {
			normalized = append(normalized, e)
		}
	}
	if len(normalized) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	err := r.GetDB(tx).Where("LOWER(email) IN ?", normalized).Find(&users).Error
	return users, err
}

func (r *userRepository) FindByIDs(tx shared.DB, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := r.GetDB(tx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) ReadByEmail(email string) (models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(email) = ?", utils.NormalizeEmail(email)).First(&user).Error
	return user, err
}

// FirstOrCreate loads the user with the same email into user or stores user as a new account.
func (r *userRepository) FirstOrCreate(tx shared.DB, user *models.User) error {
	user.Email = utils.NormalizeEmail(user.Email)
	return r.GetDB(tx).Where("LOWER(email) = ?", user.Email).FirstOrCreate(user).Error
}
