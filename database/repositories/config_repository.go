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
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
)

type configRepository struct {
	*GormRepository[string, models.Config]
}

func NewConfigRepository(db shared.DB) *configRepository {
	return &configRepository{
		GormRepository: newGormRepository[string, models.Config](db),
	}
}

func (r *configRepository) FindByKey(key string) (models.Config, error) {
	var config models.Config
	err := r.db.Where("key = ?", key).First(&config).Error
	return config, err
}

func (r *configRepository) DeleteByKey(tx shared.DB, key string) error {
	return r.GetDB(tx).Where("key = ?", key).Delete(&models.Config{}).Error
}
