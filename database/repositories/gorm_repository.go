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
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/l3montree-dev/modelguard/utils"
	"gorm.io/gorm"
)

const batchSize = 500

type GormRepository[ID comparable, T utils.Tabler] struct {
	db *gorm.DB
}

func newGormRepository[ID comparable, T utils.Tabler](db *gorm.DB) *GormRepository[ID, T] {
	return &GormRepository[ID, T]{
		db: db,
	}
}

func (g *GormRepository[ID, T]) Save(tx *gorm.DB, t *T) error {
	return g.GetDB(tx).Save(t).Error
}

func (g *GormRepository[ID, T]) SaveBatch(tx *gorm.DB, ts []T) error {
	if len(ts) == 0 {
		return nil
	}

	err := g.GetDB(tx).Save(ts).Error
	if err != nil && isParameterLimitError(err) && len(ts) > 1 {
		half := len(ts) / 2
		if err := g.SaveBatch(tx, ts[:half]); err != nil {
			return err
		}
		return g.SaveBatch(tx, ts[half:])
	}
	return err
}

// Transaction commits if f returns nil and rolls back otherwise, a panic inside f rolls back as well.
func (g *GormRepository[ID, T]) Transaction(f func(tx *gorm.DB) error) error {
	return g.db.Transaction(f)
}

func (g *GormRepository[ID, T]) GetDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return g.db
}

func (g *GormRepository[ID, T]) Create(tx *gorm.DB, t *T) error {
	return g.GetDB(tx).Create(t).Error
}

// CreateBatch inserts all rows or fails. Conflicts are not ignored, callers deduplicate natural keys upfront.
func (g *GormRepository[ID, T]) CreateBatch(tx *gorm.DB, ts []T) error {
	if len(ts) == 0 {
		return nil
	}
	return g.GetDB(tx).CreateInBatches(ts, batchSize).Error
}

func (g *GormRepository[ID, T]) Read(id ID) (T, error) {
	var t T
	err := g.db.First(&t, "id = ?", id).Error

	return t, err
}

func (g *GormRepository[ID, T]) Delete(tx *gorm.DB, id ID) error {
	var t T
	return g.GetDB(tx).Delete(&t, "id = ?", id).Error
}

func (g *GormRepository[ID, T]) List(ids []ID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var ts []T

	err := g.db.Where("id IN ?", ids).Find(&ts).Error
	if err != nil {
		return ts, err
	}
	return ts, nil
}

func isParameterLimitError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// program_limit_exceeded
		return pgErr.Code == "54000"
	}
	return err.Error() == "extended protocol limited to 65535 parameters"
}
