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

package tests

import (
	"errors"
	"sync/atomic"

	"gorm.io/gorm"
)

var ErrInjected = errors.New("injected failure")

// FailNthCreate makes the n-th insert into table fail. n starts at 1.
// The callback stays registered for the lifetime of db.
func FailNthCreate(db *gorm.DB, table string, n int64) error {
	var count atomic.Int64
	return db.Callback().Create().Before("gorm:create").Register("tests:fail_nth_create_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		if count.Add(1) == n {
			tx.AddError(ErrInjected) // nolint:errcheck
		}
	})
}
