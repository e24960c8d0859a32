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
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsParameterLimitError(t *testing.T) {
	t.Run("program limit exceeded", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "54000"}
		assert.True(t, isParameterLimitError(pgErr))
		assert.True(t, isParameterLimitError(fmt.Errorf("%w", pgErr)))
	})

	t.Run("extended protocol message", func(t *testing.T) {
		assert.True(t, isParameterLimitError(errors.New("extended protocol limited to 65535 parameters")))
	})

	t.Run("other error", func(t *testing.T) {
		assert.False(t, isParameterLimitError(&pgconn.PgError{Code: "23505"}))
		assert.False(t, isParameterLimitError(errors.New("some other error")))
	})
}
