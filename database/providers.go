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

package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/modelguard/shared"
	"go.uber.org/fx"
)

func newPool(lc fx.Lifecycle, cfg PoolConfig) (*pgxpool.Pool, error) {
	pool, err := NewPgxConnPool(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pool, nil
}

func newDB(pool *pgxpool.Pool) (shared.DB, error) {
	return NewGormDB(pool)
}

// Module expects a PoolConfig to be supplied, usually GetPoolConfigFromEnv().
var Module = fx.Options(
	fx.Provide(newPool),
	fx.Provide(newDB),
	fx.Provide(BrokerFactory),
)
