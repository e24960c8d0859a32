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

package services

import (
	"testing"
	"time"

	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseLeaderElector(t *testing.T) {
	configService := NewConfigService(repositories.NewConfigRepository(tests.NewSQLiteDB(t)))

	first := newDatabaseLeaderElector(configService)
	second := newDatabaseLeaderElector(configService)

	t.Run("the first instance becomes the leader", func(t *testing.T) {
		first.refresh()
		second.refresh()
		assert.True(t, first.IsLeader())
		assert.False(t, second.IsLeader())

		// refreshing keeps the leadership
		first.refresh()
		assert.True(t, first.IsLeader())
	})

	t.Run("a stale leader is replaced", func(t *testing.T) {
		require.NoError(t, configService.SetJSONConfig(leaderElectionKey, leaderElectionConfig{
			LeaderID: first.leaderElectorID,
			LastPing: time.Now().Add(-2 * leaderTimeout).Unix(),
		}))

		second.refresh()
		first.refresh()
		assert.True(t, second.IsLeader())
		assert.False(t, first.IsLeader())
	})
}

func TestConfigService(t *testing.T) {
	configService := NewConfigService(repositories.NewConfigRepository(tests.NewSQLiteDB(t)))

	var v struct{ N int }
	assert.Error(t, configService.GetJSONConfig("missing", &v))

	require.NoError(t, configService.SetJSONConfig("counter", struct{ N int }{N: 1}))
	require.NoError(t, configService.SetJSONConfig("counter", struct{ N int }{N: 2}))
	require.NoError(t, configService.GetJSONConfig("counter", &v))
	assert.Equal(t, 2, v.N)

	require.NoError(t, configService.RemoveConfig("counter"))
	assert.Error(t, configService.GetJSONConfig("counter", &v))
}
