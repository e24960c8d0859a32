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

package daemons

import (
	"context"
	"testing"
	"time"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/mocks"
	"github.com/l3montree-dev/modelguard/services"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrashDaemon(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (shared.DB, shared.ProjectService, shared.ConfigService, models.Project) {
		db := tests.NewSQLiteDB(t)
		store := repositories.NewProjectStore(db)
		projectService := services.NewProjectService(store, tests.NewInMemoryBroker())
		configService := services.NewConfigService(repositories.NewConfigRepository(db))

		user := models.User{Email: "alice@example.com", Name: "Alice"}
		require.NoError(t, store.Users.Create(nil, &user))
		p, err := projectService.Create(ctx, shared.NewCaller(user), dtos.ProjectCreateRequest{Name: "Old"})
		require.NoError(t, err)
		require.NoError(t, projectService.Trash(ctx, p.ID))
		// trashed long before the retention window
		require.NoError(t, db.Unscoped().Model(&models.Project{}).Where("id = ?", p.ID).Update("deleted_at", time.Now().Add(-60*24*time.Hour)).Error)
		return db, projectService, configService, p
	}

	countProjects := func(t *testing.T, db shared.DB) int64 {
		var n int64
		require.NoError(t, db.Unscoped().Model(&models.Project{}).Count(&n).Error)
		return n
	}

	t.Run("should purge projects past the retention window", func(t *testing.T) {
		db, projectService, configService, _ := setup(t)
		daemon := NewTrashDaemon(projectService, configService, mocks.NewLeaderElector(t))

		require.NoError(t, daemon.RunOnce(ctx))
		assert.Zero(t, countProjects(t, db))
	})

	t.Run("should skip the purge if this instance is not the leader", func(t *testing.T) {
		db, projectService, configService, _ := setup(t)
		leaderElector := mocks.NewLeaderElector(t)
		leaderElector.On("IsLeader").Return(false)
		daemon := NewTrashDaemon(projectService, configService, leaderElector)

		daemon.tick(ctx)
		assert.Equal(t, int64(1), countProjects(t, db))
	})

	t.Run("should remember the last purge", func(t *testing.T) {
		db, projectService, configService, _ := setup(t)
		leaderElector := mocks.NewLeaderElector(t)
		leaderElector.On("IsLeader").Return(true)
		daemon := NewTrashDaemon(projectService, configService, leaderElector)

		require.NoError(t, markRun(configService, trashPurgeKey))
		daemon.tick(ctx)
		assert.Equal(t, int64(1), countProjects(t, db))

		require.NoError(t, configService.RemoveConfig(trashPurgeKey))
		daemon.tick(ctx)
		assert.Zero(t, countProjects(t, db))

		last, err := getLastRunTime(configService, trashPurgeKey)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), last, time.Minute)
	})
}
