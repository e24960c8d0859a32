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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/mocks"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService(t *testing.T) {
	ctx := context.Background()

	t.Run("should make the creator an admin", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice@example.com")
		p, err := f.projects.Create(ctx, alice, dtos.ProjectCreateRequest{Name: "  Payments ", Visibility: "viewer-plus"})
		require.NoError(t, err)
		assert.Equal(t, "Payments", p.Name)
		assert.Equal(t, models.VisibilityViewerPlus, p.Visibility)

		creator, err := f.projects.Creator(p.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.UserID, creator.UserID)
		assert.Equal(t, models.MembershipRoleAdmin, creator.Role)
	})

	t.Run("should reject unusable names", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice@example.com")
		_, err := f.projects.Create(ctx, alice, dtos.ProjectCreateRequest{Name: " "})
		requireHTTPCode(t, err, 400)
	})

	t.Run("should move projects in and out of the trash", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice@example.com")
		p := f.project(t, alice, "Payments")

		require.NoError(t, f.projects.Trash(ctx, p.ID))
		projects, err := f.projects.ListForUser(alice)
		require.NoError(t, err)
		assert.Empty(t, projects)

		require.NoError(t, f.projects.Untrash(ctx, p.ID))
		projects, err = f.projects.ListForUser(alice)
		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})

	t.Run("should purge projects trashed before the cutoff only", func(t *testing.T) {
		f := newFixture(t)
		alice := f.user(t, "alice@example.com")
		old := f.project(t, alice, "Old")
		f.sampleGraph(t, alice, old.ID)
		fresh := f.project(t, alice, "Fresh")

		require.NoError(t, f.projects.Trash(ctx, old.ID))
		require.NoError(t, f.db.Unscoped().Model(&models.Project{}).Where("id = ?", old.ID).Update("deleted_at", time.Now().Add(-48*time.Hour)).Error)
		require.NoError(t, f.projects.Trash(ctx, fresh.ID))

		purged, err := f.projects.PurgeTrashedBefore(ctx, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, purged)

		_, err = f.store.Projects.ReadUnscoped(old.ID)
		assert.Error(t, err)
		_, err = f.store.Projects.ReadUnscoped(fresh.ID)
		assert.NoError(t, err)

		var nodes int64
		require.NoError(t, f.db.Model(&models.ModelNode{}).Where("project_id = ?", old.ID).Count(&nodes).Error)
		assert.Zero(t, nodes)
	})

	t.Run("should not fail if the change cannot be published", func(t *testing.T) {
		db := tests.NewSQLiteDB(t)
		store := repositories.NewProjectStore(db)
		broker := mocks.NewPubSubBroker(t)
		broker.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		alice := models.User{Email: "alice@example.com"}
		require.NoError(t, store.Users.Create(nil, &alice))

		_, err := NewProjectService(store, broker).Create(ctx, shared.NewCaller(alice), dtos.ProjectCreateRequest{Name: "Payments"})
		assert.NoError(t, err)
	})
}
