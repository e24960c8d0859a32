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

package accesscontrol

import (
	"context"
	"testing"
	"time"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCasbinAuthorizer(t *testing.T) {
	authorizer, err := NewInMemoryAuthorizer()
	require.NoError(t, err)

	user := shared.Caller{GlobalRole: models.UserRoleUser}
	admin := shared.Caller{GlobalRole: models.UserRoleAdmin}

	viewer := utils.Ptr(models.MembershipRoleViewer)
	editor := utils.Ptr(models.MembershipRoleEditor)
	projectAdmin := utils.Ptr(models.MembershipRoleAdmin)

	t.Run("export requires editor or above", func(t *testing.T) {
		assert.False(t, authorizer.CanExport(user, nil))
		assert.False(t, authorizer.CanExport(user, viewer))
		assert.True(t, authorizer.CanExport(user, editor))
		assert.True(t, authorizer.CanExport(user, projectAdmin))
	})

	t.Run("restore requires editor or above", func(t *testing.T) {
		assert.False(t, authorizer.CanRestore(user, viewer))
		assert.True(t, authorizer.CanRestore(user, editor))
	})

	t.Run("every user may import", func(t *testing.T) {
		assert.True(t, authorizer.CanImport(user))
	})

	t.Run("global admins may do everything", func(t *testing.T) {
		assert.True(t, authorizer.CanExport(admin, nil))
		assert.True(t, authorizer.CanRestore(admin, nil))
		assert.True(t, authorizer.IsAllowed(admin, nil, shared.ObjectProject, shared.ActionDelete))
	})

	t.Run("only project admins may delete a project", func(t *testing.T) {
		assert.False(t, authorizer.IsAllowed(user, editor, shared.ObjectProject, shared.ActionDelete))
		assert.True(t, authorizer.IsAllowed(user, projectAdmin, shared.ObjectProject, shared.ActionDelete))
	})

	t.Run("viewers may read the graph but not change it", func(t *testing.T) {
		assert.True(t, authorizer.IsAllowed(user, viewer, shared.ObjectGraph, shared.ActionRead))
		assert.False(t, authorizer.IsAllowed(user, viewer, shared.ObjectGraph, shared.ActionUpdate))
		assert.False(t, authorizer.IsAllowed(user, nil, shared.ObjectGraph, shared.ActionRead))
	})
}

func TestSeedPoliciesIsIdempotent(t *testing.T) {
	authorizer, err := NewInMemoryAuthorizer()
	require.NoError(t, err)

	before, err := authorizer.enforcer.GetPolicy()
	require.NoError(t, err)
	require.NoError(t, seedPolicies(authorizer.enforcer))
	after, err := authorizer.enforcer.GetPolicy()
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

type memoryBroker struct {
	published []shared.PubSubMessage
	ch        chan map[string]any
}

func (b *memoryBroker) Publish(ctx context.Context, message shared.PubSubMessage) error {
	b.published = append(b.published, message)
	return nil
}

func (b *memoryBroker) Subscribe(topic shared.PubSubChannel) (<-chan map[string]any, error) {
	return b.ch, nil
}

func TestCasbinPubSubWatcher(t *testing.T) {
	broker := &memoryBroker{ch: make(chan map[string]any, 1)}
	watcher, err := newCasbinPubSubWatcher(broker)
	require.NoError(t, err)
	defer watcher.Close()

	t.Run("update without callback fails", func(t *testing.T) {
		assert.Error(t, watcher.Update())
	})

	called := make(chan string, 1)
	require.NoError(t, watcher.SetUpdateCallback(func(s string) { called <- s }))

	t.Run("update publishes a policy change", func(t *testing.T) {
		require.NoError(t, watcher.Update())
		require.Len(t, broker.published, 1)
		assert.Equal(t, shared.PolicyChange, broker.published[0].GetChannel())
	})

	t.Run("notifications trigger the callback", func(t *testing.T) {
		broker.ch <- map[string]any{"action": "update"}
		select {
		case msg := <-called:
			assert.Equal(t, "policy updated", msg)
		case <-time.After(time.Second):
			t.Fatal("callback was not called")
		}
	})
}
