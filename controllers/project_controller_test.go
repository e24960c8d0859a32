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

package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/accesscontrol"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/services"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectController(t *testing.T) {
	db := tests.NewSQLiteDB(t)
	store := repositories.NewProjectStore(db)
	authorizer, err := accesscontrol.NewInMemoryAuthorizer()
	require.NoError(t, err)
	controller := NewProjectController(services.NewProjectService(store, tests.NewInMemoryBroker()), store.Memberships, authorizer)

	alice := models.User{Email: "alice@example.com"}
	bob := models.User{Email: "bob@example.com"}
	require.NoError(t, store.Users.Create(nil, &alice))
	require.NoError(t, store.Users.Create(nil, &bob))

	var project dtos.ProjectDTO
	t.Run("should create a project owned by the caller", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ctx := tests.NewCallerContext(jsonRequest(t, "POST", dtos.ProjectCreateRequest{Name: "Payments", Norms: []string{"iso27001"}}), rec, alice)
		require.NoError(t, controller.Create(ctx))
		require.NoError(t, jsonDecode(rec, &project))
		assert.Equal(t, "Payments", project.Name)
		assert.Equal(t, "private", project.Visibility)

		role, err := store.Memberships.FindRole(project.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MembershipRoleAdmin, role)
	})

	t.Run("should reject unknown visibilities", func(t *testing.T) {
		ctx := tests.NewCallerContext(jsonRequest(t, "POST", dtos.ProjectCreateRequest{Name: "X", Visibility: "public"}), httptest.NewRecorder(), alice)
		assert.Equal(t, 400, httpCode(t, controller.Create(ctx)))
	})

	t.Run("should only untrash projects the caller administrates", func(t *testing.T) {
		trashCtx := tests.NewCallerContext(httptest.NewRequest("DELETE", "/", nil), httptest.NewRecorder(), alice)
		shared.SetProject(trashCtx, models.Project{Model: models.Model{ID: project.ID}})
		require.NoError(t, controller.Delete(trashCtx))

		untrash := func(user models.User, id uuid.UUID) error {
			ctx := tests.NewCallerContext(httptest.NewRequest("POST", "/", nil), httptest.NewRecorder(), user)
			ctx.SetParamNames("projectID")
			ctx.SetParamValues(id.String())
			return controller.Untrash(ctx)
		}
		assert.Equal(t, 404, httpCode(t, untrash(bob, project.ID)))
		require.NoError(t, untrash(alice, project.ID))

		rec := httptest.NewRecorder()
		require.NoError(t, controller.List(tests.NewCallerContext(httptest.NewRequest("GET", "/", nil), rec, alice)))
		var projects []dtos.ProjectDTO
		require.NoError(t, jsonDecode(rec, &projects))
		assert.Len(t, projects, 1)
	})
}
