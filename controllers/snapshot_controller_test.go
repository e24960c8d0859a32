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
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/accesscontrol"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/mocks"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSnapshotControllerRestore(t *testing.T) {
	authorizer, err := accesscontrol.NewInMemoryAuthorizer()
	require.NoError(t, err)
	user := models.User{Model: models.Model{ID: uuid.New()}, Email: "alice@example.com"}
	project := models.Project{Model: models.Model{ID: uuid.New()}, Name: "Payments"}
	snapshotID := uuid.New()

	restoreContext := func(role models.MembershipRole, rec *httptest.ResponseRecorder) shared.Context {
		ctx := tests.NewCallerContext(httptest.NewRequest("POST", "/", nil), rec, user)
		ctx.SetParamNames("projectID", "snapshotID")
		ctx.SetParamValues(project.ID.String(), snapshotID.String())
		shared.SetProject(ctx, project)
		shared.SetMembershipRole(ctx, role)
		return ctx
	}

	t.Run("should return the restore result", func(t *testing.T) {
		restoreService := mocks.NewRestoreService(t)
		restoreService.On("Restore", mock.Anything, shared.NewCaller(user), project.ID, snapshotID).Return(dtos.RestoreResponse{
			Restored: dtos.RestoredCounts{Nodes: 2, Edges: 1},
			Warning:  utils.Ptr("skipped 1 edge (self-loop: 1)"),
		}, nil)
		controller := NewSnapshotController(mocks.NewSnapshotService(t), restoreService, authorizer)

		rec := httptest.NewRecorder()
		require.NoError(t, controller.Restore(restoreContext(models.MembershipRoleEditor, rec)))

		var resp dtos.RestoreResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Restored.Nodes)
		assert.Equal(t, "skipped 1 edge (self-loop: 1)", *resp.Warning)
	})

	t.Run("should forbid viewers to restore", func(t *testing.T) {
		controller := NewSnapshotController(mocks.NewSnapshotService(t), mocks.NewRestoreService(t), authorizer)
		err := controller.Restore(restoreContext(models.MembershipRoleViewer, httptest.NewRecorder()))
		assert.Equal(t, 403, httpCode(t, err))
	})

	t.Run("should pass service errors through", func(t *testing.T) {
		restoreService := mocks.NewRestoreService(t)
		restoreService.On("Restore", mock.Anything, mock.Anything, project.ID, snapshotID).Return(dtos.RestoreResponse{}, echo.NewHTTPError(422, "corrupted snapshot"))
		controller := NewSnapshotController(mocks.NewSnapshotService(t), restoreService, authorizer)

		err := controller.Restore(restoreContext(models.MembershipRoleAdmin, httptest.NewRecorder()))
		assert.Equal(t, 422, httpCode(t, err))
	})
}

func TestSnapshotControllerCapture(t *testing.T) {
	authorizer, err := accesscontrol.NewInMemoryAuthorizer()
	require.NoError(t, err)
	user := models.User{Model: models.Model{ID: uuid.New()}, Email: "alice@example.com"}
	project := models.Project{Model: models.Model{ID: uuid.New()}, Name: "Payments"}

	t.Run("should capture and return the snapshot without its document", func(t *testing.T) {
		snapshotService := mocks.NewSnapshotService(t)
		snapshotService.On("Capture", mock.Anything, shared.NewCaller(user), project.ID, mock.MatchedBy(func(req dtos.CreateSnapshotRequest) bool {
			return req.Name == "before review" && len(req.State.NodePositions) == 1
		})).Return(models.Snapshot{Model: models.Model{ID: uuid.New()}, ProjectID: project.ID, Name: "before review", Document: []byte(`{"version":1}`)}, nil)
		controller := NewSnapshotController(snapshotService, mocks.NewRestoreService(t), authorizer)

		body := map[string]any{"name": "before review", "state": map[string]any{"nodePositions": map[string]any{"n1": map[string]int{"x": 1}}}}
		rec := httptest.NewRecorder()
		ctx := tests.NewCallerContext(jsonRequest(t, "POST", body), rec, user)
		shared.SetProject(ctx, project)

		require.NoError(t, controller.Create(ctx))
		assert.Contains(t, rec.Body.String(), `"name":"before review"`)
		assert.NotContains(t, rec.Body.String(), "document")
	})

	t.Run("should require a name", func(t *testing.T) {
		controller := NewSnapshotController(mocks.NewSnapshotService(t), mocks.NewRestoreService(t), authorizer)
		ctx := tests.NewCallerContext(jsonRequest(t, "POST", map[string]any{}), httptest.NewRecorder(), user)
		shared.SetProject(ctx, project)
		assert.Equal(t, 400, httpCode(t, controller.Create(ctx)))
	})
}
