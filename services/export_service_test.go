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
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	viewer := f.user(t, "viewer@example.com")
	stranger := f.user(t, "stranger@example.com")

	p := f.project(t, alice, "Payments")
	g := f.sampleGraph(t, alice, p.ID)
	require.NoError(t, f.store.Memberships.Create(nil, &models.Membership{ProjectID: p.ID, UserID: viewer.UserID, Role: models.MembershipRoleViewer}))
	require.NoError(t, f.store.Answers.Create(nil, &models.Answer{ProjectID: p.ID, QuestionID: uuid.New(), AuthorID: stranger.UserIDPtr(), Value: "n/a"}))

	t.Run("should export the project verbatim", func(t *testing.T) {
		resp, err := f.exporter.Export(ctx, alice, []uuid.UUID{p.ID, p.ID}, "")
		require.NoError(t, err)
		assert.Equal(t, dtos.ExportFormatNative, resp.Format)
		assert.Equal(t, dtos.BundleVersion, resp.Version)
		assert.Equal(t, alice.Email, resp.ExportedBy.Email)
		assert.Empty(t, resp.Errors)
		require.Len(t, resp.Projects, 1)

		bundle := resp.Projects[0]
		assert.Equal(t, dtos.BundleFormat, bundle.Format)
		assert.Equal(t, p.ID.String(), bundle.Project.ID)
		assert.ElementsMatch(t, []string{g.a.ID.String(), g.b.ID.String()}, utils.Map(bundle.Nodes, func(n dtos.NodeDTO) string { return n.ID }))
		require.Len(t, bundle.Edges, 1)
		assert.Equal(t, g.edge.ID.String(), bundle.Edges[0].ID)
		require.Len(t, bundle.ComponentData, 1)
		assert.Equal(t, g.link.ID.String(), bundle.ComponentData[0].ID)
		assert.Len(t, bundle.Members, 2)
	})

	t.Run("should include every referenced user with email", func(t *testing.T) {
		resp, err := f.exporter.Export(ctx, alice, []uuid.UUID{p.ID}, dtos.ExportFormatNative)
		require.NoError(t, err)
		emails := utils.Map(resp.Projects[0].Users, func(u dtos.UserDTO) string { return u.Email })
		assert.ElementsMatch(t, []string{"alice@example.com", "viewer@example.com", "stranger@example.com"}, emails)
	})

	t.Run("should report missing and forbidden projects per id", func(t *testing.T) {
		missing := uuid.New()
		resp, err := f.exporter.Export(ctx, viewer, []uuid.UUID{p.ID, missing}, dtos.ExportFormatNative)
		require.NoError(t, err)
		assert.Empty(t, resp.Projects)
		require.Len(t, resp.Errors, 2)
		assert.Equal(t, dtos.ExportError{ProjectID: p.ID.String(), Status: 403, Error: "not allowed to export this project"}, resp.Errors[0])
		assert.Equal(t, 404, resp.Errors[1].Status)

		resp, err = f.exporter.Export(ctx, stranger, []uuid.UUID{p.ID}, dtos.ExportFormatNative)
		require.NoError(t, err)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, 404, resp.Errors[0].Status)
	})

	t.Run("should let global admins export every project", func(t *testing.T) {
		admin := shared.Caller{UserID: uuid.New(), Email: "root@example.com", GlobalRole: models.UserRoleAdmin}
		resp, err := f.exporter.Export(ctx, admin, []uuid.UUID{p.ID}, dtos.ExportFormatNative)
		require.NoError(t, err)
		assert.Len(t, resp.Projects, 1)
	})

	t.Run("should render cyclonedx documents", func(t *testing.T) {
		resp, err := f.exporter.Export(ctx, alice, []uuid.UUID{p.ID}, dtos.ExportFormatCycloneDX)
		require.NoError(t, err)
		assert.Nil(t, resp.Projects)
		require.Len(t, resp.Documents, 1)
		assert.Equal(t, "urn:uuid:"+p.ID.String(), resp.Documents[0].SerialNumber)
	})

	t.Run("should reject unknown formats", func(t *testing.T) {
		_, err := f.exporter.Export(ctx, alice, []uuid.UUID{p.ID}, "pdf")
		requireHTTPCode(t, err, 400)
	})

	t.Run("should export a single project", func(t *testing.T) {
		bundle, err := f.exporter.ExportProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Payments", bundle.Project.Name)

		_, err = f.exporter.ExportProject(ctx, uuid.New())
		requireHTTPCode(t, err, 404)
	})

	t.Run("should load the project data under the request context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.exporter.ExportProject(cancelled, p.ID)
		requireHTTPCode(t, err, 500)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should not export trashed projects", func(t *testing.T) {
		trashed := f.project(t, alice, "Old")
		require.NoError(t, f.projects.Trash(ctx, trashed.ID))

		resp, err := f.exporter.Export(ctx, alice, []uuid.UUID{trashed.ID}, dtos.ExportFormatNative)
		require.NoError(t, err)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, 404, resp.Errors[0].Status)
	})
}
