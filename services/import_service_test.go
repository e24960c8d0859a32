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
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")

	source := f.project(t, alice, "Payments")
	g := f.sampleGraph(t, alice, source.ID)
	finding := models.Finding{
		Audit:     models.NewAudit(alice.UserIDPtr()),
		AssetRef:  models.AssetRef{AssetType: models.AssetTypeComponent, AssetID: g.a.ID},
		ProjectID: source.ID,
		Title:     "weak tls",
	}
	require.NoError(t, f.store.Findings.Create(nil, &finding))
	require.NoError(t, f.store.Measures.Create(nil, &models.Measure{ProjectID: source.ID, FindingID: finding.ID, Title: "enforce tls 1.3"}))
	_, err := f.snapshots.Capture(ctx, alice, source.ID, dtos.CreateSnapshotRequest{Name: "before review"})
	require.NoError(t, err)

	exported, err := f.exporter.Export(ctx, alice, []uuid.UUID{source.ID}, dtos.ExportFormatNative)
	require.NoError(t, err)
	require.Len(t, exported.Projects, 1)

	resp, err := f.importer.Import(ctx, bob, importRequest(rawBundle(t, exported.Projects[0])))
	require.NoError(t, err)
	require.Equal(t, 1, resp.ImportedCount)
	require.Equal(t, 0, resp.FailedCount)
	assert.Nil(t, resp.ImportedProjects[0].Warning)
	assert.Equal(t, "Payments", resp.ImportedProjects[0].Name)

	projectID := uuid.MustParse(resp.ImportedProjects[0].ID)
	assert.NotEqual(t, source.ID, projectID)

	t.Run("should recreate the graph with fresh ids", func(t *testing.T) {
		nodes, err := f.store.Nodes.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.ElementsMatch(t, []string{"A", "B"}, nodeNames(nodes))
		byName := utils.IndexBy(nodes, func(n models.ModelNode) string { return n.Name })
		assert.NotEqual(t, g.a.ID, byName["A"].ID)
		assert.NotEqual(t, g.b.ID, byName["B"].ID)
		// audit references resolve to the same local account by email
		assert.Equal(t, alice.UserID, *byName["A"].CreatedByID)

		edges, err := f.store.Edges.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, byName["A"].ID, edges[0].SourceNodeID)
		assert.Equal(t, byName["B"].ID, edges[0].TargetNodeID)
		assert.Equal(t, "https", edges[0].Protocol)

		dataObjects, err := f.store.DataObjects.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, dataObjects, 1)
		assert.Equal(t, "Secret", dataObjects[0].Name)
		assert.Equal(t, 9, dataObjects[0].Confidentiality)
		assert.Equal(t, models.ClassificationSecret, dataObjects[0].Classification)

		links, err := f.store.ComponentData.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, byName["A"].ID, links[0].NodeID)
		assert.Equal(t, dataObjects[0].ID, links[0].DataObjectID)
		assert.Equal(t, models.ComponentDataRoleStores, links[0].Role)

		findings, err := f.store.Findings.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, byName["A"].ID, findings[0].AssetID)
		measures, err := f.store.Measures.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, measures, 1)
		assert.Equal(t, findings[0].ID, measures[0].FindingID)

		f.assertClosed(t, projectID)
	})

	t.Run("should make the importing user the creator", func(t *testing.T) {
		creator, err := f.projects.Creator(projectID)
		require.NoError(t, err)
		assert.Equal(t, bob.UserID, creator.UserID)
		assert.Equal(t, models.MembershipRoleAdmin, creator.Role)

		members, err := f.store.Memberships.FindByProject(nil, projectID)
		require.NoError(t, err)
		assert.Len(t, members, 2)

		// the source project keeps its creator
		sourceCreator, err := f.projects.Creator(source.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.UserID, sourceCreator.UserID)
	})

	t.Run("should keep savepoints restorable against the imported graph", func(t *testing.T) {
		snapshots, err := f.snapshots.List(projectID)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)

		restored, err := f.restorer.Restore(ctx, bob, projectID, snapshots[0].ID)
		require.NoError(t, err)
		assert.Nil(t, restored.Warning)
		assert.Equal(t, dtos.RestoredCounts{Nodes: 2, DataObjects: 1, Edges: 1, ComponentData: 1}, restored.Restored)

		findings, err := f.store.Findings.FindByProject(nil, projectID)
		require.NoError(t, err)
		assert.Len(t, findings, 1)
		f.assertClosed(t, projectID)
	})

	t.Run("should announce the imported project", func(t *testing.T) {
		kinds := utils.Map(f.broker.Published(), func(m shared.PubSubMessage) string { return m.GetPayload()["kind"].(string) })
		assert.Contains(t, kinds, "imported")
	})
}

func TestImportBatchIsolation(t *testing.T) {
	ctx := context.Background()

	t.Run("should import siblings of an unusable bundle", func(t *testing.T) {
		f := newFixture(t)
		bob := f.user(t, "bob@example.com")

		resp, err := f.importer.Import(ctx, bob, importRequest(
			rawBundle(t, minimalBundle("One")),
			rawBundle(t, minimalBundle("   ")),
			rawBundle(t, minimalBundle("Three")),
		))
		require.NoError(t, err)
		assert.Equal(t, 2, resp.ImportedCount)
		assert.Equal(t, 1, resp.FailedCount)
		assert.Equal(t, []string{"One", "Three"}, utils.Map(resp.ImportedProjects, func(p dtos.ImportedProject) string { return p.Name }))
		require.Len(t, resp.FailedProjects, 1)
		assert.Equal(t, 1, resp.FailedProjects[0].Index)
		assert.Equal(t, "   ", resp.FailedProjects[0].Name)
		assert.Contains(t, resp.FailedProjects[0].Error, "project name is empty")

		projects, err := f.store.Projects.ListForUser(bob.UserID)
		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})

	t.Run("should report malformed items", func(t *testing.T) {
		f := newFixture(t)
		bob := f.user(t, "bob@example.com")

		resp, err := f.importer.Import(ctx, bob, importRequest(json.RawMessage(`[1, 2]`), json.RawMessage(`{"version": 7, "project": {"name": "future"}}`)))
		require.NoError(t, err)
		assert.Equal(t, 0, resp.ImportedCount)
		require.Len(t, resp.FailedProjects, 2)
		assert.Contains(t, resp.FailedProjects[0].Error, "malformed project bundle")
		assert.Equal(t, "future", resp.FailedProjects[1].Name)
		assert.Contains(t, resp.FailedProjects[1].Error, "unsupported format")
	})

	t.Run("should roll back a failing item without touching its siblings", func(t *testing.T) {
		f := newFixture(t)
		bob := f.user(t, "bob@example.com")
		require.NoError(t, tests.FailNthCreate(f.db, "model_edges", 1))

		bundle := minimalBundle("Broken")
		bundle.Nodes = []dtos.NodeDTO{{ID: "n1", StableID: "api"}, {ID: "n2", StableID: "db"}}
		bundle.Edges = []dtos.EdgeDTO{{ID: "e1", SourceNodeID: "n1", TargetNodeID: "n2"}}
		sibling := bundle
		sibling.Project.Name = "Sibling"

		resp, err := f.importer.Import(ctx, bob, importRequest(rawBundle(t, bundle), rawBundle(t, sibling)))
		require.NoError(t, err)
		require.Equal(t, 1, resp.FailedCount)
		require.Equal(t, 1, resp.ImportedCount)
		assert.Equal(t, 0, resp.FailedProjects[0].Index)
		assert.Equal(t, "Sibling", resp.ImportedProjects[0].Name)

		var projects, nodes, memberships int64
		require.NoError(t, f.db.Model(&models.Project{}).Count(&projects).Error)
		require.NoError(t, f.db.Model(&models.ModelNode{}).Count(&nodes).Error)
		require.NoError(t, f.db.Model(&models.Membership{}).Count(&memberships).Error)
		assert.Equal(t, int64(1), projects)
		assert.Equal(t, int64(2), nodes)
		assert.Equal(t, int64(1), memberships)
	})
}

func TestImportRejectsWholeCall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bob := f.user(t, "bob@example.com")

	cases := []struct {
		name string
		req  dtos.ImportRequest
	}{
		{"unknown format", dtos.ImportRequest{Format: "something-else", Version: 1, Projects: []json.RawMessage{rawBundle(t, minimalBundle("x"))}}},
		{"newer version", dtos.ImportRequest{Format: dtos.BundleFormat, Version: dtos.BundleVersion + 1, Projects: []json.RawMessage{rawBundle(t, minimalBundle("x"))}}},
	}
	for _, c := range cases {
		t.Run("should reject "+c.name, func(t *testing.T) {
			_, err := f.importer.Import(ctx, bob, c.req)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, 400, httpErr.Code)
		})
	}

	t.Run("should reject batches above the limit", func(t *testing.T) {
		importer := NewImportService(f.store, f.broker)
		importer.maxBundles = 2
		_, err := importer.Import(ctx, bob, importRequest(
			rawBundle(t, minimalBundle("1")), rawBundle(t, minimalBundle("2")), rawBundle(t, minimalBundle("3")),
		))
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)

		projects, err := f.store.Projects.ListForUser(bob.UserID)
		require.NoError(t, err)
		assert.Empty(t, projects)
	})
}

func TestImportNaturalKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("should suffix colliding data object names", func(t *testing.T) {
		f := newFixture(t)
		bob := f.user(t, "bob@example.com")
		bundle := minimalBundle("Vault")
		bundle.DataObjects = []dtos.DataObjectDTO{{ID: "d1", Name: "Credentials"}, {ID: "d2", Name: "Credentials"}}

		resp, err := f.importer.Import(ctx, bob, importRequest(rawBundle(t, bundle)))
		require.NoError(t, err)
		require.Equal(t, 1, resp.ImportedCount)

		dataObjects, err := f.store.DataObjects.FindByProject(nil, uuid.MustParse(resp.ImportedProjects[0].ID))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Credentials", "Credentials (2)"}, utils.Map(dataObjects, func(o models.DataObject) string { return o.Name }))
	})

	t.Run("should produce unique stable ids on every run", func(t *testing.T) {
		f := newFixture(t)
		bob := f.user(t, "bob@example.com")
		bundle := minimalBundle("Shop")
		bundle.Nodes = []dtos.NodeDTO{{ID: "n1", StableID: "api", Name: "API"}, {ID: "n2", StableID: "api", Name: "API v2"}, {ID: "n3"}}

		for range 2 {
			resp, err := f.importer.Import(ctx, bob, importRequest(rawBundle(t, bundle)))
			require.NoError(t, err)
			require.Equal(t, 1, resp.ImportedCount)

			nodes, err := f.store.Nodes.FindByProject(nil, uuid.MustParse(resp.ImportedProjects[0].ID))
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"api", "api-2", "node-3"}, utils.Map(nodes, func(n models.ModelNode) string { return n.StableID }))
		}
	})
}

func TestImportSkipPolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bob := f.user(t, "bob@example.com")

	bundle := minimalBundle("Skips")
	bundle.Users = []dtos.UserDTO{{ID: "old-bob", Email: "BOB@Example.com"}, {ID: "ghost", Email: "ghost@example.com"}}
	bundle.Members = []dtos.MemberDTO{{UserID: "old-bob", Role: "viewer"}, {UserID: "ghost", Role: "editor"}}
	bundle.Nodes = []dtos.NodeDTO{
		{ID: "c1", StableID: "c1", Category: "container", ParentNodeID: utils.Ptr("c2")},
		{ID: "c2", StableID: "c2", Category: "container", ParentNodeID: utils.Ptr("c1")},
		{ID: "x", StableID: "x", Category: "weird", ParentNodeID: utils.Ptr("missing"), CreatedBy: utils.Ptr("ghost")},
		{ID: "y", StableID: "y", ParentNodeID: utils.Ptr("x"), CreatedBy: utils.Ptr("old-bob")},
	}
	bundle.Edges = []dtos.EdgeDTO{
		{ID: "e1", SourceNodeID: "x", TargetNodeID: "y", Direction: "sideways"},
		{ID: "e2", SourceNodeID: "x", TargetNodeID: "x"},
		{ID: "e3", SourceNodeID: "x", TargetNodeID: "missing"},
		{ID: "e4", SourceNodeID: "x", TargetNodeID: "y"},
	}
	bundle.DataObjects = []dtos.DataObjectDTO{{ID: "d1", Name: "Orders", Confidentiality: utils.Ptr(42)}}
	bundle.ComponentData = []dtos.ComponentDataDTO{
		{ID: "l1", NodeID: "x", DataObjectID: "d1", Role: "unknown"},
		{ID: "l2", NodeID: "c1", DataObjectID: "d1"},
	}
	bundle.EdgeDataFlows = []dtos.EdgeDataFlowDTO{
		{ID: "f1", EdgeID: "e1", DataObjectID: "d1"},
		{ID: "f2", EdgeID: "e2", DataObjectID: "d1"},
	}
	bundle.Findings = []dtos.FindingDTO{
		{ID: "fi1", AssetType: "interface", AssetID: "e1", Title: "plain http"},
		{ID: "fi2", AssetType: "interface", AssetID: "e3", Title: "dropped with its edge"},
		{ID: "fi3", AssetType: "spaceship", AssetID: "x", Title: "unknown asset type"},
	}
	bundle.Measures = []dtos.MeasureDTO{
		{ID: "m1", FindingID: "fi1", Title: "use tls"},
		{ID: "m2", FindingID: "fi2", Title: "orphan"},
	}

	resp, err := f.importer.Import(ctx, bob, importRequest(rawBundle(t, bundle)))
	require.NoError(t, err)
	require.Equal(t, 1, resp.ImportedCount)
	projectID := uuid.MustParse(resp.ImportedProjects[0].ID)
	warning := resp.ImportedProjects[0].Warning
	require.NotNil(t, warning)

	nodes, err := f.store.Nodes.FindByProject(nil, projectID)
	require.NoError(t, err)
	byStableID := utils.IndexBy(nodes, func(n models.ModelNode) string { return n.StableID })

	t.Run("should skip parent assignments which would create a cycle or target a non container", func(t *testing.T) {
		assert.Equal(t, byStableID["c2"].ID, *byStableID["c1"].ParentNodeID)
		assert.Nil(t, byStableID["c2"].ParentNodeID)
		assert.Nil(t, byStableID["x"].ParentNodeID)
		assert.Nil(t, byStableID["y"].ParentNodeID)
		assert.Contains(t, *warning, "3 parent assignments (parent is not a container: 1, unresolved reference: 1, would create a cycle: 1)")
	})

	t.Run("should substitute defaults for unknown enum values", func(t *testing.T) {
		assert.Equal(t, models.NodeCategoryComponent, byStableID["x"].Category)

		edges, err := f.store.Edges.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, models.EdgeDirectionAToB, edges[0].Direction)

		dataObjects, err := f.store.DataObjects.FindByProject(nil, projectID)
		require.NoError(t, err)
		assert.Equal(t, 10, dataObjects[0].Confidentiality)
		assert.Equal(t, 1, dataObjects[0].Integrity)
		assert.Equal(t, models.ClassificationInternal, dataObjects[0].Classification)
	})

	t.Run("should skip invalid edges and links", func(t *testing.T) {
		assert.Contains(t, *warning, "3 edges (duplicate: 1, self-loop: 1, unresolved reference: 1)")
		assert.Contains(t, *warning, "1 component-data mapping (node is a container: 1)")
		assert.Contains(t, *warning, "1 edge data-flow mapping (unresolved reference: 1)")
		f.assertClosed(t, projectID)
	})

	t.Run("should drop assessment rows whose reference did not survive", func(t *testing.T) {
		findings, err := f.store.Findings.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Equal(t, "plain http", findings[0].Title)
		measures, err := f.store.Measures.FindByProject(nil, projectID)
		require.NoError(t, err)
		require.Len(t, measures, 1)
		assert.Equal(t, "use tls", measures[0].Title)
		assert.Contains(t, *warning, "2 findings (unknown asset type: 1, unresolved reference: 1)")
		assert.Contains(t, *warning, "1 measure (unresolved reference: 1)")
	})

	t.Run("should resolve users by email and null unknown audit references", func(t *testing.T) {
		assert.Nil(t, byStableID["x"].CreatedByID)
		assert.Equal(t, bob.UserID, *byStableID["y"].CreatedByID)

		members, err := f.store.Memberships.FindByProject(nil, projectID)
		require.NoError(t, err)
		// bob is the creator, his old membership is merged into it
		require.Len(t, members, 1)
		assert.Equal(t, models.MembershipRoleAdmin, members[0].Role)
		assert.Contains(t, *warning, "1 member (user not found: 1)")
	})
}
