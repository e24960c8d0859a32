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
	"github.com/l3montree-dev/modelguard/accesscontrol"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/tests"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db     shared.DB
	store  shared.ProjectStore
	broker *tests.InMemoryBroker

	projects  *projectService
	exporter  *exportService
	importer  *importService
	restorer  *restoreService
	snapshots *snapshotService
	graph     *graphService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWithDB(t, tests.NewSQLiteDB(t))
}

func newFixtureWithDB(t *testing.T, db shared.DB) fixture {
	t.Helper()
	store := repositories.NewProjectStore(db)
	broker := tests.NewInMemoryBroker()
	authorizer, err := accesscontrol.NewInMemoryAuthorizer()
	require.NoError(t, err)

	return fixture{
		db:        db,
		store:     store,
		broker:    broker,
		projects:  NewProjectService(store, broker),
		exporter:  NewExportService(store, authorizer),
		importer:  NewImportService(store, broker),
		restorer:  NewRestoreService(store, broker),
		snapshots: NewSnapshotService(store),
		graph:     NewGraphService(store, broker),
	}
}

func (f fixture) user(t *testing.T, email string) shared.Caller {
	t.Helper()
	u := models.User{Email: email, Name: email}
	require.NoError(t, f.store.Users.Create(nil, &u))
	return shared.NewCaller(u)
}

func (f fixture) project(t *testing.T, caller shared.Caller, name string) models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), caller, dtos.ProjectCreateRequest{Name: name, Norms: []string{"iso27001"}})
	require.NoError(t, err)
	return p
}

// sampleGraph is the round trip graph: nodes A and B, an edge A to B and a data object "Secret" linked to A.
type sampleGraph struct {
	a, b   models.ModelNode
	edge   models.ModelEdge
	secret models.DataObject
	link   models.ComponentDataLink
}

func (f fixture) sampleGraph(t *testing.T, caller shared.Caller, projectID uuid.UUID) sampleGraph {
	t.Helper()
	audit := models.NewAudit(caller.UserIDPtr())

	g := sampleGraph{
		a: models.ModelNode{Audit: audit, ProjectID: projectID, StableID: "a", Name: "A", Category: models.NodeCategoryComponent},
		b: models.ModelNode{Audit: audit, ProjectID: projectID, StableID: "b", Name: "B", Category: models.NodeCategoryComponent},
		secret: models.DataObject{
			Audit: audit, ProjectID: projectID, Name: "Secret", Classification: models.ClassificationSecret,
			Confidentiality: 9, Integrity: 5, Availability: 2,
		},
	}
	require.NoError(t, f.store.Nodes.Create(nil, &g.a))
	require.NoError(t, f.store.Nodes.Create(nil, &g.b))
	require.NoError(t, f.store.DataObjects.Create(nil, &g.secret))

	g.edge = models.ModelEdge{Audit: audit, ProjectID: projectID, SourceNodeID: g.a.ID, TargetNodeID: g.b.ID, Direction: models.EdgeDirectionAToB, Protocol: "https"}
	require.NoError(t, f.store.Edges.Create(nil, &g.edge))

	g.link = models.ComponentDataLink{ProjectID: projectID, NodeID: g.a.ID, DataObjectID: g.secret.ID, Role: models.ComponentDataRoleStores}
	require.NoError(t, f.store.ComponentData.Create(nil, &g.link))
	return g
}

func rawBundle(t *testing.T, bundle dtos.ProjectBundle) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(bundle)
	require.NoError(t, err)
	return b
}

func importRequest(items ...json.RawMessage) dtos.ImportRequest {
	return dtos.ImportRequest{Format: dtos.BundleFormat, Version: dtos.BundleVersion, Projects: items}
}

// minimalBundle returns a bundle with only project metadata set.
func minimalBundle(name string) dtos.ProjectBundle {
	return dtos.ProjectBundle{
		Format:  dtos.BundleFormat,
		Version: dtos.BundleVersion,
		Project: dtos.ProjectMetaDTO{ID: uuid.NewString(), Name: name, Visibility: "private"},
	}
}

func nodeNames(nodes []models.ModelNode) []string {
	return utils.Map(nodes, func(n models.ModelNode) string { return n.Name })
}

// assertClosed checks that every link, finding and measure of the project points into the project.
func (f fixture) assertClosed(t *testing.T, projectID uuid.UUID) {
	t.Helper()
	nodes, err := f.store.Nodes.FindByProject(nil, projectID)
	require.NoError(t, err)
	edges, err := f.store.Edges.FindByProject(nil, projectID)
	require.NoError(t, err)
	dataObjects, err := f.store.DataObjects.FindByProject(nil, projectID)
	require.NoError(t, err)

	nodeIDs := utils.IndexBy(nodes, func(n models.ModelNode) uuid.UUID { return n.ID })
	edgeIDs := utils.IndexBy(edges, func(e models.ModelEdge) uuid.UUID { return e.ID })
	dataObjectIDs := utils.IndexBy(dataObjects, func(o models.DataObject) uuid.UUID { return o.ID })
	assetExists := func(ref models.AssetRef) bool {
		switch ref.AssetType {
		case models.AssetTypeComponent:
			_, ok := nodeIDs[ref.AssetID]
			return ok
		case models.AssetTypeInterface:
			_, ok := edgeIDs[ref.AssetID]
			return ok
		default:
			_, ok := dataObjectIDs[ref.AssetID]
			return ok
		}
	}

	componentData, err := f.store.ComponentData.FindByProject(nil, projectID)
	require.NoError(t, err)
	for _, l := range componentData {
		require.Contains(t, nodeIDs, l.NodeID)
		require.Contains(t, dataObjectIDs, l.DataObjectID)
	}
	edgeDataFlows, err := f.store.EdgeDataFlows.FindByProject(nil, projectID)
	require.NoError(t, err)
	for _, l := range edgeDataFlows {
		require.Contains(t, edgeIDs, l.EdgeID)
		require.Contains(t, dataObjectIDs, l.DataObjectID)
	}
	for _, e := range edges {
		require.Contains(t, nodeIDs, e.SourceNodeID)
		require.Contains(t, nodeIDs, e.TargetNodeID)
	}
	for _, n := range nodes {
		if n.ParentNodeID != nil {
			require.Contains(t, nodeIDs, *n.ParentNodeID)
		}
	}

	findings, err := f.store.Findings.FindByProject(nil, projectID)
	require.NoError(t, err)
	findingIDs := utils.IndexBy(findings, func(finding models.Finding) uuid.UUID { return finding.ID })
	for _, finding := range findings {
		require.True(t, assetExists(finding.AssetRef), "finding %s points outside the project", finding.ID)
	}
	measures, err := f.store.Measures.FindByProject(nil, projectID)
	require.NoError(t, err)
	for _, m := range measures {
		require.Contains(t, findingIDs, m.FindingID)
	}
}
