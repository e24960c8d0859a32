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

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/interchange"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
)

// loadGraph reads the canonical graph of a project.
func loadGraph(store shared.ProjectStore, tx shared.DB, projectID uuid.UUID) (interchange.ProjectData, error) {
	var (
		data interchange.ProjectData
		err  error
	)
	if data.Nodes, err = store.Nodes.FindByProject(tx, projectID); err != nil {
		return data, errors.Wrap(err, "could not load nodes")
	}
	if data.Edges, err = store.Edges.FindByProject(tx, projectID); err != nil {
		return data, errors.Wrap(err, "could not load edges")
	}
	if data.DataObjects, err = store.DataObjects.FindByProject(tx, projectID); err != nil {
		return data, errors.Wrap(err, "could not load data objects")
	}
	if data.ComponentData, err = store.ComponentData.FindByProject(tx, projectID); err != nil {
		return data, errors.Wrap(err, "could not load component data mappings")
	}
	if data.EdgeDataFlows, err = store.EdgeDataFlows.FindByProject(tx, projectID); err != nil {
		return data, errors.Wrap(err, "could not load edge data flow mappings")
	}
	return data, nil
}

// loadProjectData reads the full data closure of a project together with every user it references.
// Every query runs under ctx.
func loadProjectData(ctx context.Context, store shared.ProjectStore, project models.Project) (interchange.ProjectData, error) {
	tx := store.DB.WithContext(ctx)
	data, err := loadGraph(store, tx, project.ID)
	if err != nil {
		return data, err
	}
	data.Project = project

	if data.Members, err = store.Memberships.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load memberships")
	}
	if data.AssetValues, err = store.AssetValues.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load asset values")
	}
	if data.Questions, err = store.Questions.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load questions")
	}
	if data.Answers, err = store.Answers.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load answers")
	}
	if data.FinalAnswers, err = store.FinalAnswers.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load final answers")
	}
	if data.Findings, err = store.Findings.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load findings")
	}
	if data.Measures, err = store.Measures.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load measures")
	}
	if data.Reports, err = store.Reports.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load reports")
	}
	if data.Snapshots, err = store.Snapshots.FindByProject(tx, project.ID); err != nil {
		return data, errors.Wrap(err, "could not load snapshots")
	}

	if data.Users, err = store.Users.FindByIDs(tx, data.ReferencedUserIDs()); err != nil {
		return data, errors.Wrap(err, "could not load referenced users")
	}
	return data, nil
}
