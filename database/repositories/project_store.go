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

package repositories

import (
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
)

func NewProjectStore(db shared.DB) shared.ProjectStore {
	return shared.ProjectStore{
		DB:            db,
		Users:         NewUserRepository(db),
		Projects:      NewProjectRepository(db),
		Memberships:   NewMembershipRepository(db),
		Nodes:         NewModelNodeRepository(db),
		Edges:         newProjectScopedRepository[models.ModelEdge](db),
		DataObjects:   newProjectScopedRepository[models.DataObject](db),
		ComponentData: newProjectScopedRepository[models.ComponentDataLink](db),
		EdgeDataFlows: newProjectScopedRepository[models.EdgeDataFlowLink](db),
		AssetValues:   newProjectScopedRepository[models.AssetValue](db),
		Questions:     newProjectScopedRepository[models.Question](db),
		Answers:       newProjectScopedRepository[models.Answer](db),
		FinalAnswers:  newProjectScopedRepository[models.FinalAnswer](db),
		Findings:      newProjectScopedRepository[models.Finding](db),
		Measures:      newProjectScopedRepository[models.Measure](db),
		Reports:       newProjectScopedRepository[models.Report](db),
		Snapshots:     newProjectScopedRepository[models.Snapshot](db),
	}
}
