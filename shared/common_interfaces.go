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

package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/utils"
)

type UserRepository interface {
	utils.Repository[uuid.UUID, models.User, DB]
	// FindByEmails matches case-insensitive.
	FindByEmails(tx DB, emails []string) ([]models.User, error)
	FindByIDs(tx DB, ids []uuid.UUID) ([]models.User, error)
	ReadByEmail(email string) (models.User, error)
	FirstOrCreate(tx DB, user *models.User) error
}

type ConfigRepository interface {
	utils.Repository[string, models.Config, DB]
	FindByKey(key string) (models.Config, error)
	DeleteByKey(tx DB, key string) error
}

type ProjectRepository interface {
	utils.Repository[uuid.UUID, models.Project, DB]
	ReadUnscoped(id uuid.UUID) (models.Project, error)
	ListForUser(userID uuid.UUID) ([]models.Project, error)
	Trash(tx DB, id uuid.UUID) error
	Untrash(tx DB, id uuid.UUID) error
	// Purge hard deletes the project together with every row it owns.
	Purge(tx DB, id uuid.UUID) error
	FindTrashedBefore(t time.Time) ([]models.Project, error)
}

type ProjectScopedRepository[T utils.Tabler] interface {
	utils.Repository[uuid.UUID, T, DB]
	FindByProject(tx DB, projectID uuid.UUID) ([]T, error)
	DeleteByProject(tx DB, projectID uuid.UUID) error
	DeleteByIDs(tx DB, ids []uuid.UUID) error
}

type MembershipRepository interface {
	ProjectScopedRepository[models.Membership]
	FindRole(projectID, userID uuid.UUID) (models.MembershipRole, error)
	// Creator returns the earliest membership of the project.
	Creator(tx DB, projectID uuid.UUID) (models.Membership, error)
}

type ModelNodeRepository interface {
	ProjectScopedRepository[models.ModelNode]
	UpdateParent(tx DB, nodeID uuid.UUID, parentID *uuid.UUID, updatedBy *uuid.UUID) error
}

type ModelEdgeRepository = ProjectScopedRepository[models.ModelEdge]
type DataObjectRepository = ProjectScopedRepository[models.DataObject]
type ComponentDataLinkRepository = ProjectScopedRepository[models.ComponentDataLink]
type EdgeDataFlowLinkRepository = ProjectScopedRepository[models.EdgeDataFlowLink]
type AssetValueRepository = ProjectScopedRepository[models.AssetValue]
type QuestionRepository = ProjectScopedRepository[models.Question]
type AnswerRepository = ProjectScopedRepository[models.Answer]
type FinalAnswerRepository = ProjectScopedRepository[models.FinalAnswer]
type FindingRepository = ProjectScopedRepository[models.Finding]
type MeasureRepository = ProjectScopedRepository[models.Measure]
type ReportRepository = ProjectScopedRepository[models.Report]
type SnapshotRepository = ProjectScopedRepository[models.Snapshot]

// ProjectStore groups every repository holding a part of a project's data closure.
// DB is the root handle transactions are started from.
type ProjectStore struct {
	DB            DB
	Users         UserRepository
	Projects      ProjectRepository
	Memberships   MembershipRepository
	Nodes         ModelNodeRepository
	Edges         ModelEdgeRepository
	DataObjects   DataObjectRepository
	ComponentData ComponentDataLinkRepository
	EdgeDataFlows EdgeDataFlowLinkRepository
	AssetValues   AssetValueRepository
	Questions     QuestionRepository
	Answers       AnswerRepository
	FinalAnswers  FinalAnswerRepository
	Findings      FindingRepository
	Measures      MeasureRepository
	Reports       ReportRepository
	Snapshots     SnapshotRepository
}

type Object string

const (
	ObjectProject     Object = "project"
	ObjectGraph       Object = "graph"
	ObjectSnapshot    Object = "snapshot"
	ObjectInterchange Object = "interchange"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionExport  Action = "export"
	ActionImport  Action = "import"
	ActionRestore Action = "restore"
)

// Authorizer decides based on the caller's global role and its membership role in a project.
// membershipRole is nil if the caller is no member.
type Authorizer interface {
	IsAllowed(caller Caller, membershipRole *models.MembershipRole, object Object, action Action) bool
	CanExport(caller Caller, membershipRole *models.MembershipRole) bool
	CanImport(caller Caller) bool
	CanRestore(caller Caller, membershipRole *models.MembershipRole) bool
}

type ProjectService interface {
	Create(ctx context.Context, caller Caller, req dtos.ProjectCreateRequest) (models.Project, error)
	ListForUser(caller Caller) ([]models.Project, error)
	Trash(ctx context.Context, projectID uuid.UUID) error
	Untrash(ctx context.Context, projectID uuid.UUID) error
	Purge(ctx context.Context, projectID uuid.UUID) error
	PurgeTrashedBefore(ctx context.Context, before time.Time) (int, error)
	Creator(projectID uuid.UUID) (models.Membership, error)
}

type GraphService interface {
	SetParent(ctx context.Context, caller Caller, projectID, nodeID uuid.UUID, parentID *uuid.UUID) (models.ModelNode, error)
}

type SnapshotService interface {
	Capture(ctx context.Context, caller Caller, projectID uuid.UUID, req dtos.CreateSnapshotRequest) (models.Snapshot, error)
	List(projectID uuid.UUID) ([]models.Snapshot, error)
}

type ExportService interface {
	// Export never fails as a whole for missing or forbidden projects, those are reported per id.
	Export(ctx context.Context, caller Caller, projectIDs []uuid.UUID, format string) (dtos.ExportResponse, error)
	ExportProject(ctx context.Context, projectID uuid.UUID) (dtos.ProjectBundle, error)
}

type ImportService interface {
	Import(ctx context.Context, caller Caller, req dtos.ImportRequest) (dtos.ImportResponse, error)
}

type RestoreService interface {
	Restore(ctx context.Context, caller Caller, projectID, snapshotID uuid.UUID) (dtos.RestoreResponse, error)
}

type ConfigService interface {
	GetJSONConfig(key string, v any) error
	SetJSONConfig(key string, v any) error
	RemoveConfig(key string) error
}

// LeaderElector decides which instance runs the background jobs.
type LeaderElector interface {
	IsLeader() bool
}

type TrashDaemon interface {
	Start()
	RunOnce(ctx context.Context) error
}
