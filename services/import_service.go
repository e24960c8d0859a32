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
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/interchange"
	"github.com/l3montree-dev/modelguard/monitoring"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/l3montree-dev/modelguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
)

const defaultImportMaxBundles = 50

type importService struct {
	store      shared.ProjectStore
	broker     shared.PubSubBroker
	maxBundles int
}

var _ shared.ImportService = (*importService)(nil)

func NewImportService(store shared.ProjectStore, broker shared.PubSubBroker) *importService {
	return &importService{
		store:      store,
		broker:     broker,
		maxBundles: shared.GetEnvInt("IMPORT_MAX_BUNDLES", defaultImportMaxBundles),
	}
}

// Import creates one new project per bundle item. Items are processed one after another, each in its
// own transaction, a failing item never affects its siblings.
func (s *importService) Import(ctx context.Context, caller shared.Caller, req dtos.ImportRequest) (dtos.ImportResponse, error) {
	if req.Format != dtos.BundleFormat {
		return dtos.ImportResponse{}, echo.NewHTTPError(400, fmt.Sprintf("unsupported format %q", req.Format)).WithInternal(interchange.ErrUnsupportedFormat)
	}
	if req.Version > dtos.BundleVersion {
		return dtos.ImportResponse{}, echo.NewHTTPError(400, fmt.Sprintf("unsupported version %d, the newest supported version is %d", req.Version, dtos.BundleVersion)).WithInternal(interchange.ErrUnsupportedFormat)
	}
	if len(req.Projects) > s.maxBundles {
		return dtos.ImportResponse{}, echo.NewHTTPError(400, fmt.Sprintf("too many projects in one import, at most %d are allowed", s.maxBundles))
	}

	resp := dtos.ImportResponse{
		ImportedProjects: []dtos.ImportedProject{},
		FailedProjects:   []dtos.FailedProject{},
	}

	for i, raw := range req.Projects {
		project, warning, err := s.importItem(ctx, caller, i, raw)
		if err != nil {
			monitoring.FailedImportItemsAmount.Inc()
			resp.FailedProjects = append(resp.FailedProjects, dtos.FailedProject{
				Index: i,
				Name:  attemptedName(raw),
				Error: failureReason(err),
			})
			continue
		}

		monitoring.ImportedProjectsAmount.Inc()
		resp.ImportedProjects = append(resp.ImportedProjects, dtos.ImportedProject{
			ID:      project.ID.String(),
			Name:    project.Name,
			Warning: warning,
		})
	}

	resp.ImportedCount = len(resp.ImportedProjects)
	resp.FailedCount = len(resp.FailedProjects)
	return resp, nil
}

// importFailure marks an item that could not be used at all, its message is safe to hand back to the caller.
type importFailure struct {
	err error
}

func (f importFailure) Error() string {
	return f.err.Error()
}

func (f importFailure) Unwrap() error {
	return f.err
}

func failureReason(err error) string {
	var failure importFailure
	if errors.As(err, &failure) {
		return failure.Error()
	}
	return "could not store project, the import of this project was rolled back"
}

func attemptedName(raw json.RawMessage) string {
	var item struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return ""
	}
	return item.Project.Name
}

func decodeBundle(raw json.RawMessage) (dtos.ProjectBundle, error) {
	var bundle dtos.ProjectBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return bundle, importFailure{errors.Wrap(err, "malformed project bundle")}
	}
	if bundle.Format != "" && bundle.Format != dtos.BundleFormat {
		return bundle, importFailure{errors.Wrapf(interchange.ErrUnsupportedFormat, "bundle format %q", bundle.Format)}
	}
	if bundle.Version > dtos.BundleVersion {
		return bundle, importFailure{errors.Wrapf(interchange.ErrUnsupportedFormat, "bundle version %d", bundle.Version)}
	}
	return bundle, nil
}

func (s *importService) importItem(ctx context.Context, caller shared.Caller, index int, raw json.RawMessage) (models.Project, *string, error) {
	ctx, span := monitoring.Tracer().Start(ctx, "import.project")
	defer span.End()
	span.SetAttributes(attribute.Int("modelguard.import.index", index))

	project, tally, err := s.importBundle(ctx, caller, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import failed")

		var failure importFailure
		if errors.As(err, &failure) {
			slog.Error("could not import project", "index", index, "err", err)
		} else {
			slog.Error("unexpected error while importing project, rolled back", "index", index, "err", err)
			monitoring.Alert("could not import project", err)
		}
		return models.Project{}, nil, err
	}

	span.SetAttributes(attribute.String("modelguard.project.id", project.ID.String()))
	for kind, n := range tally.SkippedByKind() {
		monitoring.SkippedItemsAmount.WithLabelValues("import", string(kind)).Add(float64(n))
	}
	if err := s.broker.Publish(ctx, shared.NewProjectChangeMessage(project.ID.String(), "imported")); err != nil {
		slog.Warn("could not publish project change", "projectID", project.ID, "err", err)
	}
	slog.Info("imported project", "projectID", project.ID, "name", project.Name, "skipped", tally.TotalSkipped())
	return project, tally.Warning(), nil
}

func (s *importService) importBundle(ctx context.Context, caller shared.Caller, raw json.RawMessage) (models.Project, *interchange.Tally, error) {
	bundle, err := decodeBundle(raw)
	if err != nil {
		return models.Project{}, nil, err
	}
	project, err := interchange.ProjectFromMeta(bundle.Project)
	if err != nil {
		return models.Project{}, nil, importFailure{err}
	}

	tally := interchange.NewTally()
	remapper := interchange.NewRemapper()

	err = s.store.DB.WithContext(ctx).Transaction(func(tx shared.DB) error {
		users, err := s.resolveUsers(tx, bundle.Users)
		if err != nil {
			return err
		}
		audit := func(createdBy, updatedBy *string) models.Audit {
			return models.Audit{CreatedByID: users.resolve(createdBy), UpdatedByID: users.resolve(updatedBy)}
		}

		project.Audit = models.NewAudit(caller.UserIDPtr())
		if err := s.store.Projects.Create(tx, &project); err != nil {
			return errors.Wrap(err, "could not create project")
		}

		if err := s.writeMembers(tx, project.ID, caller, bundle.Members, users, tally); err != nil {
			return err
		}

		w, err := newGraphWriter(s.store, tx, project.ID, "import", remapper, tally, audit)
		if err != nil {
			return err
		}
		if err := w.writeGraph(bundle.Nodes, bundle.Edges, bundle.DataObjects, bundle.ComponentData, bundle.EdgeDataFlows); err != nil {
			return err
		}

		return s.writeAssessment(tx, w, bundle, users)
	})
	if err != nil {
		return models.Project{}, nil, err
	}
	return project, tally, nil
}

// userDirectory maps user ids of the source system to existing local accounts, matched by email.
type userDirectory map[string]uuid.UUID

func (d userDirectory) resolve(oldID *string) *uuid.UUID {
	if oldID == nil {
		return nil
	}
	id, ok := d[*oldID]
	if !ok {
		return nil
	}
	return &id
}

func (s *importService) resolveUsers(tx shared.DB, users []dtos.UserDTO) (userDirectory, error) {
	dir := make(userDirectory, len(users))
	emails := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			emails = append(emails, utils.NormalizeEmail(u.Email))
		}
	}
	if len(emails) == 0 {
		return dir, nil
	}

	existing, err := s.store.Users.FindByEmails(tx, emails)
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve users by email")
	}
	byEmail := make(map[string]uuid.UUID, len(existing))
	for _, u := range existing {
		byEmail[utils.NormalizeEmail(u.Email)] = u.ID
	}
	for _, u := range users {
		if id, ok := byEmail[utils.NormalizeEmail(u.Email)]; ok && u.ID != "" {
			dir[u.ID] = id
		}
	}
	return dir, nil
}

// writeMembers makes the caller the creator of the project. The creator is the earliest membership,
// every other member is created strictly after it.
func (s *importService) writeMembers(tx shared.DB, projectID uuid.UUID, caller shared.Caller, members []dtos.MemberDTO, users userDirectory, tally *interchange.Tally) error {
	now := time.Now()
	rows := []models.Membership{{
		Model:     models.Model{CreatedAt: now},
		ProjectID: projectID,
		UserID:    caller.UserID,
		Role:      models.MembershipRoleAdmin,
	}}
	seen := map[uuid.UUID]struct{}{caller.UserID: {}}

	for _, m := range members {
		userID, ok := users[m.UserID]
		if !ok {
			tally.Skip(interchange.KindMember, interchange.ReasonUnknownUser)
			continue
		}
		if _, ok := seen[userID]; ok {
			// the caller is already the creator
			if userID != caller.UserID {
				tally.Skip(interchange.KindMember, interchange.ReasonDuplicate)
			}
			continue
		}
		seen[userID] = struct{}{}
		rows = append(rows, models.Membership{
			Model:     models.Model{CreatedAt: now.Add(time.Duration(len(rows)) * time.Millisecond)},
			ProjectID: projectID,
			UserID:    userID,
			Role:      models.ParseMembershipRole(m.Role),
		})
	}

	if err := s.store.Memberships.CreateBatch(tx, rows); err != nil {
		return errors.Wrap(err, "could not create memberships")
	}
	for range rows[1:] {
		tally.Create(interchange.KindMember)
	}
	return nil
}

// writeAssessment creates the assessment layer. Rows whose required reference did not survive are dropped.
func (s *importService) writeAssessment(tx shared.DB, w *graphWriter, bundle dtos.ProjectBundle, users userDirectory) error {
	assetValues := make([]models.AssetValue, 0, len(bundle.AssetValues))
	for i, a := range bundle.AssetValues {
		ref, reason, ok := w.assetRef(a.AssetType, a.AssetID)
		if !ok {
			w.skip(interchange.KindAssetValue, reason, a.ID)
			continue
		}
		assetValues = append(assetValues, models.AssetValue{
			Model:         models.Model{ID: w.remapper.Allocate(a.ID, interchange.KindAssetValue, i)},
			Audit:         w.audit(a.CreatedBy, a.UpdatedBy),
			AssetRef:      ref,
			ProjectID:     w.projectID,
			Value:         interchange.Rating(a.Value),
			Justification: a.Justification,
		})
	}
	if err := createAll(tx, s.store.AssetValues, assetValues, w.tally, interchange.KindAssetValue); err != nil {
		return err
	}

	questions := make([]models.Question, 0, len(bundle.Questions))
	for i, q := range bundle.Questions {
		ref, reason, ok := w.assetRef(q.AssetType, q.AssetID)
		if !ok {
			w.skip(interchange.KindQuestion, reason, q.ID)
			continue
		}
		questions = append(questions, models.Question{
			Model:     models.Model{ID: w.remapper.Allocate(q.ID, interchange.KindQuestion, i)},
			AssetRef:  ref,
			ProjectID: w.projectID,
			Norm:      q.Norm,
			Text:      q.Text,
		})
	}
	if err := createAll(tx, s.store.Questions, questions, w.tally, interchange.KindQuestion); err != nil {
		return err
	}

	answers := make([]models.Answer, 0, len(bundle.Answers))
	for i, a := range bundle.Answers {
		questionID, ok := w.remapper.Resolve(interchange.KindQuestion, a.QuestionID)
		if !ok {
			w.skip(interchange.KindAnswer, interchange.ReasonUnresolved, a.ID)
			continue
		}
		answers = append(answers, models.Answer{
			Model:      models.Model{ID: w.remapper.Allocate(a.ID, interchange.KindAnswer, i)},
			ProjectID:  w.projectID,
			QuestionID: questionID,
			AuthorID:   users.resolve(a.AuthorID),
			Value:      a.Value,
		})
	}
	if err := createAll(tx, s.store.Answers, answers, w.tally, interchange.KindAnswer); err != nil {
		return err
	}

	finalAnswers := make([]models.FinalAnswer, 0, len(bundle.FinalAnswers))
	for i, f := range bundle.FinalAnswers {
		questionID, ok := w.remapper.Resolve(interchange.KindQuestion, f.QuestionID)
		if !ok {
			w.skip(interchange.KindFinalAnswer, interchange.ReasonUnresolved, f.ID)
			continue
		}
		ref, reason, ok := w.assetRef(f.AssetType, f.AssetID)
		if !ok {
			w.skip(interchange.KindFinalAnswer, reason, f.ID)
			continue
		}
		finalAnswers = append(finalAnswers, models.FinalAnswer{
			Model:      models.Model{ID: w.remapper.Allocate(f.ID, interchange.KindFinalAnswer, i)},
			Audit:      w.audit(f.CreatedBy, f.UpdatedBy),
			AssetRef:   ref,
			ProjectID:  w.projectID,
			QuestionID: questionID,
			Value:      f.Value,
		})
	}
	if err := createAll(tx, s.store.FinalAnswers, finalAnswers, w.tally, interchange.KindFinalAnswer); err != nil {
		return err
	}

	findings := make([]models.Finding, 0, len(bundle.Findings))
	for i, f := range bundle.Findings {
		ref, reason, ok := w.assetRef(f.AssetType, f.AssetID)
		if !ok {
			w.skip(interchange.KindFinding, reason, f.ID)
			continue
		}
		findings = append(findings, models.Finding{
			Model:       models.Model{ID: w.remapper.Allocate(f.ID, interchange.KindFinding, i)},
			Audit:       w.audit(f.CreatedBy, f.UpdatedBy),
			AssetRef:    ref,
			ProjectID:   w.projectID,
			Title:       f.Title,
			Description: f.Description,
			Severity:    f.Severity,
		})
	}
	if err := createAll(tx, s.store.Findings, findings, w.tally, interchange.KindFinding); err != nil {
		return err
	}

	measures := make([]models.Measure, 0, len(bundle.Measures))
	for i, m := range bundle.Measures {
		findingID, ok := w.remapper.Resolve(interchange.KindFinding, m.FindingID)
		if !ok {
			w.skip(interchange.KindMeasure, interchange.ReasonUnresolved, m.ID)
			continue
		}
		measures = append(measures, models.Measure{
			Model:       models.Model{ID: w.remapper.Allocate(m.ID, interchange.KindMeasure, i)},
			Audit:       w.audit(m.CreatedBy, m.UpdatedBy),
			ProjectID:   w.projectID,
			FindingID:   findingID,
			Title:       m.Title,
			Description: m.Description,
			Status:      m.Status,
		})
	}
	if err := createAll(tx, s.store.Measures, measures, w.tally, interchange.KindMeasure); err != nil {
		return err
	}

	reports := make([]models.Report, 0, len(bundle.Reports))
	for i, r := range bundle.Reports {
		reports = append(reports, models.Report{
			Model:     models.Model{ID: w.remapper.Allocate(r.ID, interchange.KindReport, i)},
			Audit:     w.audit(r.CreatedBy, r.UpdatedBy),
			ProjectID: w.projectID,
			Name:      r.Name,
			Content:   datatypes.JSON(r.Content),
		})
	}
	if err := createAll(tx, s.store.Reports, reports, w.tally, interchange.KindReport); err != nil {
		return err
	}

	snapshots := make([]models.Snapshot, 0, len(bundle.Savepoints))
	for i, sp := range bundle.Savepoints {
		if len(sp.Document) == 0 || string(sp.Document) == "null" {
			w.skip(interchange.KindSnapshot, interchange.ReasonEmptyDocument, sp.ID)
			continue
		}
		snapshots = append(snapshots, models.Snapshot{
			Model:       models.Model{ID: w.remapper.Allocate(sp.ID, interchange.KindSnapshot, i), CreatedAt: sp.CreatedAt},
			ProjectID:   w.projectID,
			CreatedByID: users.resolve(sp.CreatedBy),
			Name:        sp.Name,
			Document:    datatypes.JSON(rebaseSnapshotDocument(sp.Document, w.remapper)),
		})
	}
	return createAll(tx, s.store.Snapshots, snapshots, w.tally, interchange.KindSnapshot)
}

// rebaseSnapshotDocument points a savepoint at the freshly imported graph, so restoring it keeps the
// assessment records of the imported project. Unreadable documents are kept verbatim.
func rebaseSnapshotDocument(raw json.RawMessage, remapper *interchange.Remapper) json.RawMessage {
	doc, err := interchange.ParseSnapshot(raw)
	if err != nil {
		slog.Warn("keeping unreadable savepoint document as it is", "err", err)
		return raw
	}
	b, err := json.Marshal(interchange.RemapSnapshotDocument(doc, remapper))
	if err != nil {
		return raw
	}
	return b
}

func createAll[T utils.Tabler](tx shared.DB, repo shared.ProjectScopedRepository[T], rows []T, tally *interchange.Tally, kind interchange.Kind) error {
	if err := repo.CreateBatch(tx, rows); err != nil {
		return errors.Wrapf(err, "could not create %s rows", kind)
	}
	for range rows {
		tally.Create(kind)
	}
	return nil
}
