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
	"log/slog"
	"sync"
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
	"gorm.io/gorm"
)

type restoreService struct {
	store  shared.ProjectStore
	broker shared.PubSubBroker

	// one restore per project at a time, only running restores are kept
	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

var _ shared.RestoreService = (*restoreService)(nil)

func NewRestoreService(store shared.ProjectStore, broker shared.PubSubBroker) *restoreService {
	return &restoreService{
		store:   store,
		broker:  broker,
		running: make(map[uuid.UUID]struct{}),
	}
}

func (s *restoreService) lock(projectID uuid.UUID) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[projectID]; ok {
		return nil, false
	}
	s.running[projectID] = struct{}{}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.running, projectID)
	}, true
}

// Restore replaces the canonical graph of the project with the graph captured in the snapshot.
func (s *restoreService) Restore(ctx context.Context, caller shared.Caller, projectID, snapshotID uuid.UUID) (dtos.RestoreResponse, error) {
	ctx, span := monitoring.Tracer().Start(ctx, "restore.project")
	defer span.End()
	span.SetAttributes(
		attribute.String("modelguard.project.id", projectID.String()),
		attribute.String("modelguard.snapshot.id", snapshotID.String()),
	)

	unlock, ok := s.lock(projectID)
	if !ok {
		monitoring.RestoreAmount.WithLabelValues("conflict").Inc()
		return dtos.RestoreResponse{}, echo.NewHTTPError(409, "a restore of this project is already running")
	}
	defer unlock()

	start := time.Now()
	defer func() {
		monitoring.RestoreDuration.Observe(time.Since(start).Seconds())
	}()

	snapshot, err := s.store.Snapshots.Read(snapshotID)
	if err != nil || snapshot.ProjectID != projectID {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.RestoreResponse{}, echo.NewHTTPError(404, "snapshot not found")
		}
		return dtos.RestoreResponse{}, echo.NewHTTPError(500, "could not read snapshot").WithInternal(err)
	}

	doc, err := interchange.ParseSnapshot(snapshot.Document)
	if err != nil {
		monitoring.RestoreAmount.WithLabelValues("corrupted").Inc()
		span.SetStatus(codes.Error, "corrupted snapshot")
		slog.Error("could not restore corrupted snapshot", "projectID", projectID, "snapshotID", snapshotID, "err", err)
		return dtos.RestoreResponse{}, echo.NewHTTPError(422, "corrupted snapshot").WithInternal(err)
	}

	tally := interchange.NewTally()
	remapper := interchange.NewRemapper()
	audit := func(_, _ *string) models.Audit {
		return models.NewAudit(caller.UserIDPtr())
	}

	var counts dtos.RestoredCounts
	err = s.store.DB.WithContext(ctx).Transaction(func(tx shared.DB) error {
		previous, err := loadGraph(s.store, tx, projectID)
		if err != nil {
			return err
		}
		if err := s.deleteGraph(tx, projectID); err != nil {
			return err
		}

		w, err := newGraphWriter(s.store, tx, projectID, "restore", remapper, tally, audit)
		if err != nil {
			return err
		}
		if err := w.writeGraph(doc.Nodes, doc.Edges, doc.DataObjects, doc.ComponentData, doc.EdgeDataFlows); err != nil {
			return err
		}
		counts = w.counts()

		return s.repointAssessment(tx, projectID, newAssetResolver(remapper, w.lineage, previous), tally)
	})
	if err != nil {
		monitoring.RestoreAmount.WithLabelValues("failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "restore failed")
		monitoring.Alert("could not restore snapshot", err)
		return dtos.RestoreResponse{}, echo.NewHTTPError(500, "could not restore snapshot, nothing was changed").WithInternal(err)
	}

	monitoring.RestoreAmount.WithLabelValues("success").Inc()
	for kind, n := range tally.SkippedByKind() {
		monitoring.SkippedItemsAmount.WithLabelValues("restore", string(kind)).Add(float64(n))
	}
	if err := s.broker.Publish(ctx, shared.NewProjectChangeMessage(projectID.String(), "restored")); err != nil {
		slog.Warn("could not publish project change", "projectID", projectID, "err", err)
	}
	slog.Info("restored snapshot", "projectID", projectID, "snapshotID", snapshotID, "nodes", counts.Nodes, "skipped", tally.TotalSkipped())

	return dtos.RestoreResponse{
		Restored: counts,
		State:    interchange.RemapViewState(doc.State, remapper),
		Warning:  tally.Warning(),
	}, nil
}

// deleteGraph removes the canonical graph, links before the entities they point at.
func (s *restoreService) deleteGraph(tx shared.DB, projectID uuid.UUID) error {
	if err := s.store.EdgeDataFlows.DeleteByProject(tx, projectID); err != nil {
		return errors.Wrap(err, "could not delete edge data flow mappings")
	}
	if err := s.store.ComponentData.DeleteByProject(tx, projectID); err != nil {
		return errors.Wrap(err, "could not delete component data mappings")
	}
	if err := s.store.Edges.DeleteByProject(tx, projectID); err != nil {
		return errors.Wrap(err, "could not delete edges")
	}
	if err := s.store.Nodes.DeleteByProject(tx, projectID); err != nil {
		return errors.Wrap(err, "could not delete nodes")
	}
	if err := s.store.DataObjects.DeleteByProject(tx, projectID); err != nil {
		return errors.Wrap(err, "could not delete data objects")
	}
	return nil
}

// assetResolver finds the restored copy of the asset an assessment record points at. Records point either
// at an entity captured in the snapshot or at a later copy of it, made by an earlier restore or import.
type assetResolver struct {
	remapper *interchange.Remapper
	lineage  *interchange.Lineage
	// lineage keys of the graph replaced by the restore
	previous map[interchange.Kind]map[uuid.UUID]string
}

func newAssetResolver(remapper *interchange.Remapper, lineage *interchange.Lineage, previous interchange.ProjectData) assetResolver {
	r := assetResolver{
		remapper: remapper,
		lineage:  lineage,
		previous: map[interchange.Kind]map[uuid.UUID]string{
			interchange.KindNode:       make(map[uuid.UUID]string, len(previous.Nodes)),
			interchange.KindEdge:       make(map[uuid.UUID]string, len(previous.Edges)),
			interchange.KindDataObject: make(map[uuid.UUID]string, len(previous.DataObjects)),
		},
	}
	for _, n := range previous.Nodes {
		r.previous[interchange.KindNode][n.ID] = n.LineageKey()
	}
	for _, e := range previous.Edges {
		r.previous[interchange.KindEdge][e.ID] = e.LineageKey()
	}
	for _, o := range previous.DataObjects {
		r.previous[interchange.KindDataObject][o.ID] = o.LineageKey()
	}
	return r
}

func (r assetResolver) resolve(kind interchange.Kind, assetID uuid.UUID) (uuid.UUID, bool) {
	if id, ok := r.remapper.Resolve(kind, assetID.String()); ok {
		return id, true
	}
	key, ok := r.previous[kind][assetID]
	if !ok {
		return uuid.Nil, false
	}
	return r.lineage.Resolve(kind, key)
}

// repointAssessment moves assessment records onto the restored graph. Records whose asset is not part
// of the snapshot are removed together with the rows depending on them.
func (s *restoreService) repointAssessment(tx shared.DB, projectID uuid.UUID, assets assetResolver, tally *interchange.Tally) error {
	removedQuestions, err := repointAssets(tx, s.store.Questions, projectID, assets, tally, interchange.KindQuestion)
	if err != nil {
		return err
	}
	if err := deleteDependents(tx, &models.Answer{}, "question_id", removedQuestions, tally, interchange.KindAnswer); err != nil {
		return err
	}
	if err := deleteDependents(tx, &models.FinalAnswer{}, "question_id", removedQuestions, tally, interchange.KindFinalAnswer); err != nil {
		return err
	}
	if _, err := repointAssets(tx, s.store.FinalAnswers, projectID, assets, tally, interchange.KindFinalAnswer); err != nil {
		return err
	}
	if _, err := repointAssets(tx, s.store.AssetValues, projectID, assets, tally, interchange.KindAssetValue); err != nil {
		return err
	}
	removedFindings, err := repointAssets(tx, s.store.Findings, projectID, assets, tally, interchange.KindFinding)
	if err != nil {
		return err
	}
	return deleteDependents(tx, &models.Measure{}, "finding_id", removedFindings, tally, interchange.KindMeasure)
}

type assetReferencing interface {
	utils.Tabler
	GetID() uuid.UUID
	GetAssetRef() models.AssetRef
}

// repointAssets returns the ids of the deleted rows.
func repointAssets[T assetReferencing](tx shared.DB, repo shared.ProjectScopedRepository[T], projectID uuid.UUID, assets assetResolver, tally *interchange.Tally, kind interchange.Kind) ([]uuid.UUID, error) {
	rows, err := repo.FindByProject(tx, projectID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load %s rows", kind)
	}

	removed := make([]uuid.UUID, 0)
	for _, row := range rows {
		ref := row.GetAssetRef()
		_, assetKind, ok := interchange.AssetKind(string(ref.AssetType))
		var assetID uuid.UUID
		if ok {
			assetID, ok = assets.resolve(assetKind, ref.AssetID)
		}
		if !ok {
			removed = append(removed, row.GetID())
			continue
		}
		if err := tx.Model(new(T)).Where("id = ?", row.GetID()).Update("asset_id", assetID).Error; err != nil {
			return nil, errors.Wrapf(err, "could not re-point %s", kind)
		}
	}

	if err := repo.DeleteByIDs(tx, removed); err != nil {
		return nil, errors.Wrapf(err, "could not delete %s rows", kind)
	}
	tally.SkipN(kind, interchange.ReasonAssetGone, len(removed))
	return removed, nil
}

func deleteDependents(tx shared.DB, model any, column string, ids []uuid.UUID, tally *interchange.Tally, kind interchange.Kind) error {
	if len(ids) == 0 {
		return nil
	}
	res := tx.Where(column+" IN ?", ids).Delete(model)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "could not delete %s rows", kind)
	}
	tally.SkipN(kind, interchange.ReasonAssetGone, int(res.RowsAffected))
	return nil
}
