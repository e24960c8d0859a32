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

package daemons

import (
	"context"
	"log/slog"
	"time"

	"github.com/l3montree-dev/modelguard/monitoring"
	"github.com/l3montree-dev/modelguard/shared"
)

const trashPurgeKey = "trash.lastPurge"

// TrashDaemon hard deletes projects which stayed in the trash longer than the retention window.
type TrashDaemon struct {
	projectService shared.ProjectService
	configService  shared.ConfigService
	leaderElector  shared.LeaderElector

	retention time.Duration
	interval  time.Duration
}

var _ shared.TrashDaemon = (*TrashDaemon)(nil)

func NewTrashDaemon(projectService shared.ProjectService, configService shared.ConfigService, leaderElector shared.LeaderElector) *TrashDaemon {
	return &TrashDaemon{
		projectService: projectService,
		configService:  configService,
		leaderElector:  leaderElector,
		retention:      time.Duration(shared.GetEnvInt("TRASH_RETENTION_DAYS", 30)) * 24 * time.Hour,
		interval:       time.Hour,
	}
}

// Start runs the purge once per interval on the leader instance.
func (daemon *TrashDaemon) Start() {
	go func() {
		daemon.tick(context.Background())
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			daemon.tick(context.Background())
		}
	}()
}

func (daemon *TrashDaemon) tick(ctx context.Context) {
	if !daemon.leaderElector.IsLeader() {
		slog.Debug("not the leader - skipping trash purge")
		return
	}
	if !shouldRun(daemon.configService, trashPurgeKey, daemon.interval) {
		return
	}
	if err := daemon.RunOnce(ctx); err != nil {
		monitoring.Alert("could not purge trashed projects", err)
		return
	}
	if err := markRun(daemon.configService, trashPurgeKey); err != nil {
		slog.Error("could not mark trash purge as done", "err", err)
	}
}

func (daemon *TrashDaemon) RunOnce(ctx context.Context) error {
	start := time.Now()
	defer func() {
		monitoring.TrashPurgeDuration.Observe(time.Since(start).Seconds())
	}()

	purged, err := daemon.projectService.PurgeTrashedBefore(ctx, time.Now().Add(-daemon.retention))
	if err != nil {
		return err
	}
	monitoring.TrashPurgedProjectsAmount.Add(float64(purged))
	slog.Info("purged trashed projects", "amount", purged, "duration", time.Since(start))
	return nil
}
