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
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/shared"
)

const (
	leaderElectionKey = "leaderElection"
	// a leader which did not ping for this long is considered dead
	leaderTimeout = 360 * time.Second
)

type leaderElectionConfig struct {
	LeaderID string `json:"leaderId"`
	LastPing int64  `json:"lastPing"`
}

type databaseLeaderElector struct {
	leaderElectorID string
	configService   shared.ConfigService
	isLeader        atomic.Bool // updated by the daemon goroutine
}

var _ shared.LeaderElector = (*databaseLeaderElector)(nil)

func newDatabaseLeaderElector(configService shared.ConfigService) *databaseLeaderElector {
	return &databaseLeaderElector{
		configService:   configService,
		leaderElectorID: uuid.New().String(),
	}
}

// NewDatabaseLeaderElector starts pinging the configs table. The instance whose ping is fresh is the leader.
func NewDatabaseLeaderElector(configService shared.ConfigService) *databaseLeaderElector {
	e := newDatabaseLeaderElector(configService)
	go e.daemon()
	return e
}

func randomNumberBetween(min, max int) int {
	return rand.Intn(max-min) + min // #nosec
}

func (e *databaseLeaderElector) daemon() {
	for {
		e.refresh()
		time.Sleep(time.Duration(randomNumberBetween(60, 359)) * time.Second)
	}
}

func (e *databaseLeaderElector) refresh() {
	isLeader, err := e.checkIfLeader()
	if err != nil {
		slog.Error("could not check if leader", "err", err)
	}
	e.isLeader.Store(isLeader)
}

func (e *databaseLeaderElector) IsLeader() bool {
	return e.isLeader.Load()
}

func (e *databaseLeaderElector) makeLeader() error {
	return e.configService.SetJSONConfig(leaderElectionKey, leaderElectionConfig{
		LeaderID: e.leaderElectorID,
		LastPing: time.Now().Unix(),
	})
}

func (e *databaseLeaderElector) checkIfLeader() (bool, error) {
	var config leaderElectionConfig

	err := e.configService.GetJSONConfig(leaderElectionKey, &config)
	if err != nil {
		slog.Info("could not get leader election config", "err", err)
		// there is no leader yet
		return true, e.makeLeader()
	}

	if time.Since(time.Unix(config.LastPing, 0)) > leaderTimeout {
		// probably the leader died
		return true, e.makeLeader()
	}

	if config.LeaderID == e.leaderElectorID {
		// keep the ping fresh
		return true, e.makeLeader()
	}
	return false, nil
}
