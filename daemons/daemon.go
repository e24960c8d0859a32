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
	"log/slog"
	"time"

	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type lastRun struct {
	Time time.Time `json:"time"`
}

func getLastRunTime(configService shared.ConfigService, key string) (time.Time, error) {
	var last lastRun

	err := configService.GetJSONConfig(key, &last)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Error("could not get last run time", "err", err, "key", key)
		return time.Time{}, err
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Info("no last run time found. Setting to 0", "key", key)
		return time.Time{}, nil
	}

	return last.Time, nil
}

func shouldRun(configService shared.ConfigService, key string, interval time.Duration) bool {
	lastTime, err := getLastRunTime(configService, key)
	if err != nil {
		return false
	}

	return time.Since(lastTime) > interval
}

func markRun(configService shared.ConfigService, key string) error {
	return configService.SetJSONConfig(key, lastRun{Time: time.Now()})
}
