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
	"encoding/json"

	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
)

type configService struct {
	repository shared.ConfigRepository
}

var _ shared.ConfigService = (*configService)(nil)

func NewConfigService(repository shared.ConfigRepository) *configService {
	return &configService{
		repository: repository,
	}
}

func (service *configService) GetJSONConfig(key string, v any) error {
	config, err := service.repository.FindByKey(key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(config.Val), v)
}

func (service *configService) SetJSONConfig(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	config := models.Config{
		Key: key,
		Val: string(b),
	}
	return service.repository.Save(nil, &config)
}

func (service *configService) RemoveConfig(key string) error {
	return service.repository.DeleteByKey(nil, key)
}
