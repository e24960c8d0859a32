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
	"github.com/l3montree-dev/modelguard/shared"
	"go.uber.org/fx"
)

// ServiceModule provides all service-layer constructors
var ServiceModule = fx.Options(
	fx.Provide(fx.Annotate(NewProjectService, fx.As(new(shared.ProjectService)))),
	fx.Provide(fx.Annotate(NewGraphService, fx.As(new(shared.GraphService)))),
	fx.Provide(fx.Annotate(NewSnapshotService, fx.As(new(shared.SnapshotService)))),
	fx.Provide(fx.Annotate(NewExportService, fx.As(new(shared.ExportService)))),
	fx.Provide(fx.Annotate(NewImportService, fx.As(new(shared.ImportService)))),
	fx.Provide(fx.Annotate(NewRestoreService, fx.As(new(shared.RestoreService)))),
	fx.Provide(fx.Annotate(NewConfigService, fx.As(new(shared.ConfigService)))),
	fx.Provide(fx.Annotate(NewDatabaseLeaderElector, fx.As(new(shared.LeaderElector)))),
)
