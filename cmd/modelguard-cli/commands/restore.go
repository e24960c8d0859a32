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

package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

func NewRestoreCommand() *cobra.Command {
	restoreCmd := cobra.Command{
		Use:   "restore",
		Short: "Restores a project from one of its snapshots",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(viper.GetString("project"))
			if err != nil {
				return errors.Wrap(err, "invalid --project")
			}
			snapshotID, err := uuid.Parse(viper.GetString("snapshot"))
			if err != nil {
				return errors.Wrap(err, "invalid --snapshot")
			}

			return runWithServices(func(userRepository shared.UserRepository, authorizer shared.Authorizer, restoreService shared.RestoreService, projectRepository shared.ProjectRepository, membershipRepository shared.MembershipRepository) error {
				caller, err := resolveCaller(userRepository)
				if err != nil {
					return err
				}

				if _, err := projectRepository.Read(projectID); err != nil {
					return errors.Wrap(err, "could not find project")
				}
				var role *models.MembershipRole
				r, err := membershipRepository.FindRole(projectID, caller.UserID)
				if err == nil {
					role = &r
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				if !authorizer.CanRestore(caller, role) {
					return errors.New("not allowed to restore this project")
				}

				resp, err := restoreService.Restore(context.Background(), caller, projectID, snapshotID)
				if err != nil {
					return err
				}
				printRestoreResult(resp)
				return nil
			})
		},
	}

	restoreCmd.Flags().String("project", "", "id of the project to restore")
	restoreCmd.Flags().String("snapshot", "", "id of the snapshot to restore from")
	return &restoreCmd
}
