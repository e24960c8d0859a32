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
	"encoding/json"
	"os"

	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// readBundles accepts a single bundle file or a whole export response.
func readBundles(files []string) (dtos.ImportRequest, error) {
	req := dtos.ImportRequest{
		Format: dtos.BundleFormat,
	}

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return req, err
		}

		var envelope struct {
			Version  int               `json:"version"`
			Projects []json.RawMessage `json:"projects"`
		}
		if err := json.Unmarshal(b, &envelope); err != nil {
			return req, errors.Wrapf(err, "could not parse %s", file)
		}

		if envelope.Projects != nil {
			req.Projects = append(req.Projects, envelope.Projects...)
		} else {
			req.Projects = append(req.Projects, json.RawMessage(b))
		}
		// the newest file decides, a too new file rejects the whole call
		req.Version = max(req.Version, envelope.Version)
	}
	return req, nil
}

func NewImportCommand() *cobra.Command {
	importCmd := cobra.Command{
		Use:   "import <file...>",
		Short: "Imports bundle files as new projects",
		Long:  "Imports native bundle files or export responses. Every bundle becomes a new project owned by the --as user.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readBundles(args)
			if err != nil {
				return err
			}

			return runWithServices(func(userRepository shared.UserRepository, authorizer shared.Authorizer, importService shared.ImportService) error {
				caller, err := resolveCaller(userRepository)
				if err != nil {
					return err
				}
				if !authorizer.CanImport(caller) {
					return errors.New("not allowed to import projects")
				}

				resp, err := importService.Import(context.Background(), caller, req)
				if err != nil {
					return err
				}
				printImportResult(resp)
				return nil
			})
		},
	}
	return &importCmd
}
