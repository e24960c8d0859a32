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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func fileName(name, fallback, suffix string) string {
	s := slug.Make(name)
	if s == "" {
		s = fallback
	}
	return s + suffix
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func NewExportCommand() *cobra.Command {
	exportCmd := cobra.Command{
		Use:   "export",
		Short: "Exports projects into bundle files",
		Long:  "Exports the given projects as native bundles or CycloneDX documents. Every project is written into its own file inside the output directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawIDs := viper.GetStringSlice("project")
			if len(rawIDs) == 0 {
				return errors.New("at least one --project is required")
			}
			projectIDs := make([]uuid.UUID, 0, len(rawIDs))
			for _, raw := range rawIDs {
				id, err := uuid.Parse(raw)
				if err != nil {
					return errors.Wrapf(err, "invalid project id %s", raw)
				}
				projectIDs = append(projectIDs, id)
			}

			out := viper.GetString("out")
			if err := os.MkdirAll(out, 0o750); err != nil {
				return err
			}

			return runWithServices(func(userRepository shared.UserRepository, exportService shared.ExportService) error {
				caller, err := resolveCaller(userRepository)
				if err != nil {
					return err
				}

				resp, err := exportService.Export(context.Background(), caller, projectIDs, viper.GetString("format"))
				if err != nil {
					return err
				}

				bar := progressbar.Default(int64(len(resp.Projects) + len(resp.Documents)))
				for _, bundle := range resp.Projects {
					if err := writeJSON(filepath.Join(out, fileName(bundle.Project.Name, bundle.Project.ID, ".modelguard.json")), bundle); err != nil {
						return err
					}
					bar.Add(1) // nolint
				}
				for i, doc := range resp.Documents {
					name := ""
					if doc.Metadata != nil && doc.Metadata.Component != nil {
						name = doc.Metadata.Component.Name
					}
					if err := writeJSON(filepath.Join(out, fileName(name, fmt.Sprintf("document-%d", i), ".cdx.json")), doc); err != nil {
						return err
					}
					bar.Add(1) // nolint
				}

				printExportErrors(resp.Errors)
				slog.Info("export finished", "exported", len(resp.Projects)+len(resp.Documents), "failed", len(resp.Errors), "out", out)
				return nil
			})
		},
	}

	exportCmd.Flags().StringSlice("project", nil, "id of a project to export, can be repeated")
	exportCmd.Flags().String("format", dtos.ExportFormatNative, "export format: native or cyclonedx")
	exportCmd.Flags().String("out", ".", "output directory")
	return &exportCmd
}
