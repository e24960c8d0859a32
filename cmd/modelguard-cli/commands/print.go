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
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/utils"
)

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	return tw
}

func printExportErrors(errs []dtos.ExportError) {
	if len(errs) == 0 {
		return
	}
	tw := newTableWriter()
	tw.SetTitle("Not exported")
	tw.AppendHeader(table.Row{"Project", "Status", "Error"})
	for _, e := range errs {
		tw.AppendRow(table.Row{e.ProjectID, e.Status, e.Error})
	}
	tw.Render()
}

func printImportResult(resp dtos.ImportResponse) {
	tw := newTableWriter()
	tw.SetTitle(fmt.Sprintf("Imported %d, failed %d", resp.ImportedCount, resp.FailedCount))
	tw.AppendHeader(table.Row{"Result", "Project", "ID", "Message"})
	for _, p := range resp.ImportedProjects {
		tw.AppendRow(table.Row{"imported", p.Name, p.ID, utils.SafeDereference(p.Warning)})
	}
	for _, p := range resp.FailedProjects {
		tw.AppendRow(table.Row{"failed", p.Name, fmt.Sprintf("#%d", p.Index), p.Error})
	}
	tw.Render()
}

func printRestoreResult(resp dtos.RestoreResponse) {
	tw := newTableWriter()
	tw.SetTitle("Restored")
	tw.AppendHeader(table.Row{"Kind", "Amount"})
	tw.AppendRows([]table.Row{
		{"nodes", resp.Restored.Nodes},
		{"data objects", resp.Restored.DataObjects},
		{"edges", resp.Restored.Edges},
		{"component data links", resp.Restored.ComponentData},
		{"edge data flows", resp.Restored.EdgeDataFlows},
	})
	if resp.Warning != nil {
		tw.AppendFooter(table.Row{"warning", *resp.Warning})
	}
	tw.Render()
}
