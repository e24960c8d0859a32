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
	"os"
	"path/filepath"
	"testing"

	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBundles(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(dir, "payments.modelguard.json")
	require.NoError(t, os.WriteFile(single, []byte(`{"format":"modelguard-bundle","version":1,"project":{"name":"Payments"}}`), 0o600))
	export := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(export, []byte(`{"format":"native","version":1,"projects":[{"project":{"name":"A"}},{"project":{"name":"B"}}],"errors":[]}`), 0o600))

	t.Run("should collect bundles of single files and export responses", func(t *testing.T) {
		req, err := readBundles([]string{single, export})
		require.NoError(t, err)
		assert.Equal(t, dtos.BundleFormat, req.Format)
		assert.Equal(t, 1, req.Version)
		assert.Len(t, req.Projects, 3)
	})

	t.Run("should keep the newest version", func(t *testing.T) {
		future := filepath.Join(dir, "future.json")
		require.NoError(t, os.WriteFile(future, []byte(`{"format":"modelguard-bundle","version":7,"project":{}}`), 0o600))
		req, err := readBundles([]string{single, future})
		require.NoError(t, err)
		assert.Equal(t, 7, req.Version)
	})

	t.Run("should fail on invalid json", func(t *testing.T) {
		broken := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))
		_, err := readBundles([]string{broken})
		assert.Error(t, err)
	})

	t.Run("should fail on missing files", func(t *testing.T) {
		_, err := readBundles([]string{filepath.Join(dir, "nope.json")})
		assert.Error(t, err)
	})
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "payment-service.modelguard.json", fileName("Payment Service", "x", ".modelguard.json"))
	assert.Equal(t, "document-0.cdx.json", fileName("", "document-0", ".cdx.json"))
}
