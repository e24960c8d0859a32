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

package interchange

import "errors"

var (
	// ErrCorruptedSnapshot is returned if a snapshot document is not valid json or does not match the schema.
	ErrCorruptedSnapshot = errors.New("corrupted snapshot")
	// ErrUnusableProject marks a bundle item whose project metadata cannot be used to create a project.
	ErrUnusableProject = errors.New("unusable project metadata")
	// ErrUnsupportedFormat is returned for unknown bundle formats or versions newer than supported.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

var (
	ErrNodeNotFound       = errors.New("node not found in project")
	ErrParentNotFound     = errors.New("parent node not found in project")
	ErrParentNotContainer = errors.New("parent is not a container")
	ErrCycle              = errors.New("parent assignment would create a cycle")
)
