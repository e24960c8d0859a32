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

package utils

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

type errGroup[T any] struct {
	group   errgroup.Group
	mu      sync.Mutex
	results map[int]T
	next    int
}

// ErrGroup runs at most limit functions at the same time.
// WaitAndCollect returns the results in the order the functions were started.
func ErrGroup[T any](limit int) *errGroup[T] {
	g := &errGroup[T]{
		results: make(map[int]T),
	}
	g.group.SetLimit(limit)
	return g
}

func (g *errGroup[T]) Go(f func() (T, error)) {
	g.mu.Lock()
	idx := g.next
	g.next++
	g.mu.Unlock()

	g.group.Go(func() error {
		res, err := f()
		if err != nil {
			return err
		}
		g.mu.Lock()
		g.results[idx] = res
		g.mu.Unlock()
		return nil
	})
}

func (g *errGroup[T]) WaitAndCollect() ([]T, error) {
	if err := g.group.Wait(); err != nil {
		return nil, err
	}
	res := make([]T, 0, len(g.results))
	for i := 0; i < g.next; i++ {
		res = append(res, g.results[i])
	}
	return res, nil
}
