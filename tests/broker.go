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

package tests

import (
	"context"
	"sync"

	"github.com/l3montree-dev/modelguard/shared"
)

// InMemoryBroker delivers messages to subscribers of the same process and remembers everything published.
type InMemoryBroker struct {
	mu          sync.Mutex
	published   []shared.PubSubMessage
	subscribers map[shared.PubSubChannel][]chan map[string]any
}

func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subscribers: make(map[shared.PubSubChannel][]chan map[string]any),
	}
}

func (b *InMemoryBroker) Publish(ctx context.Context, message shared.PubSubMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, message)
	for _, ch := range b.subscribers[message.GetChannel()] {
		select {
		case ch <- message.GetPayload():
		default:
		}
	}
	return nil
}

func (b *InMemoryBroker) Subscribe(topic shared.PubSubChannel) (<-chan map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan map[string]any, 16)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch, nil
}

func (b *InMemoryBroker) Published() []shared.PubSubMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := make([]shared.PubSubMessage, len(b.published))
	copy(res, b.published)
	return res
}
