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
package accesscontrol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2/persist"
	"github.com/l3montree-dev/modelguard/shared"
)

type casbinPubSubWatcher struct {
	broker   shared.PubSubBroker
	callback func(string)
	done     chan struct{}
}

type policyChangePubSubMessage struct {
}

func (policyChangePubSubMessage) GetChannel() shared.PubSubChannel {
	return shared.PolicyChange
}

func (policyChangePubSubMessage) GetPayload() map[string]any {
	return map[string]any{
		"action": "update",
	}
}

var _ persist.Watcher = &casbinPubSubWatcher{}

func newCasbinPubSubWatcher(broker shared.PubSubBroker) (*casbinPubSubWatcher, error) {
	ch, err := broker.Subscribe(shared.PolicyChange)
	if err != nil {
		return nil, fmt.Errorf("could not subscribe to policy change topic: %w", err)
	}

	watcher := &casbinPubSubWatcher{
		broker: broker,
		done:   make(chan struct{}),
	}

	go watcher.listenForUpdates(ch)
	return watcher, nil
}

func (w *casbinPubSubWatcher) listenForUpdates(ch <-chan map[string]any) {
	slog.Debug("listening for policy change notifications")
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			slog.Debug("received policy change notification")
			if w.callback != nil {
				w.callback("policy updated")
			}
		}
	}
}

func (w *casbinPubSubWatcher) SetUpdateCallback(callback func(string)) error {
	w.callback = callback
	return nil
}

func (w *casbinPubSubWatcher) Update() error {
	if w.callback == nil {
		return fmt.Errorf("no callback set")
	}

	ctx := context.Background()

	if err := w.broker.Publish(ctx, policyChangePubSubMessage{}); err != nil {
		slog.Warn("could not publish policy change", "err", err)
	}
	return nil
}

func (w *casbinPubSubWatcher) Close() {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	w.callback = nil
}
