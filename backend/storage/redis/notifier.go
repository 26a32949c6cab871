// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package redis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "mmchat:notify:"

// Notifier bridges redis pub/sub into local change-notification
// channels. One redis subscription exists per topic while at least one
// local observer is attached; the subscription is closed when the last
// observer releases. Reconnection is go-redis's job, not ours.
type Notifier struct {
	rdb *redis.Client

	mu     sync.Mutex
	topics map[string]*topicSub
}

type topicSub struct {
	pubsub    *redis.PubSub
	observers map[chan struct{}]bool
	cancel    context.CancelFunc
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{
		rdb:    rdb,
		topics: make(map[string]*topicSub),
	}
}

// Publish signals that the log behind topic changed. The payload is
// irrelevant: subscribers re-read the full current state themselves.
func (n *Notifier) Publish(ctx context.Context, topic string) error {
	return n.rdb.Publish(ctx, channelPrefix+topic, "changed").Err()
}

// Subscribe returns a channel that receives a tick whenever topic is
// published. Ticks coalesce: a slow observer sees at least one tick for
// any burst of changes, which is enough since every tick triggers a
// full re-read. The returned release func must be called exactly once.
func (n *Notifier) Subscribe(topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	ts, ok := n.topics[topic]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		ts = &topicSub{
			pubsub:    n.rdb.Subscribe(ctx, channelPrefix+topic),
			observers: make(map[chan struct{}]bool),
			cancel:    cancel,
		}
		n.topics[topic] = ts
		go n.fanOut(ctx, topic, ts)
	}
	ts.observers[ch] = true
	n.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(ts.observers, ch)
			if len(ts.observers) == 0 {
				ts.cancel()
				ts.pubsub.Close()
				delete(n.topics, topic)
			}
			n.mu.Unlock()
		})
	}
	return ch, release
}

func (n *Notifier) fanOut(ctx context.Context, topic string, ts *topicSub) {
	msgs := ts.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-msgs:
			if !ok {
				return
			}
			n.mu.Lock()
			for ch := range ts.observers {
				select {
				case ch <- struct{}{}:
				default:
				}
			}
			n.mu.Unlock()
		}
	}
}
