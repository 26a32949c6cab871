// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package memory

import (
	"context"
	"sync"
)

// Notifier is the in-process equivalent of the redis notifier: same
// coalescing tick semantics, no broker.
type Notifier struct {
	mu     sync.Mutex
	topics map[string]map[chan struct{}]bool
}

func NewNotifier() *Notifier {
	return &Notifier{topics: make(map[string]map[chan struct{}]bool)}
}

func (n *Notifier) Publish(_ context.Context, topic string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.topics[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (n *Notifier) Subscribe(topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	if n.topics[topic] == nil {
		n.topics[topic] = make(map[chan struct{}]bool)
	}
	n.topics[topic][ch] = true
	n.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.topics[topic], ch)
			if len(n.topics[topic]) == 0 {
				delete(n.topics, topic)
			}
			n.mu.Unlock()
		})
	}
	return ch, release
}

// SubscriberCount reports how many observers topic currently has.
func (n *Notifier) SubscriberCount(topic string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.topics[topic])
}
