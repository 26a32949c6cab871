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

// Package local is a best-effort on-disk cache of direct-message
// conversations, used to serve a last-known snapshot when the system of
// record is unreachable. It is an optimization only: correctness never
// depends on it.
package local

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"github.com/mindmotion/mmchat/backend/models"
)

// Cache appends messages under sortable keys so a prefix scan returns
// a conversation in timestamp order.
// Key format: conv:<conversationKey>:msg:<padded_ms>-<seq>
type Cache struct {
	db *pebble.DB

	// seq disambiguates messages written in the same millisecond.
	seq uint64
}

func Open(path string) (*Cache, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) Append(conversationKey string, msg models.DirectMessage) error {
	seq := atomic.AddUint64(&c.seq, 1)
	key := fmt.Sprintf("conv:%s:msg:%020d-%06d", conversationKey, msg.TimestampMS, seq)
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.db.Set([]byte(key), data, pebble.NoSync)
}

func (c *Cache) List(conversationKey string) ([]models.DirectMessage, error) {
	prefix := []byte("conv:" + conversationKey + ":msg:")
	upper := append(append([]byte{}, prefix...), 0xff)
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upper,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var msgs []models.DirectMessage
	for iter.First(); iter.Valid(); iter.Next() {
		var m models.DirectMessage
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, iter.Error()
}
