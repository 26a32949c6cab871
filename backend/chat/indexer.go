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

package chat

import (
	"sort"
	"strings"

	"github.com/mindmotion/mmchat/backend/models"
)

// Summaries computes the conversation list for currentUser: one entry
// per peer, newest conversations first.
//
// It is a pure function of its inputs and is recomputed from scratch on
// every change; no incremental state is kept anywhere. messages must be
// in store order (timestamp ascending, insertion order breaking ties) —
// the later of two equal-timestamp messages wins the "last message"
// slot. Peers with no messages sort after all peers with at least one,
// alphabetically so the output is deterministic.
//
// opened maps peer email to the moment currentUser last opened that
// conversation (unix millis). A summary is flagged unread when its last
// message is addressed to currentUser and is newer than that marker.
func Summaries(currentUser string, peers []models.User, messages []models.DirectMessage, opened map[string]int64) []models.ConversationSummary {
	me := strings.ToLower(currentUser)

	latest := make(map[string]models.DirectMessage)
	for _, msg := range messages {
		var peer string
		switch me {
		case strings.ToLower(msg.SenderEmail):
			peer = strings.ToLower(msg.ReceiverEmail)
		case strings.ToLower(msg.ReceiverEmail):
			peer = strings.ToLower(msg.SenderEmail)
		default:
			continue
		}
		if prev, ok := latest[peer]; !ok || msg.TimestampMS >= prev.TimestampMS {
			latest[peer] = msg
		}
	}

	seen := make(map[string]bool)
	var out []models.ConversationSummary
	for _, u := range peers {
		peer := strings.ToLower(u.Email)
		if peer == me || seen[peer] {
			continue
		}
		seen[peer] = true
		out = append(out, summarize(me, peer, latest, opened))
	}
	// Peers known only from message traffic still get an entry.
	for peer := range latest {
		if !seen[peer] {
			seen[peer] = true
			out = append(out, summarize(me, peer, latest, opened))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.LastMessage == nil && b.LastMessage == nil:
			return a.PeerEmail < b.PeerEmail
		case a.LastMessage == nil:
			return false
		case b.LastMessage == nil:
			return true
		case a.LastMessage.TimestampMS != b.LastMessage.TimestampMS:
			return a.LastMessage.TimestampMS > b.LastMessage.TimestampMS
		default:
			return a.PeerEmail < b.PeerEmail
		}
	})
	return out
}

func summarize(me, peer string, latest map[string]models.DirectMessage, opened map[string]int64) models.ConversationSummary {
	s := models.ConversationSummary{PeerEmail: peer}
	if msg, ok := latest[peer]; ok {
		m := msg
		s.LastMessage = &m
		s.HasUnread = strings.EqualFold(msg.ReceiverEmail, me) && msg.TimestampMS > opened[peer]
	}
	return s
}
