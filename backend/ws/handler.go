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

// Package ws pushes live full-state snapshots over websockets. Each
// connection owns its stream subscriptions; when the socket closes the
// subscriptions are released, and the notifier drops its upstream
// subscription with the last local observer.
package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/messaging"
	"github.com/mindmotion/mmchat/backend/middleware"
)

// Event is the frame envelope. Every payload is a complete snapshot
// that supersedes the previous one of the same type.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Handler struct {
	svc      *messaging.Service
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(svc *messaging.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Conversation streams one direct-message thread.
// GET /ws/dm/{email}
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	peer := mux.Vars(r)["email"]
	key := chat.ConversationKey(email, peer)

	h.serve(w, r, func(ctx context.Context, c *client) {
		for snapshot := range h.svc.StreamConversation(ctx, key) {
			h.push(c, Event{Type: "conversation_snapshot", Payload: snapshot})
		}
	})
}

// Summaries streams the caller's conversation list.
// GET /ws/conversations
func (h *Handler) Summaries(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	h.serve(w, r, func(ctx context.Context, c *client) {
		for snapshot := range h.svc.StreamSummaries(ctx, email) {
			h.push(c, Event{Type: "conversation_list", Payload: snapshot})
		}
	})
}

// Community streams both a community's message log and its entity
// (membership changes) on one socket.
// GET /ws/communities/{id}
func (h *Handler) Community(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserEmail(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	communityID := mux.Vars(r)["id"]

	h.serve(w, r, func(ctx context.Context, c *client) {
		messages := h.svc.StreamCommunityMessages(ctx, communityID)
		meta := h.svc.StreamCommunity(ctx, communityID)
		for messages != nil || meta != nil {
			select {
			case snapshot, ok := <-messages:
				if !ok {
					messages = nil
					continue
				}
				h.push(c, Event{Type: "community_messages", Payload: snapshot})
			case community, ok := <-meta:
				if !ok {
					meta = nil
					continue
				}
				h.push(c, Event{Type: "community", Payload: community})
			}
		}
	})
}

// serve upgrades the connection and runs the stream loop until either
// side goes away.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, run func(context.Context, *client)) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newClient(conn)
	go c.writePump()
	go c.readPump()

	// The request context dies when this handler returns; the hijacked
	// socket outlives it, so the stream context is tied to the
	// connection instead.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-c.done
		cancel()
	}()

	go func() {
		defer cancel()
		defer close(c.send)
		run(ctx, c)
	}()
}

func (h *Handler) push(c *client, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("type", ev.Type).Msg("marshal event")
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}
