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

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/messaging"
	"github.com/mindmotion/mmchat/backend/middleware"
)

type DMHandler struct {
	svc *messaging.Service
}

func NewDMHandler(svc *messaging.Service) *DMHandler {
	return &DMHandler{svc: svc}
}

// Send appends one direct message from the caller.
// POST /api/dm/send
func (h *DMHandler) Send(w http.ResponseWriter, r *http.Request) {
	sender, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ReceiverEmail string `json:"receiver_email"`
		Text          string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.svc.SendDirect(r.Context(), sender, req.ReceiverEmail, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Conversation returns the full ordered thread with one peer.
// GET /api/dm/conversation/{email}
func (h *DMHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	peer := mux.Vars(r)["email"]

	msgs, err := h.svc.Conversation(chat.ConversationKey(email, peer))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": msgs,
		"count":    len(msgs),
	})
}

// Conversations returns the caller's sorted, badged conversation list.
// GET /api/dm/conversations
func (h *DMHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summaries, err := h.svc.Summaries(email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": summaries,
		"count":         len(summaries),
	})
}

// Open records that the caller is now looking at a conversation, which
// clears its unread badge.
// POST /api/dm/{email}/open
func (h *DMHandler) Open(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	peer := mux.Vars(r)["email"]

	if err := h.svc.MarkOpened(r.Context(), email, peer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "opened"})
}
