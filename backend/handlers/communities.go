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

	"github.com/mindmotion/mmchat/backend/messaging"
	"github.com/mindmotion/mmchat/backend/middleware"
	"github.com/mindmotion/mmchat/backend/storage"
)

// CommunityHandler covers community lifecycle, membership and the
// community message log. Membership edits are an admin capability, as
// in the mobile app; members cannot remove themselves.
type CommunityHandler struct {
	svc   *messaging.Service
	store storage.Store
}

func NewCommunityHandler(svc *messaging.Service, store storage.Store) *CommunityHandler {
	return &CommunityHandler{svc: svc, store: store}
}

// Create registers a community with the caller as admin.
// POST /api/communities
func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	community, err := h.svc.CreateCommunity(r.Context(), req.Name, req.Members, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, community)
}

// List returns the communities the caller belongs to.
// GET /api/communities
func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	communities, err := h.store.GetCommunitiesFor(email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"communities": communities,
		"count":       len(communities),
	})
}

// Get returns one community entity.
// GET /api/communities/{id}
func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	community, err := h.store.GetCommunity(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, community)
}

// AddMember adds a user to the community; admin only, idempotent.
// POST /api/communities/{id}/members
func (h *CommunityHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["id"]
	if !h.requireAdmin(w, r, communityID) {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.AddMember(r.Context(), communityID, req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveMember removes a user from the community; admin only. Removing
// an absent member is a no-op success.
// DELETE /api/communities/{id}/members/{email}
func (h *CommunityHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	communityID := vars["id"]
	if !h.requireAdmin(w, r, communityID) {
		return
	}

	if err := h.svc.RemoveMember(r.Context(), communityID, vars["email"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Members lists the community's member set.
// GET /api/communities/{id}/members
func (h *CommunityHandler) Members(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["id"]
	members, err := h.store.GetMembers(communityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"community_id": communityID,
		"members":      members,
	})
}

// NonMembers lists directory users outside the community, the
// candidate pool for invitations.
// GET /api/communities/{id}/non-members
func (h *CommunityHandler) NonMembers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.NonMembers(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// SendMessage appends one message to the community log.
// POST /api/communities/{id}/message
func (h *CommunityHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sender, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.svc.SendCommunity(r.Context(), mux.Vars(r)["id"], sender, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Messages returns the full ordered community log.
// GET /api/communities/{id}/messages
func (h *CommunityHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.store.GetCommunityMessages(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": msgs,
		"count":    len(msgs),
	})
}

func (h *CommunityHandler) requireAdmin(w http.ResponseWriter, r *http.Request, communityID string) bool {
	email, ok := middleware.GetUserEmail(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	community, err := h.store.GetCommunity(communityID)
	if err != nil {
		writeError(w, err)
		return false
	}
	if community.Admin != email {
		http.Error(w, "Only the community admin may do this", http.StatusForbidden)
		return false
	}
	return true
}
