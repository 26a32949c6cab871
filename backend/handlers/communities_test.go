// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmotion/mmchat/backend/models"
)

func createCommunity(t *testing.T, h *CommunityHandler, admin, name string) models.Community {
	t.Helper()
	body := `{"name":"` + name + `"}`
	w := httptest.NewRecorder()
	h.Create(w, asUser(httptest.NewRequest(http.MethodPost, "/api/communities", strings.NewReader(body)), admin, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var c models.Community
	decodeBody(t, w, &c)
	return c
}

func TestCommunityCreateAndGet(t *testing.T) {
	svc, store := newService(t, "admin@x.com")
	h := NewCommunityHandler(svc, store)

	c := createCommunity(t, h, "admin@x.com", "Morning Yoga")
	assert.Equal(t, "admin@x.com", c.Admin)
	assert.Equal(t, []string{"admin@x.com"}, c.Members)

	w := httptest.NewRecorder()
	h.Get(w, asUser(httptest.NewRequest(http.MethodGet, "/api/communities/"+c.ID, nil),
		"admin@x.com", map[string]string{"id": c.ID}))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Get(w, asUser(httptest.NewRequest(http.MethodGet, "/api/communities/missing", nil),
		"admin@x.com", map[string]string{"id": "missing"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembershipEditsAreAdminOnly(t *testing.T) {
	svc, store := newService(t, "admin@x.com", "member@x.com", "new@x.com")
	h := NewCommunityHandler(svc, store)
	c := createCommunity(t, h, "admin@x.com", "Run Club")

	addAs := func(caller, email string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.AddMember(w, asUser(httptest.NewRequest(http.MethodPost, "/api/communities/"+c.ID+"/members",
			strings.NewReader(`{"email":"`+email+`"}`)), caller, map[string]string{"id": c.ID}))
		return w
	}

	assert.Equal(t, http.StatusForbidden, addAs("member@x.com", "new@x.com").Code)
	assert.Equal(t, http.StatusOK, addAs("admin@x.com", "new@x.com").Code)
	// Re-adding is a no-op success.
	assert.Equal(t, http.StatusOK, addAs("admin@x.com", "new@x.com").Code)

	removeAs := func(caller, email string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.RemoveMember(w, asUser(httptest.NewRequest(http.MethodDelete, "/api/communities/"+c.ID+"/members/"+email, nil),
			caller, map[string]string{"id": c.ID, "email": email}))
		return w
	}

	assert.Equal(t, http.StatusForbidden, removeAs("new@x.com", "new@x.com").Code)
	assert.Equal(t, http.StatusOK, removeAs("admin@x.com", "new@x.com").Code)
	// Removing an absent member is also a no-op success.
	assert.Equal(t, http.StatusOK, removeAs("admin@x.com", "ghost@x.com").Code)

	members, err := store.GetMembers(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@x.com"}, members)
}

func TestCommunityMessageLog(t *testing.T) {
	svc, store := newService(t, "admin@x.com", "member@x.com")
	h := NewCommunityHandler(svc, store)
	c := createCommunity(t, h, "admin@x.com", "Book Club")

	w := httptest.NewRecorder()
	h.SendMessage(w, asUser(httptest.NewRequest(http.MethodPost, "/api/communities/"+c.ID+"/message",
		strings.NewReader(`{"text":"welcome"}`)), "admin@x.com", map[string]string{"id": c.ID}))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.Messages(w, asUser(httptest.NewRequest(http.MethodGet, "/api/communities/"+c.ID+"/messages", nil),
		"member@x.com", map[string]string{"id": c.ID}))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Messages []models.CommunityMessage `json:"messages"`
		Count    int                       `json:"count"`
	}
	decodeBody(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "welcome", resp.Messages[0].Text)
	assert.Equal(t, "admin@x.com", resp.Messages[0].SenderEmail)
}

func TestCommunityNonMembers(t *testing.T) {
	svc, store := newService(t, "admin@x.com", "outside@x.com")
	h := NewCommunityHandler(svc, store)
	c := createCommunity(t, h, "admin@x.com", "Pilates")

	w := httptest.NewRecorder()
	h.NonMembers(w, asUser(httptest.NewRequest(http.MethodGet, "/api/communities/"+c.ID+"/non-members", nil),
		"admin@x.com", map[string]string{"id": c.ID}))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Users []models.User `json:"users"`
		Count int           `json:"count"`
	}
	decodeBody(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "outside@x.com", resp.Users[0].Email)
}

func TestCommunityList(t *testing.T) {
	svc, store := newService(t, "admin@x.com", "other@x.com")
	h := NewCommunityHandler(svc, store)
	createCommunity(t, h, "admin@x.com", "Hiking")

	listFor := func(email string) int {
		w := httptest.NewRecorder()
		h.List(w, asUser(httptest.NewRequest(http.MethodGet, "/api/communities", nil), email, nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Count int `json:"count"`
		}
		decodeBody(t, w, &resp)
		return resp.Count
	}

	assert.Equal(t, 1, listFor("admin@x.com"))
	assert.Equal(t, 0, listFor("other@x.com"))
}
