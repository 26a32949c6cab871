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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmotion/mmchat/backend/messaging"
	"github.com/mindmotion/mmchat/backend/middleware"
	"github.com/mindmotion/mmchat/backend/models"
	"github.com/mindmotion/mmchat/backend/storage/memory"
)

func newService(t *testing.T, users ...string) (*messaging.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := messaging.NewService(store, memory.NewNotifier(), nil, messaging.Config{}, zerolog.Nop())
	for _, email := range users {
		require.NoError(t, store.CreateUser(models.User{Email: email}, nil))
	}
	return svc, store
}

func asUser(r *http.Request, email string, vars map[string]string) *http.Request {
	r = middleware.WithUserEmail(r, email)
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func TestDMSend(t *testing.T) {
	svc, _ := newService(t, "alice@x.com", "bob@x.com")
	h := NewDMHandler(svc)

	body := `{"receiver_email":"bob@x.com","text":"hello"}`
	r := asUser(httptest.NewRequest(http.MethodPost, "/api/dm/send", strings.NewReader(body)), "alice@x.com", nil)
	w := httptest.NewRecorder()
	h.Send(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	var msg models.DirectMessage
	decodeBody(t, w, &msg)
	assert.Equal(t, "alice@x.com", msg.SenderEmail)
	assert.Equal(t, "hello", msg.Text)
	assert.NotEmpty(t, msg.ID)
}

func TestDMSendErrors(t *testing.T) {
	svc, _ := newService(t, "alice@x.com", "bob@x.com")
	h := NewDMHandler(svc)

	send := func(r *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.Send(w, r)
		return w
	}

	// No identity on the request.
	w := send(httptest.NewRequest(http.MethodPost, "/api/dm/send", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(asUser(httptest.NewRequest(http.MethodPost, "/api/dm/send", strings.NewReader(`not json`)), "alice@x.com", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(asUser(httptest.NewRequest(http.MethodPost, "/api/dm/send",
		strings.NewReader(`{"receiver_email":"bob@x.com","text":""}`)), "alice@x.com", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(asUser(httptest.NewRequest(http.MethodPost, "/api/dm/send",
		strings.NewReader(`{"receiver_email":"ghost@x.com","text":"hi"}`)), "alice@x.com", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDMConversationAndOpen(t *testing.T) {
	svc, _ := newService(t, "alice@x.com", "bob@x.com")
	h := NewDMHandler(svc)

	sendBody := `{"receiver_email":"alice@x.com","text":"ping"}`
	w := httptest.NewRecorder()
	h.Send(w, asUser(httptest.NewRequest(http.MethodPost, "/api/dm/send", strings.NewReader(sendBody)), "bob@x.com", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	// The thread reads the same from alice's side.
	w = httptest.NewRecorder()
	h.Conversation(w, asUser(httptest.NewRequest(http.MethodGet, "/api/dm/conversation/bob@x.com", nil),
		"alice@x.com", map[string]string{"email": "bob@x.com"}))
	require.Equal(t, http.StatusOK, w.Code)
	var thread struct {
		Messages []models.DirectMessage `json:"messages"`
		Count    int                    `json:"count"`
	}
	decodeBody(t, w, &thread)
	require.Equal(t, 1, thread.Count)
	assert.Equal(t, "ping", thread.Messages[0].Text)

	// Unread until alice opens the conversation.
	list := func() []models.ConversationSummary {
		w := httptest.NewRecorder()
		h.Conversations(w, asUser(httptest.NewRequest(http.MethodGet, "/api/dm/conversations", nil), "alice@x.com", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Conversations []models.ConversationSummary `json:"conversations"`
		}
		decodeBody(t, w, &resp)
		return resp.Conversations
	}

	sums := list()
	require.Len(t, sums, 1)
	assert.True(t, sums[0].HasUnread)

	w = httptest.NewRecorder()
	h.Open(w, asUser(httptest.NewRequest(http.MethodPost, "/api/dm/bob@x.com/open", nil),
		"alice@x.com", map[string]string{"email": "bob@x.com"}))
	require.Equal(t, http.StatusOK, w.Code)

	sums = list()
	require.Len(t, sums, 1)
	assert.False(t, sums[0].HasUnread)
}
