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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmotion/mmchat/backend/middleware"
	"github.com/mindmotion/mmchat/backend/storage/memory"
)

const (
	testSecret = "test-secret"
	testIssuer = "mmchat-test"
)

func signup(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.Signup(w, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))
	return w
}

func signin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.Signin(w, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body)))
	return w
}

func TestSignupSigninRoundTrip(t *testing.T) {
	h := NewAuthHandler(memory.NewStore(), testSecret, testIssuer)

	w := signup(t, h, `{"email":"Alice@X.com","password":"s3cret-pw","full_name":"Alice"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	decodeBody(t, w, &created)
	assert.Equal(t, "alice@x.com", created.Email)
	assert.NotEmpty(t, created.Token)

	w = signin(t, h, `{"email":"alice@x.com","password":"s3cret-pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &session)

	// The issued token must be accepted by the auth middleware and carry
	// the caller's identity into the request context.
	authed := middleware.NewAuthMiddleware(testSecret, testIssuer)
	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = middleware.GetUserEmail(r)
	})
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Authorization", "Bearer "+session.Token)
	w = httptest.NewRecorder()
	authed(next).ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@x.com", gotEmail)
}

func TestSignupValidation(t *testing.T) {
	h := NewAuthHandler(memory.NewStore(), testSecret, testIssuer)

	assert.Equal(t, http.StatusBadRequest, signup(t, h, `{"email":"bogus","password":"s3cret-pw"}`).Code)
	assert.Equal(t, http.StatusBadRequest, signup(t, h, `{"email":"a@x.com","password":"short"}`).Code)
	assert.Equal(t, http.StatusBadRequest, signup(t, h, `not json`).Code)

	require.Equal(t, http.StatusCreated, signup(t, h, `{"email":"a@x.com","password":"s3cret-pw"}`).Code)
	// Duplicate email surfaces as a failed store write.
	assert.Equal(t, http.StatusBadGateway, signup(t, h, `{"email":"a@x.com","password":"s3cret-pw"}`).Code)
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	h := NewAuthHandler(memory.NewStore(), testSecret, testIssuer)
	require.Equal(t, http.StatusCreated, signup(t, h, `{"email":"a@x.com","password":"s3cret-pw"}`).Code)

	assert.Equal(t, http.StatusUnauthorized, signin(t, h, `{"email":"a@x.com","password":"wrong-pass"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, signin(t, h, `{"email":"nobody@x.com","password":"whatever"}`).Code)
}

func TestRejectsForgedToken(t *testing.T) {
	authed := middleware.NewAuthMiddleware(testSecret, testIssuer)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler must not run")
	})

	// Token signed with a different secret.
	other := NewAuthHandler(memory.NewStore(), "other-secret", testIssuer)
	w := signup(t, other, `{"email":"a@x.com","password":"s3cret-pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &created)

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Authorization", "Bearer "+created.Token)
	w = httptest.NewRecorder()
	authed(next).ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// No header at all.
	w = httptest.NewRecorder()
	authed(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
