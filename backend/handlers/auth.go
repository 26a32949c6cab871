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
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/middleware"
	"github.com/mindmotion/mmchat/backend/models"
	"github.com/mindmotion/mmchat/backend/storage"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	store     storage.UserStore
	jwtSecret string
	jwtIssuer string
}

func NewAuthHandler(store storage.UserStore, jwtSecret, jwtIssuer string) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret, jwtIssuer: jwtIssuer}
}

// Signup registers a user and returns a session token.
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !chat.ValidEmail(req.Email) {
		writeError(w, chat.Validationf("invalid email %q", req.Email))
		return
	}
	if len(req.Password) < 8 {
		writeError(w, chat.Validationf("password must be at least 8 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Email:    strings.ToLower(req.Email),
		FullName: req.FullName,
	}
	if err := h.store.CreateUser(user, hash); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.issueToken(user.Email, user.FullName)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token, "email": user.Email})
}

// Signin verifies credentials and returns a session token. Signout is
// client-side token discard; there is no server session state.
// POST /auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	hash, err := h.store.GetCredentials(req.Email)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	token, err := h.issueToken(user.Email, user.FullName)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "email": user.Email})
}

func (h *AuthHandler) issueToken(email, fullName string) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		Email:    email,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}
