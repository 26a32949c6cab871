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

package main

import (
	"net/http"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/mindmotion/mmchat/backend/config"
	"github.com/mindmotion/mmchat/backend/handlers"
	"github.com/mindmotion/mmchat/backend/logger"
	"github.com/mindmotion/mmchat/backend/messaging"
	"github.com/mindmotion/mmchat/backend/middleware"
	"github.com/mindmotion/mmchat/backend/storage/local"
	"github.com/mindmotion/mmchat/backend/storage/postgres"
	redisstore "github.com/mindmotion/mmchat/backend/storage/redis"
	"github.com/mindmotion/mmchat/backend/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger config depends on cfg, so this one failure goes to stderr raw.
		panic(err)
	}
	log := logger.New(cfg.Env)

	store, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	notifier := redisstore.NewNotifier(rdb)

	var cache messaging.ConversationCache
	if cfg.LocalCachePath != "" {
		c, err := local.Open(cfg.LocalCachePath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.LocalCachePath).Msg("local cache disabled")
		} else {
			defer c.Close()
			cache = c
		}
	}

	svc := messaging.NewService(store, notifier, cache, messaging.Config{
		RequireMembership: cfg.RequireMembership,
	}, log)

	authHandler := handlers.NewAuthHandler(store, cfg.JWTSecret, cfg.JWTIssuer)
	userHandler := handlers.NewUserHandler(store)
	dmHandler := handlers.NewDMHandler(svc)
	communityHandler := handlers.NewCommunityHandler(svc, store)
	wsHandler := ws.NewHandler(svc, log)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)
	sendLimit := middleware.NewSendRateLimit(cfg.SendRPS, cfg.SendBurst)

	r := mux.NewRouter()
	r.Use(middleware.CORS)

	// Identity endpoints (no auth)
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/signin", authHandler.Signin).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	// Directory and profile
	api.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	api.HandleFunc("/users/me", userHandler.Me).Methods("GET")
	api.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT")
	api.HandleFunc("/users/{email}", userHandler.GetUser).Methods("GET")

	// Direct messaging
	api.Handle("/dm/send", sendLimit(http.HandlerFunc(dmHandler.Send))).Methods("POST")
	api.HandleFunc("/dm/conversations", dmHandler.Conversations).Methods("GET")
	api.HandleFunc("/dm/conversation/{email}", dmHandler.Conversation).Methods("GET")
	api.HandleFunc("/dm/{email}/open", dmHandler.Open).Methods("POST")

	// Communities
	api.HandleFunc("/communities", communityHandler.Create).Methods("POST")
	api.HandleFunc("/communities", communityHandler.List).Methods("GET")
	api.HandleFunc("/communities/{id}", communityHandler.Get).Methods("GET")
	api.HandleFunc("/communities/{id}/members", communityHandler.AddMember).Methods("POST")
	api.HandleFunc("/communities/{id}/members", communityHandler.Members).Methods("GET")
	api.HandleFunc("/communities/{id}/members/{email}", communityHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/communities/{id}/non-members", communityHandler.NonMembers).Methods("GET")
	api.Handle("/communities/{id}/message", sendLimit(http.HandlerFunc(communityHandler.SendMessage))).Methods("POST")
	api.HandleFunc("/communities/{id}/messages", communityHandler.Messages).Methods("GET")

	// Live streams
	live := r.PathPrefix("/ws").Subrouter()
	live.Use(authMiddleware)
	live.HandleFunc("/dm/{email}", wsHandler.Conversation).Methods("GET")
	live.HandleFunc("/conversations", wsHandler.Summaries).Methods("GET")
	live.HandleFunc("/communities/{id}", wsHandler.Community).Methods("GET")

	// Health check (no auth required)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable")) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	}).Methods("GET")

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("chat server starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
