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

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string
	RedisAddr   string

	// LocalCachePath enables the on-disk conversation cache when set.
	LocalCachePath string

	JWTSecret string
	JWTIssuer string

	// RequireMembership gates community sends on current membership.
	RequireMembership bool

	// SendRPS / SendBurst bound per-user message send rate.
	SendRPS   float64
	SendBurst int
}

// Load reads configuration from the environment. .env files are loaded
// first (without overriding already-set variables), so OS env wins.
func Load() (*Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	cfg := &Config{
		Env:               getenv("APP_ENV", "development"),
		Port:              getenv("PORT", "8080"),
		DatabaseURL:       getenv("DATABASE_URL", "postgres://localhost/mmchat?sslmode=disable"),
		RedisAddr:         getenv("REDIS_URL", "localhost:6379"),
		LocalCachePath:    os.Getenv("LOCAL_CACHE_PATH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         getenv("JWT_ISSUER", "mindmotion"),
		RequireMembership: getbool("REQUIRE_MEMBERSHIP", false),
		SendRPS:           getfloat("SEND_RPS", 5),
		SendBurst:         getint("SEND_BURST", 10),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
