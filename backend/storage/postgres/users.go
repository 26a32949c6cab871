// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package postgres

import (
	"database/sql"
	"strings"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/models"
)

func (s *Store) CreateUser(user models.User, passwordHash []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO users (email, full_name, profile_image_ref, role, address, city, country, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		strings.ToLower(user.Email), user.FullName, user.ProfileImageRef,
		user.Role, user.Address, user.City, user.Country, passwordHash)
	if err != nil {
		return chat.RemoteWrite("create user", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(`
		SELECT email, full_name, profile_image_ref, role, address, city, country, created_at
		FROM users WHERE email = $1`,
		strings.ToLower(email)).Scan(
		&u.Email, &u.FullName, &u.ProfileImageRef, &u.Role,
		&u.Address, &u.City, &u.Country, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, chat.NotFoundf("user %s", email)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetCredentials(email string) ([]byte, error) {
	var hash []byte
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE email = $1`,
		strings.ToLower(email)).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, chat.NotFoundf("user %s", email)
	}
	if err != nil {
		return nil, err
	}
	return hash, nil
}

func (s *Store) UpdateProfile(email string, profile models.Profile) error {
	res, err := s.db.Exec(`
		UPDATE users
		SET full_name = $2, profile_image_ref = $3, role = $4,
		    address = $5, city = $6, country = $7
		WHERE email = $1`,
		strings.ToLower(email), profile.FullName, profile.ProfileImageRef,
		profile.Role, profile.Address, profile.City, profile.Country)
	if err != nil {
		return chat.RemoteWrite("update profile", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return chat.NotFoundf("user %s", email)
	}
	return nil
}

func (s *Store) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT email, full_name, profile_image_ref, role, address, city, country, created_at
		FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Email, &u.FullName, &u.ProfileImageRef, &u.Role,
			&u.Address, &u.City, &u.Country, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
