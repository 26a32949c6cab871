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

package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/models"
)

func (s *Store) CreateCommunity(c *models.Community) error {
	tx, err := s.db.Begin()
	if err != nil {
		return chat.RemoteWrite("create community", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO communities (id, name, admin, created_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, strings.ToLower(c.Admin), time.Now())
	if err != nil {
		return chat.RemoteWrite("create community", err)
	}

	// Members come in as a set; the admin is guaranteed to be among
	// them by the handler. ON CONFLICT keeps duplicates harmless.
	for _, member := range c.Members {
		_, err = tx.Exec(`
			INSERT INTO community_members (community_id, email, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (community_id, email) DO NOTHING`,
			c.ID, strings.ToLower(member), time.Now())
		if err != nil {
			return chat.RemoteWrite("create community", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return chat.RemoteWrite("create community", err)
	}
	return nil
}

func (s *Store) GetCommunity(communityID string) (*models.Community, error) {
	var c models.Community
	err := s.db.QueryRow(`
		SELECT id, name, admin, created_at FROM communities WHERE id = $1`,
		communityID).Scan(&c.ID, &c.Name, &c.Admin, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, chat.NotFoundf("community %s", communityID)
	}
	if err != nil {
		return nil, err
	}

	members, err := s.GetMembers(communityID)
	if err != nil {
		return nil, err
	}
	c.Members = members
	return &c, nil
}

func (s *Store) GetCommunitiesFor(email string) ([]models.Community, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.admin, c.created_at
		FROM communities c
		JOIN community_members m ON m.community_id = c.id
		WHERE m.email = $1
		ORDER BY c.created_at DESC`,
		strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var communities []models.Community
	for rows.Next() {
		var c models.Community
		if err := rows.Scan(&c.ID, &c.Name, &c.Admin, &c.CreatedAt); err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range communities {
		members, err := s.GetMembers(communities[i].ID)
		if err != nil {
			return nil, err
		}
		communities[i].Members = members
	}
	return communities, nil
}

// AddMember is a single atomic insert; adding an existing member is a
// no-op success.
func (s *Store) AddMember(communityID, email string) error {
	_, err := s.db.Exec(`
		INSERT INTO community_members (community_id, email, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, email) DO NOTHING`,
		communityID, strings.ToLower(email), time.Now())
	if err != nil {
		return chat.RemoteWrite("add member", err)
	}
	return nil
}

// RemoveMember is a single atomic delete; removing an absent member is
// a no-op success. Removing the admin is not prevented here.
func (s *Store) RemoveMember(communityID, email string) error {
	_, err := s.db.Exec(`
		DELETE FROM community_members
		WHERE community_id = $1 AND email = $2`,
		communityID, strings.ToLower(email))
	if err != nil {
		return chat.RemoteWrite("remove member", err)
	}
	return nil
}

func (s *Store) GetMembers(communityID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT email FROM community_members
		WHERE community_id = $1
		ORDER BY email`,
		communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		members = append(members, email)
	}
	return members, rows.Err()
}
