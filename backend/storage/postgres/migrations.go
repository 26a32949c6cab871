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

func (s *Store) Migrate() error {
	migrations := []string{
		// Users table. Email is the identity key across the system;
		// rows are never deleted.
		`CREATE TABLE IF NOT EXISTS users (
			email VARCHAR(255) PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			profile_image_ref TEXT NOT NULL DEFAULT '',
			role VARCHAR(64) NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(128) NOT NULL DEFAULT '',
			country VARCHAR(128) NOT NULL DEFAULT '',
			password_hash BYTEA NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Direct messages, append-only. seq gives a total insertion
		// order and breaks timestamp ties deterministically.
		`CREATE TABLE IF NOT EXISTS direct_messages (
			seq BIGSERIAL PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			conversation VARCHAR(511) NOT NULL,
			sender_email VARCHAR(255) NOT NULL,
			receiver_email VARCHAR(255) NOT NULL,
			text TEXT NOT NULL,
			timestamp_ms BIGINT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_dm_conversation
		ON direct_messages(conversation, timestamp_ms, seq)`,

		`CREATE INDEX IF NOT EXISTS idx_dm_sender
		ON direct_messages(sender_email)`,

		`CREATE INDEX IF NOT EXISTS idx_dm_receiver
		ON direct_messages(receiver_email)`,

		// Communities table
		`CREATE TABLE IF NOT EXISTS communities (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			admin VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Community members table
		`CREATE TABLE IF NOT EXISTS community_members (
			community_id VARCHAR(64) NOT NULL,
			email VARCHAR(255) NOT NULL,
			joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (community_id, email),
			FOREIGN KEY (community_id) REFERENCES communities(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_member_communities
		ON community_members(email, community_id)`,

		// Community messages, append-only like direct_messages.
		`CREATE TABLE IF NOT EXISTS community_messages (
			seq BIGSERIAL PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			community_id VARCHAR(64) NOT NULL,
			sender_email VARCHAR(255) NOT NULL,
			text TEXT NOT NULL,
			timestamp_ms BIGINT NOT NULL,
			FOREIGN KEY (community_id) REFERENCES communities(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_community_messages
		ON community_messages(community_id, timestamp_ms, seq)`,

		// Per-(user, peer) "conversation opened" markers for the
		// unread badge. Upserted on every open.
		`CREATE TABLE IF NOT EXISTS conversation_opens (
			user_email VARCHAR(255) NOT NULL,
			peer_email VARCHAR(255) NOT NULL,
			opened_at_ms BIGINT NOT NULL,
			PRIMARY KEY (user_email, peer_email)
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
