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

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/models"
)

func (s *Store) SaveDirectMessage(msg *models.DirectMessage) error {
	err := s.db.QueryRow(`
		INSERT INTO direct_messages (id, conversation, sender_email, receiver_email, text, timestamp_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`,
		msg.ID, msg.Conversation, strings.ToLower(msg.SenderEmail),
		strings.ToLower(msg.ReceiverEmail), msg.Text, msg.TimestampMS).Scan(&msg.Seq)
	if err != nil {
		return chat.RemoteWrite("save direct message", err)
	}
	return nil
}

func (s *Store) GetConversation(conversationKey string) ([]models.DirectMessage, error) {
	rows, err := s.db.Query(`
		SELECT seq, id, conversation, sender_email, receiver_email, text, timestamp_ms
		FROM direct_messages
		WHERE conversation = $1
		ORDER BY timestamp_ms, seq`,
		conversationKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDirectMessages(rows)
}

func (s *Store) GetMessagesForUser(email string) ([]models.DirectMessage, error) {
	rows, err := s.db.Query(`
		SELECT seq, id, conversation, sender_email, receiver_email, text, timestamp_ms
		FROM direct_messages
		WHERE sender_email = $1 OR receiver_email = $1
		ORDER BY timestamp_ms, seq`,
		strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDirectMessages(rows)
}

func (s *Store) SaveCommunityMessage(msg *models.CommunityMessage) error {
	err := s.db.QueryRow(`
		INSERT INTO community_messages (id, community_id, sender_email, text, timestamp_ms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq`,
		msg.ID, msg.CommunityID, strings.ToLower(msg.SenderEmail),
		msg.Text, msg.TimestampMS).Scan(&msg.Seq)
	if err != nil {
		return chat.RemoteWrite("save community message", err)
	}
	return nil
}

func (s *Store) GetCommunityMessages(communityID string) ([]models.CommunityMessage, error) {
	rows, err := s.db.Query(`
		SELECT seq, id, community_id, sender_email, text, timestamp_ms
		FROM community_messages
		WHERE community_id = $1
		ORDER BY timestamp_ms, seq`,
		communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.CommunityMessage
	for rows.Next() {
		var m models.CommunityMessage
		if err := rows.Scan(&m.Seq, &m.ID, &m.CommunityID, &m.SenderEmail,
			&m.Text, &m.TimestampMS); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func scanDirectMessages(rows *sql.Rows) ([]models.DirectMessage, error) {
	var messages []models.DirectMessage
	for rows.Next() {
		var m models.DirectMessage
		if err := rows.Scan(&m.Seq, &m.ID, &m.Conversation, &m.SenderEmail,
			&m.ReceiverEmail, &m.Text, &m.TimestampMS); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
