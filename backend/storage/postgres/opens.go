// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package postgres

import (
	"strings"

	"github.com/mindmotion/mmchat/backend/chat"
)

func (s *Store) MarkOpened(userEmail, peerEmail string, atMS int64) error {
	_, err := s.db.Exec(`
		INSERT INTO conversation_opens (user_email, peer_email, opened_at_ms)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_email, peer_email) DO UPDATE
		SET opened_at_ms = GREATEST(conversation_opens.opened_at_ms, $3)`,
		strings.ToLower(userEmail), strings.ToLower(peerEmail), atMS)
	if err != nil {
		return chat.RemoteWrite("mark opened", err)
	}
	return nil
}

func (s *Store) GetOpenMarkers(userEmail string) (map[string]int64, error) {
	rows, err := s.db.Query(`
		SELECT peer_email, opened_at_ms FROM conversation_opens
		WHERE user_email = $1`,
		strings.ToLower(userEmail))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	markers := make(map[string]int64)
	for rows.Next() {
		var peer string
		var at int64
		if err := rows.Scan(&peer, &at); err != nil {
			return nil, err
		}
		markers[peer] = at
	}
	return markers, rows.Err()
}
