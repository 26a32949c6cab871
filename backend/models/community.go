// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

import "time"

// Community is a named group with an admin and a member set.
// Invariant: Admin is always present in Members.
type Community struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Admin     string    `json:"admin" db:"admin"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsMember reports whether email is currently in the member set.
func (c *Community) IsMember(email string) bool {
	for _, m := range c.Members {
		if m == email {
			return true
		}
	}
	return false
}

// ConversationSummary is one row of a user's conversation list: the
// peer, the newest message exchanged with them (nil if none yet), and
// whether that message is still unread. Derived, never persisted.
type ConversationSummary struct {
	PeerEmail   string         `json:"peer_email"`
	LastMessage *DirectMessage `json:"last_message,omitempty"`
	HasUnread   bool           `json:"has_unread"`
}
