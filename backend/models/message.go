// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

// DirectMessage is one message in a two-party conversation. Records are
// immutable once written. Seq is assigned by the store in insertion
// order and breaks ties between equal timestamps.
type DirectMessage struct {
	ID            string `json:"id" db:"id"`
	Conversation  string `json:"conversation" db:"conversation"`
	SenderEmail   string `json:"sender_email" db:"sender_email"`
	ReceiverEmail string `json:"receiver_email" db:"receiver_email"`
	Text          string `json:"text" db:"text"`
	TimestampMS   int64  `json:"timestamp_ms" db:"timestamp_ms"`
	Seq           int64  `json:"-" db:"seq"`
}

// CommunityMessage is one message in a community's log. Immutable,
// append-only, belongs to exactly one community.
type CommunityMessage struct {
	ID          string `json:"id" db:"id"`
	CommunityID string `json:"community_id" db:"community_id"`
	SenderEmail string `json:"sender_email" db:"sender_email"`
	Text        string `json:"text" db:"text"`
	TimestampMS int64  `json:"timestamp_ms" db:"timestamp_ms"`
	Seq         int64  `json:"-" db:"seq"`
}
