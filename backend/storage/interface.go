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

package storage

import (
	"github.com/mindmotion/mmchat/backend/models"
)

// UserStore is the user directory plus credential storage for the
// built-in identity endpoints. Reads are point-in-time, not live.
type UserStore interface {
	CreateUser(user models.User, passwordHash []byte) error
	GetUserByEmail(email string) (*models.User, error)
	GetCredentials(email string) ([]byte, error)
	UpdateProfile(email string, profile models.Profile) error
	GetAllUsers() ([]models.User, error)
}

// MessageStore is the append-only log of direct and community
// messages. The store assigns Seq in insertion order; reads return the
// full set for a log ordered by (timestamp, seq) ascending.
type MessageStore interface {
	SaveDirectMessage(msg *models.DirectMessage) error
	GetConversation(conversationKey string) ([]models.DirectMessage, error)
	GetMessagesForUser(email string) ([]models.DirectMessage, error)

	SaveCommunityMessage(msg *models.CommunityMessage) error
	GetCommunityMessages(communityID string) ([]models.CommunityMessage, error)
}

// CommunityStore handles community lifecycle and membership.
// Membership edits are single atomic statements; AddMember of an
// existing member and RemoveMember of an absent one are no-op
// successes.
type CommunityStore interface {
	CreateCommunity(c *models.Community) error
	GetCommunity(communityID string) (*models.Community, error)
	GetCommunitiesFor(email string) ([]models.Community, error)
	AddMember(communityID, email string) error
	RemoveMember(communityID, email string) error
	GetMembers(communityID string) ([]string, error)
}

// OpenMarkerStore records when a user last opened a conversation,
// which drives the unread badge in conversation summaries.
type OpenMarkerStore interface {
	MarkOpened(userEmail, peerEmail string, atMS int64) error
	GetOpenMarkers(userEmail string) (map[string]int64, error)
}

type Store interface {
	UserStore
	MessageStore
	CommunityStore
	OpenMarkerStore
}
