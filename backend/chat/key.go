// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"sort"
	"strings"
)

// ConversationKey derives the identifier of the direct-message thread
// between two users. The pair is sorted first, so the key is the same
// regardless of argument order.
func ConversationKey(a, b string) string {
	pair := []string{strings.ToLower(a), strings.ToLower(b)}
	sort.Strings(pair)
	return pair[0] + ":" + pair[1]
}

// CommunityTopic and ConversationTopic name the change-notification
// channels a subscriber listens on for a given log.
func ConversationTopic(key string) string { return "conv:" + key }

func CommunityTopic(communityID string) string { return "community:" + communityID }

// CommunityMetaTopic carries community entity changes (membership,
// creation), as opposed to its message log.
func CommunityMetaTopic(communityID string) string { return "community-meta:" + communityID }

// InboxTopic carries "your conversation list changed" notifications
// for a single user.
func InboxTopic(email string) string { return "inbox:" + strings.ToLower(email) }
