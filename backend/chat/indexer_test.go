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

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmotion/mmchat/backend/models"
)

func user(email string) models.User { return models.User{Email: email} }

func dm(seq int64, sender, receiver, text string, ts int64) models.DirectMessage {
	return models.DirectMessage{
		Seq:           seq,
		ID:            text,
		Conversation:  ConversationKey(sender, receiver),
		SenderEmail:   sender,
		ReceiverEmail: receiver,
		Text:          text,
		TimestampMS:   ts,
	}
}

func TestSummariesSortedByLatestTimestamp(t *testing.T) {
	me := "me@x.com"
	peers := []models.User{user("a@x.com"), user("b@x.com"), user("c@x.com"), user(me)}
	msgs := []models.DirectMessage{
		dm(1, me, "a@x.com", "to-a", 100),
		dm(2, "b@x.com", me, "from-b", 300),
		dm(3, "a@x.com", me, "from-a", 200),
	}

	out := Summaries(me, peers, msgs, nil)
	require.Len(t, out, 3)

	// b (300) before a (200); c has no messages and sorts last.
	assert.Equal(t, "b@x.com", out[0].PeerEmail)
	assert.Equal(t, "from-b", out[0].LastMessage.Text)
	assert.Equal(t, "a@x.com", out[1].PeerEmail)
	assert.Equal(t, "from-a", out[1].LastMessage.Text)
	assert.Equal(t, "c@x.com", out[2].PeerEmail)
	assert.Nil(t, out[2].LastMessage)
}

func TestSummariesExcludesSelfAndUninvolvedMessages(t *testing.T) {
	me := "me@x.com"
	peers := []models.User{user(me), user("a@x.com")}
	msgs := []models.DirectMessage{
		dm(1, "a@x.com", "b@x.com", "not-mine", 500),
	}

	out := Summaries(me, peers, msgs, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "a@x.com", out[0].PeerEmail)
	assert.Nil(t, out[0].LastMessage)
}

func TestSummariesTimestampTieLastInsertionWins(t *testing.T) {
	me := "me@x.com"
	msgs := []models.DirectMessage{
		dm(1, "a@x.com", me, "first", 100),
		dm(2, me, "a@x.com", "second", 100),
	}

	out := Summaries(me, []models.User{user("a@x.com")}, msgs, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "second", out[0].LastMessage.Text)
}

func TestSummariesUnreadFlag(t *testing.T) {
	me := "me@x.com"
	peers := []models.User{user("a@x.com"), user("b@x.com")}
	msgs := []models.DirectMessage{
		dm(1, "a@x.com", me, "unseen", 200),
		dm(2, "b@x.com", me, "seen", 300),
	}
	opened := map[string]int64{"b@x.com": 300}

	out := Summaries(me, peers, msgs, opened)
	require.Len(t, out, 2)

	assert.Equal(t, "b@x.com", out[0].PeerEmail)
	assert.False(t, out[0].HasUnread, "opened at the message timestamp means read")
	assert.Equal(t, "a@x.com", out[1].PeerEmail)
	assert.True(t, out[1].HasUnread)
}

func TestSummariesSentMessageNeverUnread(t *testing.T) {
	me := "me@x.com"
	msgs := []models.DirectMessage{
		dm(1, me, "a@x.com", "mine", 100),
	}

	out := Summaries(me, []models.User{user("a@x.com")}, msgs, nil)
	require.Len(t, out, 1)
	assert.False(t, out[0].HasUnread)
}

func TestSummariesIncludesPeersKnownOnlyFromTraffic(t *testing.T) {
	me := "me@x.com"
	msgs := []models.DirectMessage{
		dm(1, "ghost@x.com", me, "hello", 100),
	}

	out := Summaries(me, nil, msgs, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "ghost@x.com", out[0].PeerEmail)
}

// The two-direction exchange from the conversation-list scenario: after
// a->b then b->a, a's list shows b with the reply as last message.
func TestSummariesReplyScenario(t *testing.T) {
	a, b := "a@x.com", "b@x.com"
	msgs := []models.DirectMessage{
		dm(1, a, b, "hi", 100),
		dm(2, b, a, "yo", 200),
	}

	out := Summaries(a, []models.User{user(a), user(b)}, msgs, nil)
	require.Len(t, out, 1)
	assert.Equal(t, b, out[0].PeerEmail)
	assert.Equal(t, "yo", out[0].LastMessage.Text)
	assert.Equal(t, int64(200), out[0].LastMessage.TimestampMS)
	assert.True(t, out[0].HasUnread)
}

func TestSummariesDeterministicForNoMessagePeers(t *testing.T) {
	me := "me@x.com"
	peers := []models.User{user("c@x.com"), user("a@x.com"), user("b@x.com")}

	out := Summaries(me, peers, nil, nil)
	require.Len(t, out, 3)
	assert.Equal(t, "a@x.com", out[0].PeerEmail)
	assert.Equal(t, "b@x.com", out[1].PeerEmail)
	assert.Equal(t, "c@x.com", out[2].PeerEmail)
}
