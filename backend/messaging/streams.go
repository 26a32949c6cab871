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

package messaging

import (
	"context"
	"errors"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/models"
)

// Every stream follows the same contract: the full current state is
// emitted immediately on subscribe, then again after every change
// notification. Each emission replaces the previous one entirely, so a
// consumer holds no merge logic; a slow consumer simply skips straight
// to the newest snapshot. The stream ends when ctx is cancelled.

// StreamConversation emits ordered full snapshots of one direct-message
// thread.
func (s *Service) StreamConversation(ctx context.Context, conversationKey string) <-chan []models.DirectMessage {
	return runStream(ctx, s, chat.ConversationTopic(conversationKey), func() ([]models.DirectMessage, error) {
		return s.Conversation(conversationKey)
	})
}

// StreamCommunityMessages emits ordered full snapshots of a community's
// message log.
func (s *Service) StreamCommunityMessages(ctx context.Context, communityID string) <-chan []models.CommunityMessage {
	return runStream(ctx, s, chat.CommunityTopic(communityID), func() ([]models.CommunityMessage, error) {
		return s.store.GetCommunityMessages(communityID)
	})
}

// StreamCommunity emits the community entity after every membership or
// lifecycle change. A missing community emits nil rather than erroring,
// so a consumer can render the empty state.
func (s *Service) StreamCommunity(ctx context.Context, communityID string) <-chan *models.Community {
	return runStream(ctx, s, chat.CommunityMetaTopic(communityID), func() (*models.Community, error) {
		c, err := s.store.GetCommunity(communityID)
		if errors.Is(err, chat.ErrNotFound) {
			return nil, nil
		}
		return c, err
	})
}

// StreamSummaries emits the caller's recomputed conversation list after
// every message or open-marker change involving them.
func (s *Service) StreamSummaries(ctx context.Context, email string) <-chan []models.ConversationSummary {
	return runStream(ctx, s, chat.InboxTopic(email), func() ([]models.ConversationSummary, error) {
		return s.Summaries(email)
	})
}

func runStream[T any](ctx context.Context, s *Service, topic string, read func() (T, error)) <-chan T {
	out := make(chan T, 1)
	ticks, release := s.notifier.Subscribe(topic)

	go func() {
		defer close(out)
		defer release()

		emit := func() {
			snapshot, err := read()
			if err != nil {
				s.log.Warn().Err(err).Str("topic", topic).Msg("stream read failed")
				return
			}
			// Replace any not-yet-consumed snapshot: last write wins.
			select {
			case <-out:
			default:
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
			}
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				emit()
			}
		}
	}()
	return out
}
