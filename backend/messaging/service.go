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

// Package messaging is the write/read core of the chat system: message
// sends, community lifecycle, conversation summaries, and the live
// snapshot streams built on top of a change notifier.
package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/models"
	"github.com/mindmotion/mmchat/backend/storage"
)

// Notifier carries "this log changed" ticks between writers and stream
// subscribers. Payload-free: subscribers re-read the full state.
type Notifier interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(topic string) (<-chan struct{}, func())
}

// ConversationCache is an optional best-effort secondary store serving
// last-known conversation snapshots when the primary read fails.
type ConversationCache interface {
	Append(conversationKey string, msg models.DirectMessage) error
	List(conversationKey string) ([]models.DirectMessage, error)
}

// Config tunes policy knobs that the stored data deliberately does not
// enforce.
type Config struct {
	// RequireMembership rejects community messages from non-members.
	// Off by default: the upstream design accepts such writes, and
	// enforcement is an explicit opt-in.
	RequireMembership bool
}

type Service struct {
	store    storage.Store
	notifier Notifier
	cache    ConversationCache
	cfg      Config
	log      zerolog.Logger

	now func() time.Time
}

func NewService(store storage.Store, notifier Notifier, cache ConversationCache, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		cache:    cache,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// SendDirect validates, appends and announces one direct message. The
// receiver must resolve in the directory (best-effort check, not
// transactional with the write).
func (s *Service) SendDirect(ctx context.Context, senderEmail, receiverEmail, text string) (*models.DirectMessage, error) {
	if err := chat.CheckMessageText(text); err != nil {
		return nil, err
	}
	if err := chat.CheckEmails(senderEmail, receiverEmail); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByEmail(receiverEmail); err != nil {
		return nil, err
	}

	msg := &models.DirectMessage{
		ID:            uuid.New().String(),
		Conversation:  chat.ConversationKey(senderEmail, receiverEmail),
		SenderEmail:   senderEmail,
		ReceiverEmail: receiverEmail,
		Text:          text,
		TimestampMS:   s.now().UnixMilli(),
	}
	if err := s.store.SaveDirectMessage(msg); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Append(msg.Conversation, *msg); err != nil {
			s.log.Warn().Err(err).Str("conversation", msg.Conversation).Msg("local cache append failed")
		}
	}

	s.publish(ctx,
		chat.ConversationTopic(msg.Conversation),
		chat.InboxTopic(senderEmail),
		chat.InboxTopic(receiverEmail))
	return msg, nil
}

// SendCommunity appends one message to a community's log. Membership
// is only verified when the service is configured to require it.
func (s *Service) SendCommunity(ctx context.Context, communityID, senderEmail, text string) (*models.CommunityMessage, error) {
	if err := chat.CheckMessageText(text); err != nil {
		return nil, err
	}
	if err := chat.CheckEmails(senderEmail); err != nil {
		return nil, err
	}
	if s.cfg.RequireMembership {
		c, err := s.store.GetCommunity(communityID)
		if err != nil {
			return nil, err
		}
		if !c.IsMember(senderEmail) {
			return nil, chat.Validationf("%s is not a member of %s", senderEmail, communityID)
		}
	}

	msg := &models.CommunityMessage{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		SenderEmail: senderEmail,
		Text:        text,
		TimestampMS: s.now().UnixMilli(),
	}
	if err := s.store.SaveCommunityMessage(msg); err != nil {
		return nil, err
	}

	s.publish(ctx, chat.CommunityTopic(communityID))
	return msg, nil
}

// CreateCommunity registers a new community. The admin is always part
// of the member set, whether or not the caller listed them.
func (s *Service) CreateCommunity(ctx context.Context, name string, members []string, admin string) (*models.Community, error) {
	if err := chat.CheckCommunityName(name); err != nil {
		return nil, err
	}
	if err := chat.CheckEmails(append([]string{admin}, members...)...); err != nil {
		return nil, err
	}

	c := &models.Community{
		ID:      uuid.New().String(),
		Name:    name,
		Admin:   admin,
		Members: append([]string{admin}, members...),
	}
	if err := s.store.CreateCommunity(c); err != nil {
		return nil, err
	}

	created, err := s.store.GetCommunity(c.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, chat.CommunityMetaTopic(c.ID))
	return created, nil
}

// AddMember and RemoveMember mirror the store's idempotent semantics
// and announce the membership change.
func (s *Service) AddMember(ctx context.Context, communityID, email string) error {
	if err := chat.CheckEmails(email); err != nil {
		return err
	}
	if err := s.store.AddMember(communityID, email); err != nil {
		return err
	}
	s.publish(ctx, chat.CommunityMetaTopic(communityID))
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, communityID, email string) error {
	if err := s.store.RemoveMember(communityID, email); err != nil {
		return err
	}
	s.publish(ctx, chat.CommunityMetaTopic(communityID))
	return nil
}

// NonMembers is the directory minus the community's member set.
func (s *Service) NonMembers(communityID string) ([]models.User, error) {
	members, err := s.store.GetMembers(communityID)
	if err != nil {
		return nil, err
	}
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	all, err := s.store.GetAllUsers()
	if err != nil {
		return nil, err
	}
	var out []models.User
	for _, u := range all {
		if !memberSet[u.Email] {
			out = append(out, u)
		}
	}
	return out, nil
}

// Summaries recomputes the caller's conversation list from the current
// snapshot of directory, messages and open markers.
func (s *Service) Summaries(email string) ([]models.ConversationSummary, error) {
	peers, err := s.store.GetAllUsers()
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.GetMessagesForUser(email)
	if err != nil {
		return nil, err
	}
	opened, err := s.store.GetOpenMarkers(email)
	if err != nil {
		return nil, err
	}
	return chat.Summaries(email, peers, msgs, opened), nil
}

// MarkOpened records "user is looking at this conversation now", which
// clears the unread badge for everything sent up to this moment.
func (s *Service) MarkOpened(ctx context.Context, userEmail, peerEmail string) error {
	if err := s.store.MarkOpened(userEmail, peerEmail, s.now().UnixMilli()); err != nil {
		return err
	}
	s.publish(ctx, chat.InboxTopic(userEmail))
	return nil
}

// Conversation returns the full ordered thread, falling back to the
// local cache when the system of record cannot be read.
func (s *Service) Conversation(conversationKey string) ([]models.DirectMessage, error) {
	msgs, err := s.store.GetConversation(conversationKey)
	if err == nil || errors.Is(err, chat.ErrNotFound) {
		return msgs, err
	}
	if s.cache != nil {
		if cached, cerr := s.cache.List(conversationKey); cerr == nil {
			s.log.Warn().Err(err).Str("conversation", conversationKey).Msg("serving conversation from local cache")
			return cached, nil
		}
	}
	return nil, err
}

func (s *Service) publish(ctx context.Context, topics ...string) {
	for _, topic := range topics {
		if err := s.notifier.Publish(ctx, topic); err != nil {
			s.log.Warn().Err(err).Str("topic", topic).Msg("publish failed")
		}
	}
}
