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

// Package memory holds an in-memory twin of the postgres store with
// identical semantics. It backs tests and local development without a
// database.
package memory

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mindmotion/mmchat/backend/chat"
	"github.com/mindmotion/mmchat/backend/models"
)

var (
	errDuplicate   = errors.New("duplicate key")
	errNoCommunity = errors.New("community does not exist")
)

type communityRec struct {
	community models.Community
	members   map[string]bool
}

type Store struct {
	mu sync.RWMutex

	users map[string]models.User
	creds map[string][]byte

	directMessages    []models.DirectMessage
	communityMessages []models.CommunityMessage
	seq               int64

	communities map[string]*communityRec

	opens map[string]map[string]int64
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]models.User),
		creds:       make(map[string][]byte),
		communities: make(map[string]*communityRec),
		opens:       make(map[string]map[string]int64),
	}
}

// --- UserStore ---

func (s *Store) CreateUser(user models.User, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(user.Email)
	if _, exists := s.users[email]; exists {
		return chat.RemoteWrite("create user", errDuplicate)
	}
	user.Email = email
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[email] = user
	s.creds[email] = passwordHash
	return nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, chat.NotFoundf("user %s", email)
	}
	return &u, nil
}

func (s *Store) GetCredentials(email string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.creds[strings.ToLower(email)]
	if !ok {
		return nil, chat.NotFoundf("user %s", email)
	}
	return hash, nil
}

func (s *Store) UpdateProfile(email string, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	u, ok := s.users[key]
	if !ok {
		return chat.NotFoundf("user %s", email)
	}
	u.FullName = profile.FullName
	u.ProfileImageRef = profile.ProfileImageRef
	u.Role = profile.Role
	u.Address = profile.Address
	u.City = profile.City
	u.Country = profile.Country
	s.users[key] = u
	return nil
}

func (s *Store) GetAllUsers() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// --- MessageStore ---

func (s *Store) SaveDirectMessage(msg *models.DirectMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	msg.Seq = s.seq
	msg.SenderEmail = strings.ToLower(msg.SenderEmail)
	msg.ReceiverEmail = strings.ToLower(msg.ReceiverEmail)
	s.directMessages = append(s.directMessages, *msg)
	return nil
}

func (s *Store) GetConversation(conversationKey string) ([]models.DirectMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.DirectMessage
	for _, m := range s.directMessages {
		if m.Conversation == conversationKey {
			out = append(out, m)
		}
	}
	sortDirect(out)
	return out, nil
}

func (s *Store) GetMessagesForUser(email string) ([]models.DirectMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := strings.ToLower(email)
	var out []models.DirectMessage
	for _, m := range s.directMessages {
		if m.SenderEmail == key || m.ReceiverEmail == key {
			out = append(out, m)
		}
	}
	sortDirect(out)
	return out, nil
}

func (s *Store) SaveCommunityMessage(msg *models.CommunityMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.communities[msg.CommunityID]; !ok {
		return chat.RemoteWrite("save community message", errNoCommunity)
	}
	s.seq++
	msg.Seq = s.seq
	msg.SenderEmail = strings.ToLower(msg.SenderEmail)
	s.communityMessages = append(s.communityMessages, *msg)
	return nil
}

func (s *Store) GetCommunityMessages(communityID string) ([]models.CommunityMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CommunityMessage
	for _, m := range s.communityMessages {
		if m.CommunityID == communityID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimestampMS != out[j].TimestampMS {
			return out[i].TimestampMS < out[j].TimestampMS
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

// --- CommunityStore ---

func (s *Store) CreateCommunity(c *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.communities[c.ID]; exists {
		return chat.RemoteWrite("create community", errDuplicate)
	}
	rec := &communityRec{
		community: models.Community{
			ID:        c.ID,
			Name:      c.Name,
			Admin:     strings.ToLower(c.Admin),
			CreatedAt: c.CreatedAt,
		},
		members: make(map[string]bool),
	}
	if rec.community.CreatedAt.IsZero() {
		rec.community.CreatedAt = time.Now()
	}
	for _, m := range c.Members {
		rec.members[strings.ToLower(m)] = true
	}
	s.communities[c.ID] = rec
	return nil
}

func (s *Store) GetCommunity(communityID string) (*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.communities[communityID]
	if !ok {
		return nil, chat.NotFoundf("community %s", communityID)
	}
	c := rec.community
	c.Members = memberList(rec.members)
	return &c, nil
}

func (s *Store) GetCommunitiesFor(email string) ([]models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := strings.ToLower(email)
	var out []models.Community
	for _, rec := range s.communities {
		if rec.members[key] {
			c := rec.community
			c.Members = memberList(rec.members)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) AddMember(communityID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.communities[communityID]
	if !ok {
		return chat.NotFoundf("community %s", communityID)
	}
	rec.members[strings.ToLower(email)] = true
	return nil
}

func (s *Store) RemoveMember(communityID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.communities[communityID]
	if !ok {
		return chat.NotFoundf("community %s", communityID)
	}
	delete(rec.members, strings.ToLower(email))
	return nil
}

func (s *Store) GetMembers(communityID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.communities[communityID]
	if !ok {
		return nil, chat.NotFoundf("community %s", communityID)
	}
	return memberList(rec.members), nil
}

// --- OpenMarkerStore ---

func (s *Store) MarkOpened(userEmail, peerEmail string, atMS int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := strings.ToLower(userEmail)
	peer := strings.ToLower(peerEmail)
	if s.opens[user] == nil {
		s.opens[user] = make(map[string]int64)
	}
	if atMS > s.opens[user][peer] {
		s.opens[user][peer] = atMS
	}
	return nil
}

func (s *Store) GetOpenMarkers(userEmail string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	markers := make(map[string]int64, len(s.opens[strings.ToLower(userEmail)]))
	for peer, at := range s.opens[strings.ToLower(userEmail)] {
		markers[peer] = at
	}
	return markers, nil
}

func sortDirect(msgs []models.DirectMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].TimestampMS != msgs[j].TimestampMS {
			return msgs[i].TimestampMS < msgs[j].TimestampMS
		}
		return msgs[i].Seq < msgs[j].Seq
	})
}

func memberList(set map[string]bool) []string {
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}
