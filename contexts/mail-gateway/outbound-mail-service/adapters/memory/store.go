package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

// Store is an in-memory implementation of the outbound collaborator ports
// plus a recording delivery gateway for tests.
type Store struct {
	mu sync.RWMutex

	settings    map[int64]ports.UserSettings
	users       map[int64]ports.UserFields
	postAuthors map[int64]int64
	followers   map[int64][]ports.Recipient

	sendErr  error
	requests []ports.OutboundRequest
}

func NewStore() *Store {
	return &Store{
		settings: map[int64]ports.UserSettings{
			9:  {ShowEmail: true},
			10: {ShowEmail: false},
		},
		users: map[int64]ports.UserFields{
			9:  {Email: "alice@forum.example", Username: "alice"},
			10: {Email: "bob@forum.example", Username: "bob"},
		},
		postAuthors: map[int64]int64{
			42: 9,
			77: 9,
		},
		followers: map[int64][]ports.Recipient{
			7: {
				{UID: 9, Email: "alice@forum.example", Username: "alice"},
				{UID: 10, Email: "bob@forum.example", Username: "bob"},
			},
		},
	}
}

func (s *Store) GetUserSettings(_ context.Context, uid int64) (ports.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[uid]
	if !ok {
		return ports.UserSettings{}, fmt.Errorf("user %d not found", uid)
	}
	return settings, nil
}

func (s *Store) GetUserFields(_ context.Context, uid int64, fields []string) (ports.UserFields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[uid]
	if !ok {
		return ports.UserFields{}, fmt.Errorf("user %d not found", uid)
	}

	var out ports.UserFields
	for _, field := range fields {
		switch field {
		case "email":
			out.Email = user.Email
		case "username":
			out.Username = user.Username
		}
	}
	return out, nil
}

func (s *Store) GetPostAuthor(_ context.Context, pid int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.postAuthors[pid]
	if !ok {
		return 0, fmt.Errorf("post %d not found", pid)
	}
	return uid, nil
}

func (s *Store) ListTopicFollowers(_ context.Context, tid int64, excludeUID int64) ([]ports.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ports.Recipient
	for _, follower := range s.followers[tid] {
		if follower.UID == excludeUID {
			continue
		}
		out = append(out, follower)
	}
	return out, nil
}

func (s *Store) Send(_ context.Context, request ports.OutboundRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.requests = append(s.requests, request)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// Test helpers.

func (s *Store) SetSendError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

func (s *Store) SetShowEmail(uid int64, show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[uid] = ports.UserSettings{ShowEmail: show}
}

func (s *Store) Requests() []ports.OutboundRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.OutboundRequest(nil), s.requests...)
}
