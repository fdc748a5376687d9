package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mailgate/contexts/mail-gateway/inbound-reply-service/ports"
	eventsv1 "mailgate/contracts/gen/events/v1"
)

// Store is an in-memory implementation of every inbound collaborator port.
// It is seeded with a small forum fixture and records bounces, published
// events, and lookup counts for tests.
type Store struct {
	mu sync.RWMutex

	usersByEmail map[string]int64
	topics       map[int64]int64 // tid -> cid
	posts        map[int64]ports.Post
	privileges   map[int64]map[string]map[string]bool // cid -> group -> privilege
	nextPID      int64
	sequence     uint64

	replyErr    error
	userLookups int
	bounces     []ports.Bounce
	published   []eventsv1.Envelope
}

func NewStore() *Store {
	return &Store{
		usersByEmail: map[string]int64{
			"alice@forum.example": 9,
		},
		topics: map[int64]int64{
			7: 2, // guests may reply
			8: 3, // guests may not reply
		},
		posts: map[int64]ports.Post{
			42: {PID: 42, TID: 7, UID: 9},
			77: {PID: 77, TID: 8, UID: 9},
		},
		privileges: map[int64]map[string]map[string]bool{
			2: {"guests": {ports.GuestReplyPrivilege: true}},
			3: {"guests": {"groups:topics:read": true}},
		},
		nextPID: 100,
	}
}

func (s *Store) GetUIDByEmail(_ context.Context, email string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLookups++
	uid, ok := s.usersByEmail[email]
	return uid, ok, nil
}

func (s *Store) GetTopicCategory(_ context.Context, tid int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cid, ok := s.topics[tid]
	if !ok {
		return 0, fmt.Errorf("topic %d not found", tid)
	}
	return cid, nil
}

func (s *Store) GroupPrivileges(_ context.Context, cid int64, group string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	granted := map[string]bool{}
	for privilege, ok := range s.privileges[cid][group] {
		granted[privilege] = ok
	}
	return granted, nil
}

func (s *Store) GetPostTopic(_ context.Context, pid int64) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[pid]
	if !ok {
		return 0, false, nil
	}
	return post.TID, true, nil
}

func (s *Store) CreateReply(_ context.Context, command ports.ReplyCommand) (ports.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replyErr != nil {
		return ports.Post{}, s.replyErr
	}

	s.nextPID++
	post := ports.Post{
		PID:       s.nextPID,
		TID:       command.TID,
		UID:       command.UID,
		ToPID:     command.ToPID,
		Content:   command.Content,
		Handle:    command.Handle,
		CreatedAt: time.Now().UTC(),
	}
	s.posts[post.PID] = post
	return post, nil
}

func (s *Store) SendBounce(_ context.Context, bounce ports.Bounce) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounces = append(s.bounces, bounce)
	return nil
}

func (s *Store) Publish(_ context.Context, _ string, event eventsv1.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, event)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return fmt.Sprintf("evt-%d", s.sequence)
}

// Test helpers.

func (s *Store) SeedUser(email string, uid int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByEmail[email] = uid
}

func (s *Store) SetGroupPrivilege(cid int64, group string, privilege string, granted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.privileges[cid] == nil {
		s.privileges[cid] = map[string]map[string]bool{}
	}
	if s.privileges[cid][group] == nil {
		s.privileges[cid][group] = map[string]bool{}
	}
	s.privileges[cid][group][privilege] = granted
}

func (s *Store) SetReplyError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyErr = err
}

func (s *Store) GetPost(pid int64) (ports.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[pid]
	return post, ok
}

func (s *Store) LatestPost() (ports.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[s.nextPID]
	return post, ok
}

func (s *Store) Bounces() []ports.Bounce {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Bounce(nil), s.bounces...)
}

func (s *Store) Published() []eventsv1.Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]eventsv1.Envelope(nil), s.published...)
}

func (s *Store) UserLookupCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLookups
}
