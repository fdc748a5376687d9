package ports

import (
	"context"
	"time"

	eventsv1 "mailgate/contracts/gen/events/v1"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// AddressCodec matches the synthetic reply-routing address format. Decode
// reports no match instead of failing.
type AddressCodec interface {
	Encode(pid int64) string
	Decode(address string) (int64, bool)
}

type IdentityKind string

const (
	IdentityUser  IdentityKind = "user"
	IdentityGuest IdentityKind = "guest"
)

// Identity is the resolved actor for an inbound event. Guest identities are
// only produced when the target category grants the guest reply privilege.
type Identity struct {
	Kind   IdentityKind
	UID    int64
	Handle string
}

// InboundEvent is one webhook delivery. It is mutated in place as it flows
// through the pipeline and discarded afterwards, never persisted.
type InboundEvent struct {
	To          string
	SenderEmail string
	SenderName  string
	Subject     string
	Text        string
	HTML        string
	MessageID   string

	// Derived during traversal.
	PID      int64
	TID      int64
	Identity Identity
}

type UserDirectory interface {
	GetUIDByEmail(ctx context.Context, email string) (int64, bool, error)
}

type TopicStore interface {
	GetTopicCategory(ctx context.Context, tid int64) (int64, error)
}

// GuestReplyPrivilege is the privilege key checked for the guests group; it
// is the same key the interactive reply path checks.
const GuestReplyPrivilege = "groups:topics:reply"

type PrivilegeStore interface {
	GroupPrivileges(ctx context.Context, cid int64, group string) (map[string]bool, error)
}

type ReplyCommand struct {
	UID     int64
	TID     int64
	ToPID   int64
	Content string
	Handle  string
}

type Post struct {
	PID       int64
	TID       int64
	UID       int64
	ToPID     int64
	Content   string
	Handle    string
	CreatedAt time.Time
}

type ContentStore interface {
	GetPostTopic(ctx context.Context, pid int64) (int64, bool, error)
	CreateReply(ctx context.Context, command ReplyCommand) (Post, error)
}

// Bounce is the notice returned to the original sender when an inbound
// message could not be applied.
type Bounce struct {
	To          string
	Subject     string
	MessageBody string
}

type BounceMailer interface {
	SendBounce(ctx context.Context, bounce Bounce) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event eventsv1.Envelope) error
}
