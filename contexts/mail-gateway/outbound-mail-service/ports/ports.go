package ports

import (
	"context"
	"time"

	eventsv1 "mailgate/contracts/gen/events/v1"
)

type Clock interface {
	Now() time.Time
}

// AddressCodec derives the reply-routing address attached to outbound mail.
type AddressCodec interface {
	Encode(pid int64) string
	Decode(address string) (int64, bool)
}

// EmailPayload is one outbound notification to be composed and dispatched.
// FromUID and NotificationPID drive sender personalization; either may be
// zero when unknown.
type EmailPayload struct {
	Template        string
	To              string
	ToName          string
	Subject         string
	HTML            string
	Text            string
	From            string
	FromName        string
	FromUID         int64
	NotificationPID int64
}

// OutboundRequest is the provider-agnostic send request. Built fresh per
// send, never retained after dispatch.
type OutboundRequest struct {
	To       string
	ToName   string
	Subject  string
	HTML     string
	Text     string
	From     string
	FromName string
	Headers  map[string]string
}

type DeliveryGateway interface {
	Send(ctx context.Context, request OutboundRequest) error
}

type UserSettings struct {
	ShowEmail bool
}

type UserFields struct {
	Email    string
	Username string
}

type UserDirectory interface {
	GetUserSettings(ctx context.Context, uid int64) (UserSettings, error)
	GetUserFields(ctx context.Context, uid int64, fields []string) (UserFields, error)
}

type PostDirectory interface {
	GetPostAuthor(ctx context.Context, pid int64) (int64, error)
}

type Recipient struct {
	UID      int64
	Email    string
	Username string
}

type FollowerDirectory interface {
	// ListTopicFollowers returns thread followers excluding the given uid.
	ListTopicFollowers(ctx context.Context, tid int64, excludeUID int64) ([]Recipient, error)
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, eventsv1.Envelope) error) error
}

// TemplateParams feed the built-in mail templates. MessageBody is trusted
// HTML (the original message being echoed back) and is not re-escaped.
type TemplateParams struct {
	SiteTitle   string
	Subject     string
	MessageBody string
}
