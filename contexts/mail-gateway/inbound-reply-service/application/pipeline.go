package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	domainerrors "mailgate/contexts/mail-gateway/inbound-reply-service/domain/errors"
	"mailgate/contexts/mail-gateway/inbound-reply-service/ports"
	eventsv1 "mailgate/contracts/gen/events/v1"
)

const moduleName = "mail-gateway/inbound-reply-service"

// Service runs the inbound pipeline: verify the reply address, resolve the
// sender to a user or permitted guest, apply the reply, and report failures
// back to the sender. Each event is processed start to finish; events are
// independent of each other.
type Service struct {
	Codec             ports.AddressCodec
	Users             ports.UserDirectory
	Topics            ports.TopicStore
	Content           ports.ContentStore
	Privileges        ports.PrivilegeStore
	Bounce            ports.BounceMailer
	Publisher         ports.EventPublisher
	IDs               ports.IDGenerator
	Clock             ports.Clock
	AllowGuestHandles bool
	Logger            *slog.Logger
}

// Process chains the pipeline stages and routes any rejection through
// HandleFailure. The returned error is the stage error, unchanged.
func (s Service) Process(ctx context.Context, event *ports.InboundEvent) (ports.Post, error) {
	if err := s.VerifyEvent(ctx, event); err != nil {
		s.HandleFailure(ctx, event, err)
		return ports.Post{}, err
	}
	if err := s.ResolveSender(ctx, event); err != nil {
		s.HandleFailure(ctx, event, err)
		return ports.Post{}, err
	}
	post, err := s.ApplyReply(ctx, event)
	if err != nil {
		s.HandleFailure(ctx, event, err)
		return ports.Post{}, err
	}
	return post, nil
}

// VerifyEvent checks the recipient address against the reply-routing pattern
// and resolves the referenced post to its thread. Both must succeed before
// any sender lookup happens.
func (s Service) VerifyEvent(ctx context.Context, event *ports.InboundEvent) error {
	logger := ResolveLogger(s.Logger)

	pid, ok := s.Codec.Decode(strings.TrimSpace(event.To))
	if !ok {
		logger.Warn("could not locate post id in recipient address",
			"event", "inbound_address_rejected",
			"module", moduleName,
			"layer", "application",
			"to", event.To,
		)
		return domainerrors.ErrInvalidData
	}
	event.PID = pid

	tid, found, err := s.Content.GetPostTopic(ctx, pid)
	if err != nil {
		return err
	}
	if !found {
		logger.Warn("could not retrieve thread for post",
			"event", "inbound_thread_missing",
			"module", moduleName,
			"layer", "application",
			"pid", pid,
		)
		return domainerrors.ErrInvalidData
	}
	event.TID = tid
	return nil
}

// ResolveSender maps the sender address to an identity. A registered sender
// always resolves to its user, regardless of guest policy. Unregistered
// senders pass only when the thread's category grants the guests group the
// reply privilege; this is the same check the interactive reply path makes,
// so inbound email can never widen guest access.
func (s Service) ResolveSender(ctx context.Context, event *ports.InboundEvent) error {
	logger := ResolveLogger(s.Logger)

	uid, found, err := s.Users.GetUIDByEmail(ctx, event.SenderEmail)
	if err != nil {
		return err
	}
	if found {
		event.Identity = ports.Identity{Kind: ports.IdentityUser, UID: uid}
		return nil
	}

	cid, err := s.Topics.GetTopicCategory(ctx, event.TID)
	if err != nil {
		return err
	}
	privileges, err := s.Privileges.GroupPrivileges(ctx, cid, "guests")
	if err != nil {
		return err
	}
	if !privileges[ports.GuestReplyPrivilege] {
		logger.Info("guest reply rejected, category does not allow guests",
			"event", "inbound_guest_rejected",
			"module", moduleName,
			"layer", "application",
			"pid", event.PID,
			"cid", cid,
		)
		return domainerrors.ErrNoPrivilege
	}

	identity := ports.Identity{Kind: ports.IdentityGuest}
	if s.AllowGuestHandles {
		if name := strings.TrimSpace(event.SenderName); name != "" {
			identity.Handle = name
		} else {
			identity.Handle = event.SenderEmail
		}
	}
	event.Identity = identity
	return nil
}

// ApplyReply creates the reply and fires the post-created notification as an
// independent background step whose failure never fails the ingestion.
func (s Service) ApplyReply(ctx context.Context, event *ports.InboundEvent) (ports.Post, error) {
	logger := ResolveLogger(s.Logger)
	logger.Info("applying inbound email reply",
		"event", "inbound_reply_applying",
		"module", moduleName,
		"layer", "application",
		"uid", event.Identity.UID,
		"pid", event.PID,
	)

	command := ports.ReplyCommand{
		UID:     event.Identity.UID,
		TID:     event.TID,
		ToPID:   event.PID,
		Content: ExtractReply(event.Text),
	}
	if event.Identity.Kind == ports.IdentityGuest {
		command.Handle = event.Identity.Handle
	}

	post, err := s.Content.CreateReply(ctx, command)
	if err != nil {
		return ports.Post{}, err
	}

	s.notifyReplied(ctx, post)
	return post, nil
}

func (s Service) notifyReplied(ctx context.Context, post ports.Post) {
	if s.Publisher == nil {
		return
	}
	logger := ResolveLogger(s.Logger)

	payload, err := json.Marshal(eventsv1.PostReplied{
		PID:     post.PID,
		TID:     post.TID,
		UID:     post.UID,
		Handle:  post.Handle,
		Content: post.Content,
	})
	if err != nil {
		logger.Error("post.replied payload encode failed",
			"event", "inbound_notify_encode_failed",
			"module", moduleName,
			"layer", "application",
			"pid", post.PID,
			"error", err.Error(),
		)
		return
	}

	envelope := eventsv1.Envelope{
		EventID:       s.newID(),
		EventType:     eventsv1.EventTypePostReplied,
		OccurredAt:    s.now(),
		SourceService: moduleName,
		SchemaVersion: 1,
		PartitionKey:  strconv.FormatInt(post.TID, 10),
		Data:          payload,
	}

	go func(ctx context.Context) {
		if err := s.Publisher.Publish(ctx, eventsv1.EventTypePostReplied, envelope); err != nil {
			logger.Error("post.replied publish failed",
				"event", "inbound_notify_failed",
				"module", moduleName,
				"layer", "application",
				"pid", post.PID,
				"error", err.Error(),
			)
		}
	}(context.WithoutCancel(ctx))
}

// HandleFailure reports a rejection back to the sender. Only the two
// recognized categories bounce; every other error is logged and the event is
// dropped. The asymmetry is intentional pending product confirmation.
func (s Service) HandleFailure(ctx context.Context, event *ports.InboundEvent, cause error) {
	logger := ResolveLogger(s.Logger)

	if !errors.Is(cause, domainerrors.ErrInvalidData) && !errors.Is(cause, domainerrors.ErrNoPrivilege) {
		logger.Error("inbound event dropped",
			"event", "inbound_event_dropped",
			"module", moduleName,
			"layer", "application",
			"to", event.To,
			"error", cause.Error(),
		)
		return
	}

	bounce := ports.Bounce{
		To:          event.SenderEmail,
		Subject:     "Re: " + event.Subject,
		MessageBody: event.HTML,
	}
	if err := s.Bounce.SendBounce(ctx, bounce); err != nil {
		logger.Error("unable to bounce email back to sender",
			"event", "inbound_bounce_failed",
			"module", moduleName,
			"layer", "application",
			"to", event.SenderEmail,
			"error", err.Error(),
		)
		return
	}
	logger.Info("bounced email back to sender",
		"event", "inbound_bounced",
		"module", moduleName,
		"layer", "application",
		"to", event.SenderEmail,
	)
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) newID() string {
	if s.IDs != nil {
		return s.IDs.NewID()
	}
	return ""
}
