package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"mailgate/contexts/mail-gateway/outbound-mail-service/application"
	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
	eventsv1 "mailgate/contracts/gen/events/v1"
)

const defaultFanoutConsumerGroup = "outbound-mail-reply-fanout-cg"

// ReplyFanout mails thread followers whenever an inbound email was applied
// as a reply. Delivery failures are logged per recipient and never stop the
// remaining fan-out.
type ReplyFanout struct {
	Subscriber    ports.EventSubscriber
	Followers     ports.FollowerDirectory
	Mailer        application.Service
	ConsumerGroup string
	DefaultLang   string
	SiteTitle     string
	Logger        *slog.Logger
}

func (f ReplyFanout) Start(ctx context.Context) error {
	group := strings.TrimSpace(f.ConsumerGroup)
	if group == "" {
		group = defaultFanoutConsumerGroup
	}
	return f.Subscriber.Subscribe(ctx, eventsv1.EventTypePostReplied, group, f.handlePostReplied)
}

func (f ReplyFanout) handlePostReplied(ctx context.Context, event eventsv1.Envelope) error {
	logger := application.ResolveLogger(f.Logger)

	var payload eventsv1.PostReplied
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode post.replied payload: %w", err)
	}
	if payload.PID <= 0 || payload.TID <= 0 {
		return fmt.Errorf("post.replied payload missing pid or tid")
	}

	followers, err := f.Followers.ListTopicFollowers(ctx, payload.TID, payload.UID)
	if err != nil {
		logger.Error("follower lookup failed",
			"event", "outbound_fanout_lookup_failed",
			"module", "mail-gateway/outbound-mail-service",
			"layer", "worker",
			"event_id", event.EventID,
			"tid", payload.TID,
			"error", err.Error(),
		)
		return err
	}

	sent := 0
	for _, follower := range followers {
		if strings.TrimSpace(follower.Email) == "" {
			continue
		}
		err := f.Mailer.SendTemplate(ctx, "reply_notification", f.DefaultLang, ports.EmailPayload{
			To:              follower.Email,
			ToName:          follower.Username,
			NotificationPID: payload.PID,
		}, ports.TemplateParams{
			SiteTitle:   f.SiteTitle,
			Subject:     fmt.Sprintf("New reply in thread %d", payload.TID),
			MessageBody: "<p>" + html.EscapeString(payload.Content) + "</p>",
		})
		if err != nil {
			logger.Error("follower notification failed",
				"event", "outbound_fanout_send_failed",
				"module", "mail-gateway/outbound-mail-service",
				"layer", "worker",
				"event_id", event.EventID,
				"uid", follower.UID,
				"error", err.Error(),
			)
			continue
		}
		sent++
	}

	logger.Info("reply fan-out completed",
		"event", "outbound_fanout_completed",
		"module", "mail-gateway/outbound-mail-service",
		"layer", "worker",
		"event_id", event.EventID,
		"pid", payload.PID,
		"sent_count", sent,
	)
	return nil
}
