package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"mailgate/contexts/mail-gateway/outbound-mail-service/adapters/memory"
	domainerrors "mailgate/contexts/mail-gateway/outbound-mail-service/domain/errors"
	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

type stubCodec struct{}

func (stubCodec) Encode(pid int64) string {
	return "reply-" + strconv.FormatInt(pid, 10) + "@forum.example"
}

func (stubCodec) Decode(address string) (int64, bool) {
	var pid int64
	_, err := fmt.Sscanf(address, "reply-%d@forum.example", &pid)
	return pid, err == nil
}

func newTestService(store *memory.Store) Service {
	return Service{
		Gateway:        store,
		Users:          store,
		Posts:          store,
		Codec:          stubCodec{},
		From:           "noreply@forum.example",
		InboundEnabled: true,
	}
}

func TestSendSetsReplyToForNotifications(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	err := service.Send(context.Background(), ports.EmailPayload{
		To:              "alice@forum.example",
		Subject:         "new reply",
		HTML:            "<p>hi</p>",
		NotificationPID: 42,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	requests := store.Requests()
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if got := requests[0].Headers["Reply-To"]; got != "reply-42@forum.example" {
		t.Errorf("unexpected reply-to %q", got)
	}
}

func TestSendOmitsReplyToWhenInboundDisabled(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	service.InboundEnabled = false

	err := service.Send(context.Background(), ports.EmailPayload{
		To:              "alice@forum.example",
		NotificationPID: 42,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	requests := store.Requests()
	if _, ok := requests[0].Headers["Reply-To"]; ok {
		t.Error("reply-to must not be set when inbound replies are disabled")
	}
}

func TestSendResolvesAuthorNameFromNotificationPost(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	// Post 42 was written by uid 9 (alice).
	err := service.Send(context.Background(), ports.EmailPayload{
		To:              "bob@forum.example",
		NotificationPID: 42,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	requests := store.Requests()
	if requests[0].FromName != "alice" {
		t.Errorf("expected author username as from name, got %q", requests[0].FromName)
	}
}

func TestSendNeverLeaksEmailWhenHidden(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	store.SetShowEmail(9, false)

	err := service.Send(context.Background(), ports.EmailPayload{
		To:              "bob@forum.example",
		NotificationPID: 42,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	for _, request := range store.Requests() {
		if strings.Contains(request.From, "alice@forum.example") ||
			strings.Contains(request.FromName, "alice@forum.example") {
			t.Errorf("hidden email leaked into request: %+v", request)
		}
	}
}

func TestSendWithoutSenderContext(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	err := service.Send(context.Background(), ports.EmailPayload{
		To:      "bob@forum.example",
		Subject: "announcement",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	request := store.Requests()[0]
	if request.FromName != "" {
		t.Errorf("expected empty from name, got %q", request.FromName)
	}
	if _, ok := request.Headers["Reply-To"]; ok {
		t.Error("reply-to must not be set without a notification post")
	}
	if request.From != "noreply@forum.example" {
		t.Errorf("expected configured from address, got %q", request.From)
	}
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	err := service.Send(context.Background(), ports.EmailPayload{Subject: "no recipient"})
	if !errors.Is(err, domainerrors.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if len(store.Requests()) != 0 {
		t.Error("no request should have been dispatched")
	}
}

func TestSendWithoutGatewayIsNoOp(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	service.Gateway = nil

	err := service.Send(context.Background(), ports.EmailPayload{To: "alice@forum.example"})
	if err != nil {
		t.Fatalf("expected trivial success, got %v", err)
	}
	if len(store.Requests()) != 0 {
		t.Error("no request should have been dispatched")
	}
}

func TestSendPropagatesGatewayError(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	sendErr := errors.New("provider down")
	store.SetSendError(sendErr)

	err := service.Send(context.Background(), ports.EmailPayload{To: "alice@forum.example"})
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestSendTemplateRendersBodyAndSubject(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	err := service.SendToEmail(context.Background(), "bounce", "guest@example.org", "en-US", ports.TemplateParams{
		SiteTitle:   "Forum",
		Subject:     "Re: my reply",
		MessageBody: "<p>original</p>",
	})
	if err != nil {
		t.Fatalf("send template: %v", err)
	}

	request := store.Requests()[0]
	if request.Subject != "Re: my reply" {
		t.Errorf("unexpected subject %q", request.Subject)
	}
	if !strings.Contains(request.HTML, "<p>original</p>") {
		t.Errorf("original message not embedded: %q", request.HTML)
	}
	if !strings.Contains(request.HTML, "could not be posted") {
		t.Errorf("bounce framing missing: %q", request.HTML)
	}
}

func TestSendTemplateExplicitSubjectWins(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	err := service.SendTemplate(context.Background(), "reply_notification", "en-US", ports.EmailPayload{
		To:      "alice@forum.example",
		Subject: "custom subject",
	}, ports.TemplateParams{SiteTitle: "Forum", Subject: "template subject"})
	if err != nil {
		t.Fatalf("send template: %v", err)
	}

	if got := store.Requests()[0].Subject; got != "custom subject" {
		t.Errorf("expected explicit subject, got %q", got)
	}
}
