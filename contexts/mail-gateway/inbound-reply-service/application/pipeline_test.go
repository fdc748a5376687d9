package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"mailgate/contexts/mail-gateway/inbound-reply-service/adapters/memory"
	domainerrors "mailgate/contexts/mail-gateway/inbound-reply-service/domain/errors"
	"mailgate/contexts/mail-gateway/inbound-reply-service/ports"
	"mailgate/internal/shared/replyaddr"
)

func newTestService(store *memory.Store) Service {
	return Service{
		Codec:             replyaddr.NewCodec("forum.example"),
		Users:             store,
		Topics:            store,
		Content:           store,
		Privileges:        store,
		Bounce:            store,
		Publisher:         store,
		IDs:               store,
		Clock:             store,
		AllowGuestHandles: true,
	}
}

func TestVerifyEventResolvesThread(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{To: "reply-42@forum.example"}
	if err := service.VerifyEvent(context.Background(), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.PID != 42 || event.TID != 7 {
		t.Fatalf("expected pid 42 tid 7, got pid %d tid %d", event.PID, event.TID)
	}
}

func TestVerifyEventRejectsUnknownPost(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{To: "reply-9999@forum.example"}
	if err := service.VerifyEvent(context.Background(), &event); !errors.Is(err, domainerrors.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestResolveSenderPrefersRegisteredUser(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	// Thread 8 sits in a category where guests may not reply; a registered
	// sender must still resolve.
	event := ports.InboundEvent{SenderEmail: "alice@forum.example", TID: 8}
	if err := service.ResolveSender(context.Background(), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Identity.Kind != ports.IdentityUser || event.Identity.UID != 9 {
		t.Fatalf("expected user identity uid 9, got %+v", event.Identity)
	}
}

func TestResolveSenderGrantsGuestWithHandle(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{SenderEmail: "jane@elsewhere.example", SenderName: "Jane", TID: 7}
	if err := service.ResolveSender(context.Background(), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Identity.Kind != ports.IdentityGuest || event.Identity.UID != 0 {
		t.Fatalf("expected guest identity, got %+v", event.Identity)
	}
	if event.Identity.Handle != "Jane" {
		t.Fatalf("expected handle Jane, got %q", event.Identity.Handle)
	}
}

func TestResolveSenderGuestHandleFallsBackToAddress(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{SenderEmail: "jane@elsewhere.example", TID: 7}
	if err := service.ResolveSender(context.Background(), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Identity.Handle != "jane@elsewhere.example" {
		t.Fatalf("expected address fallback handle, got %q", event.Identity.Handle)
	}
}

func TestResolveSenderOmitsHandleWhenDisabled(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	service.AllowGuestHandles = false

	event := ports.InboundEvent{SenderEmail: "jane@elsewhere.example", SenderName: "Jane", TID: 7}
	if err := service.ResolveSender(context.Background(), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Identity.Handle != "" {
		t.Fatalf("expected empty handle, got %q", event.Identity.Handle)
	}
}

func TestResolveSenderRejectsGuestWithoutPrivilege(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{SenderEmail: "jane@elsewhere.example", TID: 8}
	if err := service.ResolveSender(context.Background(), &event); !errors.Is(err, domainerrors.ErrNoPrivilege) {
		t.Fatalf("expected ErrNoPrivilege, got %v", err)
	}
}

func TestProcessSkipsLookupsForUndecodableAddress(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{
		To:          "someone@forum.example",
		SenderEmail: "alice@forum.example",
		Subject:     "hello",
		HTML:        "<p>hello</p>",
	}
	_, err := service.Process(context.Background(), &event)
	if !errors.Is(err, domainerrors.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
	if got := store.UserLookupCount(); got != 0 {
		t.Fatalf("expected no sender lookups, got %d", got)
	}
	if got := len(store.Bounces()); got != 1 {
		t.Fatalf("expected exactly one bounce, got %d", got)
	}
}

func TestProcessAppliesRegisteredUserReply(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{
		To:          "reply-42@forum.example",
		SenderEmail: "alice@forum.example",
		Subject:     "Re: welcome",
		Text:        "Thanks, glad to be here.\n\n> earlier message",
	}
	post, err := service.Process(context.Background(), &event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.TID != 7 || post.ToPID != 42 || post.UID != 9 {
		t.Fatalf("unexpected post placement: %+v", post)
	}
	if post.Content != "Thanks, glad to be here." {
		t.Fatalf("expected quoted text stripped, got %q", post.Content)
	}
	if got := len(store.Bounces()); got != 0 {
		t.Fatalf("expected no bounce, got %d", got)
	}
}

func TestProcessAppliesGuestReplyWithHandle(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{
		To:          "reply-42@forum.example",
		SenderEmail: "jane@elsewhere.example",
		SenderName:  "Jane",
		Text:        "Guest reply body",
	}
	post, err := service.Process(context.Background(), &event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.UID != 0 || post.Handle != "Jane" {
		t.Fatalf("expected guest post with handle Jane, got %+v", post)
	}
}

func TestProcessBouncesWhenGuestsDisallowed(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{
		To:          "reply-77@forum.example",
		SenderEmail: "jane@elsewhere.example",
		Subject:     "my reply",
		HTML:        "<p>my reply</p>",
	}
	_, err := service.Process(context.Background(), &event)
	if !errors.Is(err, domainerrors.ErrNoPrivilege) {
		t.Fatalf("expected ErrNoPrivilege, got %v", err)
	}

	bounces := store.Bounces()
	if len(bounces) != 1 {
		t.Fatalf("expected exactly one bounce, got %d", len(bounces))
	}
	if bounces[0].To != "jane@elsewhere.example" {
		t.Fatalf("bounce sent to wrong recipient: %q", bounces[0].To)
	}
	if bounces[0].Subject != "Re: my reply" {
		t.Fatalf("unexpected bounce subject: %q", bounces[0].Subject)
	}
	if bounces[0].MessageBody != "<p>my reply</p>" {
		t.Fatalf("bounce must carry the original html body, got %q", bounces[0].MessageBody)
	}
}

func TestProcessDropsLookupFailuresWithoutBounce(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	service.Users = failingUserDirectory{}

	event := ports.InboundEvent{
		To:          "reply-42@forum.example",
		SenderEmail: "alice@forum.example",
	}
	_, err := service.Process(context.Background(), &event)
	if err == nil || !errors.Is(err, errLookupDown) {
		t.Fatalf("expected lookup error propagated verbatim, got %v", err)
	}
	if got := len(store.Bounces()); got != 0 {
		t.Fatalf("expected zero bounces for lookup failure, got %d", got)
	}
}

func TestProcessPropagatesCreationErrors(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	creationErr := errors.New("content store unavailable")
	store.SetReplyError(creationErr)

	event := ports.InboundEvent{
		To:          "reply-42@forum.example",
		SenderEmail: "alice@forum.example",
	}
	_, err := service.Process(context.Background(), &event)
	if !errors.Is(err, creationErr) {
		t.Fatalf("expected creation error propagated unchanged, got %v", err)
	}
	if got := len(store.Bounces()); got != 0 {
		t.Fatalf("creation failures must not bounce, got %d", got)
	}
}

func TestApplyReplyPublishesNotification(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	event := ports.InboundEvent{
		To:          "reply-42@forum.example",
		SenderEmail: "alice@forum.example",
		Text:        "body",
	}
	post, err := service.Process(context.Background(), &event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Publication is fire-and-forget; wait for the background task.
	deadline := time.Now().Add(2 * time.Second)
	for {
		published := store.Published()
		if len(published) == 1 {
			if published[0].EventType != "post.replied" {
				t.Fatalf("unexpected event type %q", published[0].EventType)
			}
			if published[0].EventID == "" {
				t.Fatal("expected event id to be assigned")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("post.replied was not published for post %d", post.PID)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

var errLookupDown = errors.New("user directory unavailable")

type failingUserDirectory struct{}

func (failingUserDirectory) GetUIDByEmail(context.Context, string) (int64, bool, error) {
	return 0, false, errLookupDown
}
