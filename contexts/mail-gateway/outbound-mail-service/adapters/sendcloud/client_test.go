package sendcloud

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

func TestClientSendPostsForm(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/apiv2/mail/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		got = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":true,"statusCode":200,"message":"ok"}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, "api-user", "api-key", "Forum")
	err := client.Send(context.Background(), ports.OutboundRequest{
		To:      "alice@forum.example",
		Subject: "hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
		From:    "noreply@forum.example",
		Headers: map[string]string{"Reply-To": "reply-42@forum.example"},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.Get("apiUser") != "api-user" || got.Get("apiKey") != "api-key" {
		t.Errorf("credentials not forwarded: %v", got)
	}
	if got.Get("to") != "alice@forum.example" {
		t.Errorf("unexpected to %q", got.Get("to"))
	}
	if got.Get("fromName") != "Forum" {
		t.Errorf("expected configured send name fallback, got %q", got.Get("fromName"))
	}
	if got.Get("replyTo") != "reply-42@forum.example" {
		t.Errorf("reply-to header not forwarded, got %q", got.Get("replyTo"))
	}
	if got.Get("plain") != "hi" {
		t.Errorf("plain body not forwarded, got %q", got.Get("plain"))
	}
}

func TestClientSendExplicitFromNameWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("fromName") != "alice" {
			t.Errorf("expected explicit fromName, got %q", r.PostForm.Get("fromName"))
		}
		_, _ = w.Write([]byte(`{"result":true,"statusCode":200,"message":"ok"}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, "api-user", "api-key", "Forum")
	err := client.Send(context.Background(), ports.OutboundRequest{
		To:       "alice@forum.example",
		From:     "noreply@forum.example",
		FromName: "alice",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestClientSendProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":false,"statusCode":40006,"message":"bad key"}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, "api-user", "bad", "Forum")
	err := client.Send(context.Background(), ports.OutboundRequest{
		To:   "alice@forum.example",
		From: "noreply@forum.example",
	})
	if err == nil {
		t.Fatal("expected provider rejection error")
	}
}
