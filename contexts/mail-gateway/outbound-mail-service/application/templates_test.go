package application

import (
	"errors"
	"strings"
	"testing"

	domainerrors "mailgate/contexts/mail-gateway/outbound-mail-service/domain/errors"
	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

func TestRenderTemplateKeepsTrustedHTML(t *testing.T) {
	rendered, err := RenderTemplate("bounce", "en-US", ports.TemplateParams{
		SiteTitle:   "Forum",
		Subject:     "Re: hello",
		MessageBody: "<p>quoted &amp; kept</p>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rendered.Subject != "Re: hello" {
		t.Errorf("unexpected subject %q", rendered.Subject)
	}
	if !strings.Contains(rendered.HTML, "<p>quoted &amp; kept</p>") {
		t.Errorf("message body was re-escaped: %q", rendered.HTML)
	}
	if !strings.Contains(rendered.Text, "Forum") {
		t.Errorf("site title missing from text variant: %q", rendered.Text)
	}
}

func TestRenderTemplateLanguageFallback(t *testing.T) {
	rendered, err := RenderTemplate("reply_notification", "fr-FR", ports.TemplateParams{
		SiteTitle: "Forum",
		Subject:   "hello",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered.Subject, "[Forum]") {
		t.Errorf("expected default-language subject, got %q", rendered.Subject)
	}
}

func TestRenderTemplateChineseVariant(t *testing.T) {
	rendered, err := RenderTemplate("reply_notification", "zh-CN", ports.TemplateParams{
		SiteTitle: "Forum",
		Subject:   "hello",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered.HTML, "您关注的主题有新回复") {
		t.Errorf("expected zh-CN body, got %q", rendered.HTML)
	}
}

func TestRenderTemplateUnknownName(t *testing.T) {
	_, err := RenderTemplate("welcome", "en-US", ports.TemplateParams{})
	if !errors.Is(err, domainerrors.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}
