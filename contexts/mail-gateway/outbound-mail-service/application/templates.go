package application

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	domainerrors "mailgate/contexts/mail-gateway/outbound-mail-service/domain/errors"
	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

const defaultTemplateLang = "en-US"

type RenderedTemplate struct {
	Subject string
	HTML    string
	Text    string
}

type templateSource struct {
	subject string
	html    string
	text    string
}

var templateSources = map[string]map[string]templateSource{
	"en-US": {
		"bounce": {
			subject: "{{.Subject}}",
			html: "<p>Your email to {{.SiteTitle}} could not be posted. " +
				"The original message is included below.</p><hr />{{.MessageBody}}",
			text: "Your email to {{.SiteTitle}} could not be posted. " +
				"The original message is included below.\n\n{{.MessageBody}}",
		},
		"reply_notification": {
			subject: "[{{.SiteTitle}}] {{.Subject}}",
			html: "<p>There is a new reply in a thread you follow on " +
				"{{.SiteTitle}}.</p>{{.MessageBody}}<p>Reply to this email to respond in the thread.</p>",
			text: "There is a new reply in a thread you follow on {{.SiteTitle}}.\n\n" +
				"{{.MessageBody}}\n\nReply to this email to respond in the thread.",
		},
	},
	"zh-CN": {
		"bounce": {
			subject: "{{.Subject}}",
			html:    "<p>您发送至 {{.SiteTitle}} 的邮件未能发布。原始邮件如下。</p><hr />{{.MessageBody}}",
			text:    "您发送至 {{.SiteTitle}} 的邮件未能发布。原始邮件如下。\n\n{{.MessageBody}}",
		},
		"reply_notification": {
			subject: "[{{.SiteTitle}}] {{.Subject}}",
			html:    "<p>您关注的主题有新回复。</p>{{.MessageBody}}<p>直接回复此邮件即可在主题中回帖。</p>",
			text:    "您关注的主题有新回复。\n\n{{.MessageBody}}\n\n直接回复此邮件即可在主题中回帖。",
		},
	},
}

type renderContext struct {
	SiteTitle   string
	Subject     string
	MessageBody htmltemplate.HTML
}

type textRenderContext struct {
	SiteTitle   string
	Subject     string
	MessageBody string
}

// RenderTemplate renders one of the built-in mail templates, falling back to
// the default language when the requested one has no variant.
func RenderTemplate(name string, lang string, params ports.TemplateParams) (RenderedTemplate, error) {
	byName, ok := templateSources[strings.TrimSpace(lang)]
	if !ok {
		byName = templateSources[defaultTemplateLang]
	}
	source, ok := byName[name]
	if !ok {
		return RenderedTemplate{}, fmt.Errorf("%w: %s", domainerrors.ErrUnknownTemplate, name)
	}

	subject, err := renderText(name+".subject", source.subject, params)
	if err != nil {
		return RenderedTemplate{}, err
	}
	text, err := renderText(name+".text", source.text, params)
	if err != nil {
		return RenderedTemplate{}, err
	}

	htmlTmpl, err := htmltemplate.New(name + ".html").Parse(source.html)
	if err != nil {
		return RenderedTemplate{}, fmt.Errorf("parse template %s: %w", name, err)
	}
	var html strings.Builder
	if err := htmlTmpl.Execute(&html, renderContext{
		SiteTitle:   params.SiteTitle,
		Subject:     params.Subject,
		MessageBody: htmltemplate.HTML(params.MessageBody),
	}); err != nil {
		return RenderedTemplate{}, fmt.Errorf("render template %s: %w", name, err)
	}

	return RenderedTemplate{
		Subject: subject,
		HTML:    html.String(),
		Text:    text,
	}, nil
}

func renderText(name string, source string, params ports.TemplateParams) (string, error) {
	tmpl, err := texttemplate.New(name).Parse(source)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, textRenderContext{
		SiteTitle:   params.SiteTitle,
		Subject:     params.Subject,
		MessageBody: params.MessageBody,
	}); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return out.String(), nil
}
