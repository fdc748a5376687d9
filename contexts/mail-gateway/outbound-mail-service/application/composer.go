package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "mailgate/contexts/mail-gateway/outbound-mail-service/domain/errors"
	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

const moduleName = "mail-gateway/outbound-mail-service"

// Service composes provider-agnostic send requests from notification
// payloads, selecting recipient-visible sender fields according to the
// sender's privacy preference, and dispatches them through the delivery
// gateway. A nil Gateway means the provider was never configured; sends
// then succeed trivially as "not sent".
type Service struct {
	Gateway        ports.DeliveryGateway
	Users          ports.UserDirectory
	Posts          ports.PostDirectory
	Codec          ports.AddressCodec
	From           string
	InboundEnabled bool
	Logger         *slog.Logger
}

func (s Service) Send(ctx context.Context, payload ports.EmailPayload) error {
	logger := ResolveLogger(s.Logger)

	if s.Gateway == nil {
		logger.Warn("delivery provider not configured, not sending email",
			"event", "outbound_send_skipped",
			"module", moduleName,
			"layer", "application",
			"template", payload.Template,
			"to", payload.To,
		)
		return nil
	}
	if strings.TrimSpace(payload.To) == "" {
		return domainerrors.ErrInvalidPayload
	}

	headers := map[string]string{}
	if s.InboundEnabled && payload.NotificationPID > 0 && s.Codec != nil {
		headers["Reply-To"] = s.Codec.Encode(payload.NotificationPID)
	}

	uid := payload.FromUID
	if uid == 0 && payload.NotificationPID > 0 {
		author, err := s.Posts.GetPostAuthor(ctx, payload.NotificationPID)
		if err != nil {
			return err
		}
		uid = author
	}

	var fields ports.UserFields
	if uid > 0 {
		settings, err := s.Users.GetUserSettings(ctx, uid)
		if err != nil {
			return err
		}
		// The email address is never placed into the request; visibility
		// only widens which fields are fetched.
		wanted := []string{"username"}
		if settings.ShowEmail {
			wanted = []string{"email", "username"}
		}
		fields, err = s.Users.GetUserFields(ctx, uid, wanted)
		if err != nil {
			return err
		}
	}

	fromName := payload.FromName
	if fromName == "" {
		fromName = fields.Username
	}

	from := payload.From
	if from == "" {
		from = s.From
	}

	request := ports.OutboundRequest{
		To:       payload.To,
		ToName:   payload.ToName,
		Subject:  payload.Subject,
		HTML:     payload.HTML,
		Text:     payload.Text,
		From:     from,
		FromName: fromName,
		Headers:  headers,
	}
	if err := s.Gateway.Send(ctx, request); err != nil {
		logger.Warn("unable to send email",
			"event", "outbound_send_failed",
			"module", moduleName,
			"layer", "application",
			"template", payload.Template,
			"to", payload.To,
			"error", err.Error(),
		)
		return err
	}

	logger.Debug("sent email",
		"event", "outbound_sent",
		"module", moduleName,
		"layer", "application",
		"template", payload.Template,
		"to", payload.To,
	)
	return nil
}

// SendTemplate renders a built-in template into the payload before
// dispatching it. An explicit payload subject wins over the template one.
func (s Service) SendTemplate(
	ctx context.Context,
	name string,
	lang string,
	payload ports.EmailPayload,
	params ports.TemplateParams,
) error {
	rendered, err := RenderTemplate(name, lang, params)
	if err != nil {
		return err
	}
	payload.Template = name
	if payload.Subject == "" {
		payload.Subject = rendered.Subject
	}
	payload.HTML = rendered.HTML
	payload.Text = rendered.Text
	return s.Send(ctx, payload)
}

// SendToEmail dispatches a template to a bare address, the shape used for
// bounce notices.
func (s Service) SendToEmail(ctx context.Context, name string, to string, lang string, params ports.TemplateParams) error {
	return s.SendTemplate(ctx, name, lang, ports.EmailPayload{To: to}, params)
}
