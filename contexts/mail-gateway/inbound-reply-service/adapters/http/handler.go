package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"mailgate/contexts/mail-gateway/inbound-reply-service/application"
	domainerrors "mailgate/contexts/mail-gateway/inbound-reply-service/domain/errors"
	"mailgate/contexts/mail-gateway/inbound-reply-service/ports"
	httptransport "mailgate/contexts/mail-gateway/inbound-reply-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// WebhookHandler maps one provider webhook delivery onto the pipeline. A
// payload without any sender address is rejected before the pipeline runs;
// there is nobody to bounce to.
func (h Handler) WebhookHandler(
	ctx context.Context,
	req httptransport.InboundEventRequest,
) (httptransport.InboundEventResponse, error) {
	event, err := mapInboundEvent(req)
	if err != nil {
		return httptransport.InboundEventResponse{}, err
	}

	post, err := h.Service.Process(ctx, &event)
	if err != nil {
		return httptransport.InboundEventResponse{}, err
	}
	return httptransport.InboundEventResponse{
		Status: "applied",
		PID:    post.PID,
		TID:    post.TID,
		UID:    post.UID,
	}, nil
}

func mapInboundEvent(req httptransport.InboundEventRequest) (ports.InboundEvent, error) {
	var envelope httptransport.EnvelopeDTO
	if raw := strings.TrimSpace(req.Envelope); raw != "" {
		// Malformed envelopes fall through to the msg fields.
		_ = json.Unmarshal([]byte(raw), &envelope)
	}

	sender := strings.TrimSpace(envelope.From)
	if sender == "" {
		sender = strings.TrimSpace(req.Msg.FromEmail)
	}
	if sender == "" {
		return ports.InboundEvent{}, domainerrors.ErrInvalidEnvelope
	}

	return ports.InboundEvent{
		To:          strings.TrimSpace(req.To),
		SenderEmail: sender,
		SenderName:  strings.TrimSpace(req.Msg.FromName),
		Subject:     req.Subject,
		Text:        req.Text,
		HTML:        req.HTML,
		MessageID:   strings.TrimSpace(req.MessageID),
	}, nil
}
