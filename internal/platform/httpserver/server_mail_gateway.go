package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	inbounddomainerrors "mailgate/contexts/mail-gateway/inbound-reply-service/domain/errors"
	inboundhttp "mailgate/contexts/mail-gateway/inbound-reply-service/transport/http"
)

func writeInboundError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, inboundhttp.ErrorResponse{Code: code, Message: message})
}

func writeInboundDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inbounddomainerrors.ErrInvalidEnvelope):
		writeInboundError(w, http.StatusBadRequest, "invalid_envelope", err.Error())
	case errors.Is(err, inbounddomainerrors.ErrInvalidData):
		writeInboundError(w, http.StatusBadRequest, "invalid_data", err.Error())
	case errors.Is(err, inbounddomainerrors.ErrNoPrivilege):
		writeInboundError(w, http.StatusForbidden, "no_privilege", err.Error())
	case errors.Is(err, inbounddomainerrors.ErrUnauthorizedWebhook):
		writeInboundError(w, http.StatusUnauthorized, "unauthorized_webhook", err.Error())
	default:
		writeInboundError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func webhookSignature(r *http.Request) string {
	for _, key := range []string{"X-Webhook-Signature", "X-Signature"} {
		if value := strings.TrimSpace(r.Header.Get(key)); value != "" {
			return value
		}
	}
	return ""
}

func validateWebhookSignature(signature string, body []byte, secret string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" || strings.TrimSpace(secret) == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(signature), "sha256=") {
		signature = signature[7:]
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := mac.Sum(nil)
	return hmac.Equal(provided, expected)
}

// handleInboundWebhook ingests one provider delivery. Failures that the
// pipeline already answered with a bounce still return their status code so
// the provider's logs line up with ours.
//
//	@Summary	Ingest an inbound email webhook
//	@Tags		mail-gateway
//	@Accept		json
//	@Produce	json
//	@Param		request	body		http.InboundEventRequest	true	"provider delivery"
//	@Success	200		{object}	http.InboundEventResponse
//	@Failure	400		{object}	http.ErrorResponse
//	@Failure	401		{object}	http.ErrorResponse
//	@Failure	403		{object}	http.ErrorResponse
//	@Router		/api/v3/plugins/mail-gateway/webhook [post]
func (s *Server) handleInboundWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeInboundError(w, http.StatusBadRequest, "invalid_request", "unable to read request body")
		return
	}

	if secret := s.admin.WebhookSecret; secret != "" {
		if !validateWebhookSignature(webhookSignature(r), body, secret) {
			writeInboundDomainError(w, inbounddomainerrors.ErrUnauthorizedWebhook)
			return
		}
	}

	var req inboundhttp.InboundEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeInboundError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.inbound.Handler.WebhookHandler(r.Context(), req)
	if err != nil {
		writeInboundDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireAdminToken(w http.ResponseWriter, r *http.Request) bool {
	if s.admin.AdminToken == "" {
		writeInboundError(w, http.StatusNotFound, "admin_disabled", "admin API is not configured")
		return false
	}
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") ||
		!hmac.Equal([]byte(strings.TrimSpace(parts[1])), []byte(s.admin.AdminToken)) {
		writeInboundError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

type adminSettingsResponse struct {
	SiteTitle         string `json:"site_title"`
	InboundEnabled    bool   `json:"inbound_enabled"`
	AllowGuestHandles bool   `json:"allow_guest_handles"`
	ReplyHostname     string `json:"reply_hostname"`
	WebhookRoute      string `json:"webhook_route"`
}

type adminMenuEntry struct {
	Route string `json:"route"`
	Icon  string `json:"icon"`
	Name  string `json:"name"`
}

//	@Summary	Current gateway settings
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	adminSettingsResponse
//	@Failure	401	{object}	http.ErrorResponse
//	@Router		/api/admin/plugins/mail-gateway [get]
func (s *Server) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdminToken(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, adminSettingsResponse{
		SiteTitle:         s.admin.SiteTitle,
		InboundEnabled:    s.admin.InboundEnabled,
		AllowGuestHandles: s.admin.AllowGuestHandles,
		ReplyHostname:     s.admin.ReplyHostname,
		WebhookRoute:      "/api/v3/plugins/mail-gateway/webhook",
	})
}

func (s *Server) handleAdminMenu(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdminToken(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]adminMenuEntry{
		"plugins": {
			{Route: "/plugins/mail-gateway", Icon: "fa-envelope-o", Name: "Mail Gateway"},
		},
	})
}

func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdminToken(w, r) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<h1>Mail Gateway</h1><p>Settings are served at /api/admin/plugins/mail-gateway.</p>"))
}
