package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	inboundreplyservice "mailgate/contexts/mail-gateway/inbound-reply-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "mailgate/internal/platform/httpserver/docs"
)

// AdminConfig carries the values the admin surface exposes and the secrets
// the transport layer enforces. An empty AdminToken disables the admin API;
// an empty WebhookSecret disables signature checks on the inbound webhook.
type AdminConfig struct {
	AdminToken        string
	WebhookSecret     string
	SiteTitle         string
	InboundEnabled    bool
	AllowGuestHandles bool
	ReplyHostname     string
}

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	inbound inboundreplyservice.Module
	admin   AdminConfig
}

func New(
	inbound inboundreplyservice.Module,
	admin AdminConfig,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		inbound: inbound,
		admin:   admin,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/v3/plugins/mail-gateway/webhook", s.handleInboundWebhook)

	s.mux.HandleFunc("GET /admin/plugins/mail-gateway", s.handleAdminPage)
	s.mux.HandleFunc("GET /api/admin/plugins/mail-gateway", s.handleAdminSettings)
	s.mux.HandleFunc("GET /api/admin/menu", s.handleAdminMenu)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
