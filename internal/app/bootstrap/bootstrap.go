package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	inboundreplyservice "mailgate/contexts/mail-gateway/inbound-reply-service"
	inboundpostgres "mailgate/contexts/mail-gateway/inbound-reply-service/adapters/postgres"
	inboundports "mailgate/contexts/mail-gateway/inbound-reply-service/ports"
	outboundmailservice "mailgate/contexts/mail-gateway/outbound-mail-service"
	outboundpostgres "mailgate/contexts/mail-gateway/outbound-mail-service/adapters/postgres"
	"mailgate/contexts/mail-gateway/outbound-mail-service/adapters/sendcloud"
	outboundworkers "mailgate/contexts/mail-gateway/outbound-mail-service/application/workers"
	outboundports "mailgate/contexts/mail-gateway/outbound-mail-service/ports"
	"mailgate/internal/platform/config"
	"mailgate/internal/platform/db"
	"mailgate/internal/platform/httpserver"
	"mailgate/internal/platform/messaging"
	"mailgate/internal/shared/replyaddr"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	fanout   outboundworkers.ReplyFanout
	logger   *slog.Logger
}

// bounceMailer routes inbound pipeline rejections through the outbound
// composer so bounce notices carry the same provider plumbing and privacy
// handling as every other email.
type bounceMailer struct {
	mailer outboundmailservice.Module
	lang   string
	title  string
}

func (b bounceMailer) SendBounce(ctx context.Context, bounce inboundports.Bounce) error {
	return b.mailer.Service.SendToEmail(ctx, "bounce", bounce.To, b.lang, outboundports.TemplateParams{
		SiteTitle:   b.title,
		Subject:     bounce.Subject,
		MessageBody: bounce.MessageBody,
	})
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	codec, err := replyaddr.FromBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	inboundRepo := inboundpostgres.NewRepository(pg.DB, logger)
	if err := inboundRepo.AutoMigrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}
	outboundRepo := outboundpostgres.NewRepository(pg.DB)

	bus := messaging.NewBus(logger)

	var gateway outboundports.DeliveryGateway
	if cfg.APIUser != "" && cfg.APIKey != "" {
		gateway = sendcloud.NewClient(cfg.APIUser, cfg.APIKey, cfg.SendName)
	} else {
		logger.Error("SendCloud API credentials are missing, emails will not be sent",
			"event", "bootstrap_gateway_unconfigured",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	outbound := outboundmailservice.NewModule(outboundmailservice.Dependencies{
		Gateway:        gateway,
		Users:          outboundRepo,
		Posts:          outboundRepo,
		Codec:          codec,
		From:           cfg.FromAddress,
		InboundEnabled: cfg.InboundEnabled,
		Logger:         logger,
	})

	inbound := inboundreplyservice.NewModule(inboundreplyservice.Dependencies{
		Codec:      codec,
		Users:      inboundRepo,
		Topics:     inboundRepo,
		Content:    inboundRepo,
		Privileges: inboundRepo,
		Bounce: bounceMailer{
			mailer: outbound,
			lang:   cfg.DefaultLang,
			title:  cfg.SiteTitle,
		},
		Publisher:         bus,
		IDs:               inboundpostgres.UUIDGenerator{},
		Clock:             inboundpostgres.SystemClock{},
		AllowGuestHandles: cfg.AllowGuestHandles,
		Logger:            logger,
	})

	fanout := outboundworkers.ReplyFanout{
		Subscriber:  bus,
		Followers:   outboundRepo,
		Mailer:      outbound.Service,
		DefaultLang: cfg.DefaultLang,
		SiteTitle:   cfg.SiteTitle,
		Logger:      logger,
	}

	server := httpserver.New(inbound, httpserver.AdminConfig{
		AdminToken:        cfg.AdminToken,
		WebhookSecret:     cfg.WebhookSecret,
		SiteTitle:         cfg.SiteTitle,
		InboundEnabled:    cfg.InboundEnabled,
		AllowGuestHandles: cfg.AllowGuestHandles,
		ReplyHostname:     codec.Hostname(),
	}, logger, normalizeAddr(cfg.HTTPPort))

	return &APIApp{
		server:   server,
		postgres: pg,
		fanout:   fanout,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if err := a.fanout.Start(ctx); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
