package outboundmailservice

import (
	"log/slog"

	"mailgate/contexts/mail-gateway/outbound-mail-service/adapters/memory"
	"mailgate/contexts/mail-gateway/outbound-mail-service/application"
	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

type Module struct {
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Gateway        ports.DeliveryGateway
	Users          ports.UserDirectory
	Posts          ports.PostDirectory
	Codec          ports.AddressCodec
	From           string
	InboundEnabled bool
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Gateway:        deps.Gateway,
			Users:          deps.Users,
			Posts:          deps.Posts,
			Codec:          deps.Codec,
			From:           deps.From,
			InboundEnabled: deps.InboundEnabled,
			Logger:         deps.Logger,
		},
	}
}

func NewInMemoryModule(codec ports.AddressCodec, from string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Gateway:        store,
		Users:          store,
		Posts:          store,
		Codec:          codec,
		From:           from,
		InboundEnabled: true,
		Logger:         logger,
	})
	module.Store = store
	return module
}
