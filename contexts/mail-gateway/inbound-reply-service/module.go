package inboundreplyservice

import (
	"log/slog"

	httpadapter "mailgate/contexts/mail-gateway/inbound-reply-service/adapters/http"
	"mailgate/contexts/mail-gateway/inbound-reply-service/adapters/memory"
	"mailgate/contexts/mail-gateway/inbound-reply-service/application"
	"mailgate/contexts/mail-gateway/inbound-reply-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Codec             ports.AddressCodec
	Users             ports.UserDirectory
	Topics            ports.TopicStore
	Content           ports.ContentStore
	Privileges        ports.PrivilegeStore
	Bounce            ports.BounceMailer
	Publisher         ports.EventPublisher
	IDs               ports.IDGenerator
	Clock             ports.Clock
	AllowGuestHandles bool
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Codec:             deps.Codec,
		Users:             deps.Users,
		Topics:            deps.Topics,
		Content:           deps.Content,
		Privileges:        deps.Privileges,
		Bounce:            deps.Bounce,
		Publisher:         deps.Publisher,
		IDs:               deps.IDs,
		Clock:             deps.Clock,
		AllowGuestHandles: deps.AllowGuestHandles,
		Logger:            deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(codec ports.AddressCodec, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Codec:             codec,
		Users:             store,
		Topics:            store,
		Content:           store,
		Privileges:        store,
		Bounce:            store,
		Publisher:         store,
		IDs:               store,
		Clock:             store,
		AllowGuestHandles: true,
		Logger:            logger,
	})
	module.Store = store
	return module
}
