package bootstrap

import (
	"log"

	"collab-search-be/internal/broadcast"
	"collab-search-be/internal/config"
	"collab-search-be/internal/identifier"
	"collab-search-be/internal/pkg/logger"
	"collab-search-be/internal/registry"
	"collab-search-be/internal/repository/memory"
	"collab-search-be/internal/service"
	"collab-search-be/pkg/relay"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Engine surface
	SessionService service.ISessionService
	ContextService service.IContextService

	// Event fan-out (Exposed so binding layers can subscribe directly)
	Broadcaster *broadcast.Broadcaster
	PubSub      *gochannel.GoChannel

	// Cross-instance relay, nil when NATS is not configured
	NatsRelay *relay.NatsRelay

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Owned state
	sessionRegistry := registry.NewSessionRegistry()
	contextRepo := memory.NewContextRepository()
	broadcaster := broadcast.NewBroadcaster(sysLogger)
	idGen := identifier.NewGenerator()

	// 3. Services
	sessionService := service.NewSessionService(
		cfg.Session,
		sessionRegistry,
		contextRepo,
		broadcaster,
		idGen,
		sysLogger,
	)
	contextService := service.NewContextService(
		sessionRegistry,
		contextRepo,
		broadcaster,
		idGen,
		sysLogger,
	)

	// 4. Event Bus
	pubSub := relay.NewPubSub(cfg.Relay.ChannelBuffer)
	broadcaster.SubscribeAll(relay.NewWatermillRelay(pubSub, cfg.Relay.EventTopic))

	// 5. Cross-instance relay (optional)
	var natsRelay *relay.NatsRelay
	if cfg.Relay.NatsURL != "" {
		var err error
		natsRelay, err = relay.NewNatsRelay(cfg.Relay.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect NATS relay: %v", err)
			natsRelay = nil
		}
	}
	if natsRelay != nil {
		broadcaster.SubscribeAll(natsRelay)
	}

	return &Container{
		SessionService: sessionService,
		ContextService: contextService,
		Broadcaster:    broadcaster,
		PubSub:         pubSub,
		NatsRelay:      natsRelay,
		Logger:         sysLogger,
	}
}
