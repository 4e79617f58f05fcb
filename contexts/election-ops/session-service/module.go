package sessionservice

import (
	"log/slog"
	"time"

	httpadapter "electra/contexts/election-ops/session-service/adapters/http"
	"electra/contexts/election-ops/session-service/adapters/memory"
	"electra/contexts/election-ops/session-service/application/commands"
	"electra/contexts/election-ops/session-service/application/queries"
	"electra/contexts/election-ops/session-service/application/workers"
	"electra/contexts/election-ops/session-service/domain/entities"
	"electra/contexts/election-ops/session-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Poller  workers.LifecyclePoller
	Store   *memory.Store
}

type Dependencies struct {
	Sessions    ports.SessionRepository
	Lifecycle   ports.LifecycleRepository
	Announcer   ports.TransitionAnnouncer
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	BatchSize   int
	PassTimeout time.Duration
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	sessionUseCase := commands.SessionUseCase{
		Sessions: deps.Sessions,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	queryUseCase := queries.SessionQueryUseCase{
		Sessions: deps.Sessions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Sessions: sessionUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Poller: workers.LifecyclePoller{
			Sessions:    deps.Lifecycle,
			Announcer:   deps.Announcer,
			Clock:       deps.Clock,
			BatchSize:   deps.BatchSize,
			PassTimeout: deps.PassTimeout,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Session, announcer ports.TransitionAnnouncer, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	if announcer == nil {
		announcer = &memory.CaptureAnnouncer{}
	}
	module := NewModule(Dependencies{
		Sessions:  store,
		Lifecycle: store,
		Announcer: announcer,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
