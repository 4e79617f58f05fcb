package notificationservice

import (
	"log/slog"

	"electra/contexts/election-ops/eligibility"
	httpadapter "electra/contexts/election-ops/notification-service/adapters/http"
	"electra/contexts/election-ops/notification-service/adapters/memory"
	"electra/contexts/election-ops/notification-service/application/commands"
	"electra/contexts/election-ops/notification-service/application/queries"
	"electra/contexts/election-ops/notification-service/domain/entities"
	"electra/contexts/election-ops/notification-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Dispatch commands.DispatchUseCase
	Announce commands.AnnounceSessionUseCase
	Store    *memory.Store
}

type Dependencies struct {
	Notifications ports.NotificationRepository
	Receipts      ports.ReceiptRepository
	Directory     ports.VoterDirectory
	Sessions      ports.SessionCatalog
	Whitelist     eligibility.WhitelistChecker
	Pusher        ports.Pusher
	Mailer        ports.Mailer
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	PageSize      int
	EmailBatch    int
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	dispatch := commands.DispatchUseCase{
		Notifications: deps.Notifications,
		Pusher:        deps.Pusher,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	var email *commands.LifecycleEmailUseCase
	if deps.Mailer != nil {
		email = &commands.LifecycleEmailUseCase{
			Directory: deps.Directory,
			Mailer:    deps.Mailer,
			BatchSize: deps.EmailBatch,
			Logger:    deps.Logger,
		}
	}
	announce := commands.AnnounceSessionUseCase{
		Dispatch: dispatch,
		Email:    email,
		Logger:   deps.Logger,
	}
	receipts := commands.ReceiptUseCase{
		Notifications: deps.Notifications,
		Receipts:      deps.Receipts,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
	}
	inbox := queries.InboxUseCase{
		Notifications: deps.Notifications,
		Receipts:      deps.Receipts,
		Directory:     deps.Directory,
		Sessions:      deps.Sessions,
		Evaluator:     eligibility.Evaluator{Whitelist: deps.Whitelist},
		PageSize:      deps.PageSize,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Receipts: receipts,
			Inbox:    inbox,
			Logger:   deps.Logger,
		},
		Dispatch: dispatch,
		Announce: announce,
	}
}

func NewInMemoryModule(seed []entities.Notification, pusher ports.Pusher, mailer ports.Mailer, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	if pusher == nil {
		pusher = &memory.CapturePusher{}
	}
	module := NewModule(Dependencies{
		Notifications: store,
		Receipts:      store,
		Directory:     store,
		Sessions:      store,
		Whitelist:     store,
		Pusher:        pusher,
		Mailer:        mailer,
		Clock:         store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
