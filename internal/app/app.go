package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-checklist-api/internal/auth"
	"go-checklist-api/internal/config"
	"go-checklist-api/internal/database"
	"go-checklist-api/internal/event"
	"go-checklist-api/internal/handler"
	"go-checklist-api/internal/middleware"
	"go-checklist-api/internal/repository"
	"go-checklist-api/internal/router"
	"go-checklist-api/internal/service"
)

type App struct {
	server          *http.Server
	db              *database.DB
	events          *event.InMemoryBus
	shutdownTimeout time.Duration
}

// Stores groups the persistence backends. DB is nil for the memory driver.
// Events carries checklist change events to the websocket stream; NewHandler
// creates a private bus when it is nil.
type Stores struct {
	Users      service.UserStore
	Checklists service.ChecklistStore
	Items      service.ChecklistItemStore
	DB         *database.DB
	Events     event.Bus
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	stores.Events = bus

	appHandler, err := NewHandler(cfg, stores)
	if err != nil {
		if stores.DB != nil {
			stores.DB.Close()
		}
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appHandler,
		ReadTimeout:       cfg.ServerReadTimeout,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: stores.DB, events: bus, shutdownTimeout: cfg.ShutdownTimeout}, nil
}

// NewHandler builds the full HTTP stack on top of the given stores.
func NewHandler(cfg *config.Config, stores Stores) (http.Handler, error) {
	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTLeeway)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	transport := auth.NewCookieTransport(
		cfg.SessionCookieName,
		cfg.SessionCookieSecure,
		auth.ParseSameSite(cfg.SessionCookieSameSite),
		tokens.TTL(),
	)

	authService := service.NewAuthService(stores.Users, hasher, tokens)
	bus := stores.Events
	if bus == nil {
		bus = event.NewBus()
	}
	publish := service.WithPublisher(bus)
	checklistService := service.NewChecklistService(stores.Checklists, publish)
	itemService := service.NewChecklistItemService(stores.Items, stores.Checklists, publish)

	healthHandler := handler.NewHealthHandler(nil)
	if stores.DB != nil {
		healthHandler = handler.NewHealthHandler(stores.DB)
	}

	return router.New(cfg, middleware.NewAuthMiddleware(authService, transport), router.Handlers{
		Auth:          handler.NewAuthHandler(authService, transport),
		Checklist:     handler.NewChecklistHandler(checklistService),
		ChecklistItem: handler.NewChecklistItemHandler(itemService),
		Docs:          handler.NewDocsHandler(cfg.OpenAPISpec),
		Events:        handler.NewEventsHandler(bus, cfg.CORSOrigins),
		Health:        healthHandler,
	}), nil
}

func openStores(ctx context.Context, cfg *config.Config) (Stores, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn("using in-memory storage; data is lost on restart")
		mem := repository.NewMemoryStore()
		return Stores{Users: mem.Users(), Checklists: mem.Checklists(), Items: mem.ChecklistItems()}, nil
	}

	db, err := Connect(ctx, cfg)
	if err != nil {
		return Stores{}, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return Stores{}, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	slog.Info("database ready")
	return Stores{
		Users:      repository.NewUserRepository(pool),
		Checklists: repository.NewChecklistRepository(pool),
		Items:      repository.NewChecklistItemRepository(pool),
		DB:         db,
	}, nil
}

func Connect(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, database.Options{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	auditCtx, stopAudit := context.WithCancel(ctx)
	defer stopAudit()
	if a.events != nil {
		go event.RunAuditLog(auditCtx, a.events, slog.Default().With("component", "audit"))
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.close()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// close ends open event streams before releasing the pool. Hijacked
// websocket connections are not tracked by Shutdown.
func (a *App) close() {
	if a.events != nil {
		a.events.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
