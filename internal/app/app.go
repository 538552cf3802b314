package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/data/db"
	apphttp "github.com/yungbote/stride-backend/internal/http"
	"github.com/yungbote/stride-backend/internal/observability"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	observability.Init()
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "stride-backend",
		Environment: cfg.Environment,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	hub := realtime.NewSSEHub(log)

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, clientset, reposet, hub)
	if err != nil {
		clientset.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	server := wireRouter(log, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Clients:      clientset,
		Repos:        reposet,
		Services:     serviceset,
		SSEHub:       hub,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and, when redis is configured, forwards bus messages
// into the local hub. It blocks until a signal arrives or a component
// fails.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + a.Cfg.Port,
		Handler: a.Server.Engine,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("Server listening", "port", a.Cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	if a.Clients.SSEBus != nil {
		g.Go(func() error {
			if err := a.Clients.SSEBus.StartForwarder(gctx, a.SSEHub.Broadcast); err != nil {
				return fmt.Errorf("sse forwarder: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
