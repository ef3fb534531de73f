package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/mediameta/internal/config"
	"github.com/Vovarama1992/mediameta/internal/delivery"
	ws "github.com/Vovarama1992/mediameta/internal/delivery/ws"
	"github.com/Vovarama1992/mediameta/internal/domain"
	"github.com/Vovarama1992/mediameta/internal/infra"
	"github.com/Vovarama1992/mediameta/internal/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {

	// LOGGER
	zcore, _ := zap.NewProduction()
	defer zcore.Sync()
	zl := logger.NewZapLogger(zcore.Sugar())

	// ENV
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// STORE
	mediaRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		panic("store: " + err.Error())
	}
	defer closeStore()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "store ready",
		Fields:  map[string]any{"driver": cfg.StoreDriver},
	})

	// SERVICES
	mediaService := domain.NewMediaService(mediaRepo, zl)
	hMedia := delivery.NewMediaHandler(mediaService, zl)

	// WS HUB
	hub := ws.NewHub(zl)
	defer hub.Close()

	// ROUTER
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/ws", ws.WSHandler(hub))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		delivery.RegisterRoutes(r, hMedia)
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ws.Broadcast(gctx, hub, mediaService.Events(), zl)
		return nil
	})

	g.Go(func() error {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "server started",
			Fields:  map[string]any{"port": cfg.Port},
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
		return
	}

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server stopped",
	})
}

func openStore(ctx context.Context, cfg *config.Config) (ports.MediaRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return infra.NewPostgresMediaRepo(pool), pool.Close, nil

	case config.DriverMongo:
		client, err := infra.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		repo, err := infra.NewMongoMediaRepo(ctx, coll)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	default:
		return infra.NewMemoryMediaRepo(), func() {}, nil
	}
}
