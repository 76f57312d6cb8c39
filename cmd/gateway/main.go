// @title        HR Gateway API
// @version      1.0
// @description  Session-gated gateway between the HR dashboard and the HR REST API.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nebsit/hr-gateway/internal/api"
	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/ports"
	"github.com/nebsit/hr-gateway/internal/core/service"
	"github.com/nebsit/hr-gateway/internal/infrastructure/backend"
	mongodb "github.com/nebsit/hr-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/nebsit/hr-gateway/internal/infrastructure/db/redis"
	"github.com/nebsit/hr-gateway/internal/infrastructure/http/handlers"
	"github.com/nebsit/hr-gateway/internal/infrastructure/queue"
	"github.com/nebsit/hr-gateway/internal/infrastructure/storage"
	"github.com/nebsit/hr-gateway/internal/infrastructure/telemetry"
	"github.com/nebsit/hr-gateway/internal/pkg/config"
	"github.com/nebsit/hr-gateway/pkg/logger"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("gateway stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	probes := map[string]handlers.Probe{"redis": handlers.RedisProbe(rdb)}

	// --- MongoDB (optional: activity log and gridfs storage) ---
	var (
		db       *mongo.Database
		activity ports.ActivityRecorder
		files    handlers.FileSource
	)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var dispatcher *queue.Dispatcher

	if cfg.Mongo.URI != "" {
		client, database, err := mongodb.Connect(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			AppName:     cfg.ServiceName,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			stopWorkers()
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		db = database
		probes["mongo"] = handlers.MongoProbe(db)

		repo := mongodb.NewActivityRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("activity indexes not created")
		}
		dispatcher = queue.NewDispatcher(cfg.Activity.Workers, repo, log)
		dispatcher.Start(workerCtx)
		activity = dispatcher
	}

	// --- Attachment storage ---
	store, err := storage.New(storage.Config{
		Driver:  cfg.Storage.Driver,
		Timeout: cfg.Storage.Timeout,
		Cloudinary: storage.CloudinaryConfig{
			CloudName:    cfg.Storage.CloudinaryCloudName,
			UploadPreset: cfg.Storage.CloudinaryPreset,
		},
		Blob:          storage.BlobConfig{BaseURL: cfg.Storage.BlobBaseURL, Token: cfg.Storage.BlobToken},
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, db, log)
	if err != nil {
		stopWorkers()
		return err
	}
	if cfg.Storage.Driver == storage.DriverGridFS {
		gfs, err := storage.NewGridFS(db, cfg.Storage.PublicBaseURL)
		if err != nil {
			stopWorkers()
			return err
		}
		files = gfs
	}

	// --- Remote HR API ---
	client, err := backend.NewClient(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}, log)
	if err != nil {
		stopWorkers()
		return err
	}
	probes["backend"] = client.Ping
	notices := backend.NewNoticeGateway(client)

	// --- Services ---
	guard := redisdb.NewInFlightGuard(rdb, cfg.Session.InFlightTTL, log)
	authService := service.NewAuthService(
		backend.NewAuthGateway(client),
		guard,
		redisdb.NewProfileCache(rdb, cfg.Session.ProfileTTL),
		activity,
		service.AuthConfig{
			AdminLanding:    cfg.Session.AdminLanding,
			UserLanding:     cfg.Session.UserLanding,
			PrivilegedRoles: cfg.Session.AllowedRoles,
		},
		log,
	)
	noticeService := service.NewNoticeService(service.NoticeDeps{
		Notices:   notices,
		Employees: notices,
		Storage:   store,
		Views:     redisdb.NewViewStateStore(rdb, cfg.Notice.ViewStateTTL),
		Guard:     guard,
		Activity:  activity,
	}, cfg.Notice.BodyMinLength, log)

	gate := service.NewSessionGate(service.SessionGateConfig{
		ProtectedPrefix: cfg.Session.ProtectedPrefix,
		LoginPath:       cfg.Session.LoginPath,
		AllowedRoles:    cfg.Session.AllowedRoles,
		VerifySecret:    cfg.Session.VerifySecret,
	})
	if !gate.Verifying() {
		log.Warn().Msg("session gate decodes tokens without verifying signatures")
	}

	router := api.NewRouter(api.Deps{
		Config: cfg,
		Log:    log,
		Gate:   gate,
		Cookies: session.NewCookies(session.CookieConfig{
			TTL:    cfg.Session.CookieTTL,
			Secure: cfg.Session.CookieSecure,
			Domain: cfg.Session.CookieDomain,
		}),
		Auth:    authService,
		Notices: noticeService,
		Files:   files,
		Probes:  probes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Storage.Timeout,
		WriteTimeout:      cfg.Storage.Timeout + cfg.Backend.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("storage", store.Driver()).Msg("gateway starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stopWorkers()
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown: stop accepting requests, then flush the activity log.
	log.Info().Msg("gateway shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTTL)
	defer cancel()
	err = srv.Shutdown(sctx)

	stopWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	if err != nil {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
