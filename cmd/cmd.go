package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"candle-backend/internal/config"
	"candle-backend/internal/handlers"
	"candle-backend/internal/media"
	"candle-backend/internal/notify"
	"candle-backend/internal/repository"
	"candle-backend/internal/repository/memory"
	"candle-backend/internal/repository/mongodb"
	"candle-backend/internal/repository/postgres"
	"candle-backend/internal/services"
	"candle-backend/internal/textgen"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 15 * time.Second

func Run() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open database")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("Database connection established")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = randomSecret()
		log.Warn().Msg("JWT secret not set, using a random one; tokens will not survive a restart")
	}

	generator, err := textgen.New(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create text generator")
	}
	if _, disabled := generator.(textgen.Disabled); disabled {
		log.Warn().Msg("LLM API key not set, using built-in questions and ideas")
	}

	store, err := newMediaStore(ctx, cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Media.Provider).Msg("Failed to create media store")
	}

	notifier, err := newNotifier(cfg.Push, repos.Users)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push notifier")
	}

	svc := services.New(services.Deps{
		Repos:     repos,
		Generator: generator,
		Media:     store,
		Notifier:  notifier,
		JWTSecret: cfg.JWT.Secret,
		JWTExpiry: cfg.JWT.Expiry,
	})

	router := handlers.NewRouter(svc, handlers.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown
	svc.Hub.CloseAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := repos.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}

	log.Info().Msg("Server exited")
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repository.Repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DSN())
	case config.DriverMongo:
		return mongodb.Open(ctx, cfg.MongoURL, cfg.DBName)
	default:
		log.Warn().Msg("Using the in-memory store; data is lost on restart")
		return memory.New(), nil
	}
}

// newMediaStore returns nil when no image host is configured
func newMediaStore(ctx context.Context, cfg config.MediaConfig) (media.Store, error) {
	switch cfg.Provider {
	case config.MediaS3:
		s3, err := media.NewS3(ctx, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Endpoint:  cfg.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	case config.MediaCloudinary:
		c, err := media.NewCloudinary(cfg.CloudinaryURL, cfg.Folder)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		log.Warn().Msg("Media provider not configured, uploads are disabled")
		return nil, nil
	}
}

// newNotifier returns nil when neither APNs nor Web Push is configured
func newNotifier(cfg config.PushConfig, users repository.UserStore) (notify.Notifier, error) {
	var apns *notify.APNs
	if cfg.APNsKeyPath != "" {
		var err error
		apns, err = notify.NewAPNs(notify.APNsConfig{
			KeyPath:    cfg.APNsKeyPath,
			KeyID:      cfg.APNsKeyID,
			TeamID:     cfg.APNsTeamID,
			Topic:      cfg.APNsTopic,
			Production: cfg.APNsProduction,
		})
		if err != nil {
			return nil, err
		}
	}

	var webPush *notify.WebPush
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		webPush = notify.NewWebPush(notify.WebPushConfig{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
			Subscriber: cfg.VAPIDSubscriber,
		})
	}

	d := notify.NewDispatcher(apns, webPush, users)
	if !d.Enabled() {
		log.Info().Msg("Push notifications disabled")
		return nil, nil
	}
	return d, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// setupLogger configures zerolog logger
func setupLogger(level, format string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
