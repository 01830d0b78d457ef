package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/piiquante/internal/api"
	"github.com/rohits-web03/piiquante/internal/api/handlers"
	"github.com/rohits-web03/piiquante/internal/api/services"
	"github.com/rohits-web03/piiquante/internal/auth"
	"github.com/rohits-web03/piiquante/internal/config"
	"github.com/rohits-web03/piiquante/internal/rate"
	"github.com/rohits-web03/piiquante/internal/repositories"
	"github.com/rohits-web03/piiquante/internal/repositories/mongostore"
)

// stores bundles the repositories for the configured driver.
type stores struct {
	sauces repositories.SauceRepository
	users  repositories.UserRepository
	close  func(context.Context) error
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := repositories.ConnectDatabase(cfg.DB_URL, log)
		if err != nil {
			return nil, err
		}
		if err := repositories.Migrate(db); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		return &stores{
			sauces: repositories.NewSauceRepository(db),
			users:  repositories.NewUserRepository(db),
			close:  func(context.Context) error { return sqlDB.Close() },
		}, nil

	case "mongo":
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			sauces: mongostore.NewSauceRepository(db),
			users:  mongostore.NewUserRepository(db),
			close:  client.Disconnect,
		}, nil

	default:
		log.Warn("Using in-memory storage, data is lost on restart")
		return &stores{
			sauces: repositories.NewMemorySauceRepository(),
			users:  repositories.NewMemoryUserRepository(),
			close:  func(context.Context) error { return nil },
		}, nil
	}
}

// openBlobStore prefers the bucket and falls back to the upload directory,
// which is then served by the router.
func openBlobStore(cfg config.Config, log *zap.Logger) (repositories.BlobStore, string, error) {
	if cfg.S3.Enabled() {
		store, err := repositories.NewS3BlobStore(cfg.S3)
		if err != nil {
			return nil, "", err
		}
		log.Info("Storing images in bucket", zap.String("bucket", cfg.S3.Bucket))
		return store, "", nil
	}

	store, err := repositories.NewDiskBlobStore(cfg.UploadDir, cfg.PublicBaseURL+"/images")
	if err != nil {
		return nil, "", err
	}
	log.Info("Storing images on disk", zap.String("dir", store.Dir()))
	return store, store.Dir(), nil
}

func serve(parent context.Context, cfg config.Config, log *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	blobs, imagesDir, err := openBlobStore(cfg, log)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	var limiter rate.Limiter
	if cfg.RedisURL != "" {
		rl, err := rate.NewRedisFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rl.Close()
		limiter = rl
		log.Info("Rate limiting through redis")
	} else {
		mem := rate.NewMemory()
		g.Go(func() error {
			mem.RunSweeper(ctx, time.Minute)
			return nil
		})
		limiter = mem
	}

	users := services.NewUserService(
		st.users,
		auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpires),
		auth.NewPasswordHasher(cfg.BcryptCost),
		log,
	)
	sauceSvc := services.NewSauceService(st.sauces, blobs, log, cfg.VoteRetries)

	var google services.IdentityProvider
	if cfg.Google.Enabled() {
		google = services.NewGoogleProvider(cfg.Google)
	}

	handler := api.SetupRouter(api.RouterConfig{
		Auth:           handlers.NewAuthHandler(users, google, log, cfg.IsProduction()),
		Sauces:         handlers.NewSauceHandler(sauceSvc, log),
		Authn:          users,
		Limiter:        limiter,
		Log:            log,
		Cors:           cfg.CorsOptions(),
		LoginPerMinute: cfg.RateLimits.LoginPerMinute,
		VotePerMinute:  cfg.RateLimits.VotePerMinute,
		ImagesDir:      imagesDir,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g.Go(func() error {
		log.Info("Starting Piiquante server", zap.String("port", cfg.Port), zap.String("db", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func migrate(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	switch cfg.DBDriver {
	case "postgres":
		db, err := repositories.ConnectDatabase(cfg.DB_URL, log)
		if err != nil {
			return err
		}
		if err := repositories.Migrate(db); err != nil {
			return err
		}
	case "mongo":
		client, _, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
	default:
		log.Info("Nothing to migrate for the memory driver")
		return nil
	}
	log.Info("Migration complete", zap.String("db", cfg.DBDriver))
	return nil
}
