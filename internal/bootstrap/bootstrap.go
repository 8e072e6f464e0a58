package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"blog-server-go/internal/domain/auth"
	"blog-server-go/internal/domain/comment"
	"blog-server-go/internal/domain/post"
	"blog-server-go/internal/domain/ratelimit"
	"blog-server-go/internal/domain/user"
	platformconfig "blog-server-go/internal/platform/config"
	platformerrors "blog-server-go/internal/platform/errors"
	platformlogging "blog-server-go/internal/platform/logging"
	"blog-server-go/internal/platform/objectstore"
	platformstorage "blog-server-go/internal/platform/storage"
	httptransport "blog-server-go/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	configPath string

	config    *platformconfig.Config
	logger    *platformlogging.Logger
	db        *gorm.DB
	rateStore ratelimit.Store
	uploads   objectstore.Store

	accounts *user.Repository
	posts    *post.Repository
	comments *comment.Repository
	auth     *auth.Service

	router *httptransport.Router
}

// Run drives the whole service lifecycle: configuration, dependency
// wiring, serving, and graceful shutdown on SIGINT/SIGTERM.
func Run(ctx context.Context, configPath string) error {
	state := &appState{configPath: configPath}

	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}
	logger := state.logger
	defer logger.Close()

	defer func() {
		if state.rateStore != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := state.rateStore.Close(closeCtx); err != nil {
				logger.Warn("rate limit store did not close cleanly: %v", err)
			}
		}
	}()

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", state.config.Server.IP, state.config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           state.router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(signalCtx)

	group.Go(func() error {
		logger.InfoWith("http server listening", map[string]any{"addr": addr})
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return platformerrors.Wrap(platformerrors.KindTransport,
				"http:serve", "http server failed", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return platformerrors.Wrap(platformerrors.KindTransport,
				"http:shutdown", "http server did not stop cleanly", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(platformerrors.KindBootstrap,
			"execute init steps", "nil bootstrap state")
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(platformerrors.KindBootstrap, step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep))
			}
		}
		if step.Execute == nil {
			return platformerrors.New(platformerrors.KindBootstrap, step.ID,
				"missing execute function")
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if stderrors.As(err, &typed) {
				return err
			}
			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph lists the initialisation steps in dependency order.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:open-database",
			Title:     "Open database",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   openDatabaseStep,
		},
		{
			ID:        "ratelimit:init-store",
			Title:     "Initialise rate limit store",
			DependsOn: []string{"config:load", "logging:init"},
			Execute:   initRateStoreStep,
		},
		{
			ID:        "objectstore:init",
			Title:     "Initialise upload store",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   initObjectStoreStep,
		},
		{
			ID:        "domain:init-services",
			Title:     "Initialise domain services",
			DependsOn: []string{"storage:open-database"},
			Execute:   initServicesStep,
		},
		{
			ID:        "http:build-router",
			Title:     "Build HTTP router",
			DependsOn: []string{"domain:init-services", "ratelimit:init-store", "objectstore:init"},
			Execute:   buildRouterStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	cfg, err := platformconfig.NewLoader(state.configPath).Load()
	if err != nil {
		return err
	}
	state.config = cfg
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return err
	}
	state.logger = logger
	logger.Info("logging ready [%s]", state.config.Log.Level)
	return nil
}

func openDatabaseStep(_ context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Database)
	if err != nil {
		return err
	}
	if err := platformstorage.Migrate(db); err != nil {
		return err
	}
	state.db = db
	state.logger.Info("database ready [%s]", state.config.Database.DSN)
	return nil
}

func initRateStoreStep(_ context.Context, state *appState) error {
	cfg := state.config.RateLimit
	store, err := ratelimit.New(ratelimit.Config{
		Driver: cfg.Driver,
		Redis: &ratelimit.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
	})
	if err != nil {
		return err
	}
	state.rateStore = store
	return nil
}

func initObjectStoreStep(ctx context.Context, state *appState) error {
	cfg := state.config.Storage
	store, err := objectstore.New(ctx, objectstore.Config{
		Driver: cfg.Driver,
		Local: &objectstore.LocalConfig{
			Dir:     cfg.LocalDir,
			BaseURL: cfg.BaseURL,
		},
		S3: &objectstore.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		},
	})
	if err != nil {
		return err
	}
	state.uploads = store
	return nil
}

func initServicesStep(_ context.Context, state *appState) error {
	cfg := state.config.Auth

	state.accounts = user.NewRepository(state.db)
	state.posts = post.NewRepository(state.db)
	state.comments = comment.NewRepository(state.db)

	var verifier auth.AssertionVerifier
	if cfg.GoogleClientID != "" {
		verifier = auth.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		state.logger.Warn("GOOGLE_CLIENT_ID not set, google login disabled")
	}

	service, err := auth.NewService(auth.Options{
		Accounts: state.accounts,
		Hasher:   auth.NewHasher(cfg.BcryptCost),
		Tokens:   auth.NewIssuer(cfg.TokenSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Google:   verifier,
		Logger:   state.logger,
	})
	if err != nil {
		return err
	}
	state.auth = service
	return nil
}

func buildRouterStep(_ context.Context, state *appState) error {
	cfg := state.config
	logger := state.logger

	router, err := httptransport.Build(httptransport.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	issuer := state.auth.Tokens()
	requireAuth := httptransport.RequireAuth(issuer, cfg.Auth.CookieName, logger)
	optionalAuth := httptransport.OptionalAuth(issuer, cfg.Auth.CookieName)

	generalLimiter := ratelimit.NewLimiter(state.rateStore,
		cfg.RateLimit.General.Limit, cfg.RateLimit.General.Window)
	authLimiter := ratelimit.NewLimiter(state.rateStore,
		cfg.RateLimit.Auth.Limit, cfg.RateLimit.Auth.Window)
	router.API.Use(httptransport.RateLimit(generalLimiter, logger))

	uploader := httptransport.NewUploader(state.uploads)

	httptransport.NewAuthHandler(state.auth, uploader, cfg.Auth, logger).
		RegisterRoutes(router, httptransport.RateLimit(authLimiter, logger))
	httptransport.NewUserHandler(state.accounts, uploader, logger).
		RegisterRoutes(router, requireAuth)
	httptransport.NewPostHandler(state.posts, uploader, logger).
		RegisterRoutes(router, requireAuth, optionalAuth)
	httptransport.NewCommentHandler(state.comments, state.posts, logger).
		RegisterRoutes(router, requireAuth)

	state.router = router
	return nil
}

// ConfigPathFromEnv resolves the config file location, defaulting to
// config.yaml beside the binary.
func ConfigPathFromEnv() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}
