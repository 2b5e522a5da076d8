package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/quill/api/internal/config"
	"github.com/forgo/quill/api/internal/database"
	"github.com/forgo/quill/api/internal/handler"
	"github.com/forgo/quill/api/internal/jobs"
	"github.com/forgo/quill/api/internal/middleware"
	"github.com/forgo/quill/api/internal/repository"
	"github.com/forgo/quill/api/internal/service"
	"github.com/forgo/quill/api/internal/storage"
	"github.com/forgo/quill/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.ApplySchema(ctx, db); err != nil {
		slog.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		AccessSecret:  []byte(cfg.JWT.AccessSecret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize image storage
	images, localImages, err := newImageStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize image storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Initialize services
	sessions := service.NewSessionManager(service.SessionManagerConfig{
		JWTService: jwtService,
		TokenRepo:  tokenRepo,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo: userRepo,
		Sessions: sessions,
	})

	blogService := service.NewBlogService(service.BlogServiceConfig{
		BlogRepo: blogRepo,
		Images:   images,
	})

	commentService := service.NewCommentService(service.CommentServiceConfig{
		CommentRepo: commentRepo,
		Blogs:       blogRepo,
	})

	// Initialize handlers
	authHandler := handler.NewAuthHandler(handler.AuthHandlerConfig{
		AuthService: authService,
		Cookies: handler.NewCookies(handler.CookieConfig{
			MaxAge:   cfg.Cookie.MaxAge,
			Secure:   cfg.Cookie.Secure,
			SameSite: cfg.Cookie.SameSite,
			Domain:   cfg.Cookie.Domain,
		}),
	})
	blogHandler := handler.NewBlogHandler(blogService)
	commentHandler := handler.NewCommentHandler(commentService)
	healthHandler := handler.NewHealthHandler(db)

	// Background jobs
	tokenSweeper := jobs.NewTokenSweeper(jobs.TokenSweeperConfig{
		Sessions: sessions,
		Interval: cfg.Jobs.TokenSweepInterval,
	})
	tokenSweeper.Start()
	defer tokenSweeper.Stop()

	// Rate limiter for the credential endpoints
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	metrics := middleware.NewMetrics()

	// Setup routes
	mux := http.NewServeMux()

	authMiddleware := middleware.Auth(authService)
	limited := middleware.RateLimit(rateLimiter)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	// Operational endpoints
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler())
	if localImages != nil {
		mux.Handle("GET /storage/", localImages.Handler())
	}

	// Auth endpoints
	mux.Handle("POST /register", limited(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /login", limited(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /refresh", limited(http.HandlerFunc(authHandler.Refresh)))
	mux.Handle("POST /logout", protected(authHandler.Logout))
	mux.Handle("GET /me", protected(authHandler.Me))

	// Blog endpoints
	mux.Handle("POST /blog", protected(blogHandler.Create))
	mux.Handle("GET /blog/all", protected(blogHandler.List))
	mux.Handle("GET /blog/{id}", protected(blogHandler.Get))
	mux.Handle("PUT /blog", protected(blogHandler.Update))
	mux.Handle("DELETE /blog/{id}", protected(blogHandler.Delete))

	// Comment endpoints
	mux.Handle("POST /comment", protected(commentHandler.Create))
	mux.Handle("GET /comment/{id}", protected(commentHandler.ListByBlog))

	// Apply global middleware. Metrics wraps the mux directly so the
	// matched route pattern is visible to it.
	wrapped := middleware.Chain(
		metrics.Middleware(mux),
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("storage", cfg.Storage.Backend),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// newImageStore builds the configured image backend. The local store is
// also returned so its files can be served; it is nil for S3.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.Store, *storage.LocalStore, error) {
	if cfg.Storage.Backend == "s3" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.Storage.S3.Bucket,
			Region:    cfg.Storage.S3.Region,
			Endpoint:  cfg.Storage.S3.Endpoint,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			PublicURL: cfg.Storage.S3.PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3Store, nil, nil
	}

	local, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Server.BackendServerPath)
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}
