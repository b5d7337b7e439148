package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketing_site/internal/config"
	"marketing_site/internal/handlers"
	"marketing_site/internal/logger"
	"marketing_site/internal/ratelimit"
	"marketing_site/internal/repository"
	"marketing_site/internal/repository/db"
	"marketing_site/internal/server"
	"marketing_site/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const (
	bootstrapTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

func main() {
	// load configs/config.yml + environment
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get().Fatalw("error loading config", "err", err)
	}

	log := logger.Init(cfg.LogLevel, cfg.LogFormat())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// open databases
	mainDB, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to init database", "err", err)
	}
	defer closeDB(mainDB, "main", log)

	sessionDB, err := openSessionDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init session database", "err", err)
	}
	if sessionDB != nil {
		defer closeDB(sessionDB, "sessions", log)
	}

	// wire dependencies
	repos := repository.NewRepository(mainDB, sessionDB)
	services := service.NewService(repos, service.Options{
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
	})

	bootstrap(services, cfg, log)

	limiter := openRateLimiter(cfg, log)
	if limiter != nil {
		defer func() { _ = limiter.Close() }()
	}

	opts := handlers.Options{
		SecureCookies:  cfg.IsProduction(),
		TrustedProxies: cfg.TrustedProxies,
	}
	if limiter != nil {
		opts.ContactLimiter = limiter
	}
	apiHandler := handlers.NewHandler(services, log, opts)

	// start HTTP server
	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openSessionDB opens SESSION_DB_URL when it names a database other than the
// main one. A nil result means sessions share the main database.
func openSessionDB(cfg *config.Config, log *logger.Logger) (*sqlx.DB, error) {
	url := cfg.Session.DatabaseURL
	if url == "" || url == cfg.DatabaseURL {
		return nil, nil
	}
	log.Infow("using separate session database")
	return db.InitDB(url)
}

// bootstrap seeds the default admin and prunes expired sessions. Failures
// are logged; the server still starts.
func bootstrap(services *service.Service, cfg *config.Config, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()

	created, err := services.EnsureDefaultAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	switch {
	case err != nil:
		log.Errorw("default admin bootstrap failed", "err", err, "username", cfg.Admin.Username)
	case created:
		log.Infow("default admin created", "username", cfg.Admin.Username)
	default:
		log.Infow("default admin already present", "username", cfg.Admin.Username)
	}

	pruned, err := services.PruneExpiredSessions(ctx)
	if err != nil {
		log.Warnw("expired session prune failed", "err", err)
		return
	}
	if pruned > 0 {
		log.Infow("expired sessions pruned", "count", pruned)
	}
}

// openRateLimiter returns nil when REDIS_ADDR is unset; contact submissions
// are then not rate limited.
func openRateLimiter(cfg *config.Config, log *logger.Logger) *ratelimit.FixedWindowLimiter {
	if cfg.Redis.Addr == "" {
		log.Infow("REDIS_ADDR not set; contact rate limiting disabled")
		return nil
	}
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(ratelimit.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		Prefix:   "marketing_site:contact",
		Limit:    cfg.RateLimit.ContactLimit,
		Window:   cfg.RateLimit.ContactWindow,
	})
	if err != nil {
		log.Fatalw("failed to init rate limiter", "err", err)
	}
	return limiter
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

func closeDB(conn *sqlx.DB, name string, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close database", "db", name, "err", err)
	}
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
