package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental_market/internal/config"
	"rental_market/internal/handlers"
	"rental_market/internal/logger"
	"rental_market/internal/repository"
	"rental_market/internal/repository/db"
	"rental_market/internal/server"
	"rental_market/internal/service"
	"rental_market/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	configDir        = "configs"
	shutdownTimeout  = 10 * time.Second
	bootstrapTimeout = 5 * time.Second
)

// @title                      Rental Market API
// @version                    1.0
// @description                Listings search and owner posting for the rental market.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.Options{}).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.AuthOptions{
		SigningKey: signingKey(cfg.JWT.Secret, "jwt.secret", log),
		TokenTTL:   cfg.JWT.TTL,
	})

	if err := bootstrapAdmin(services, cfg.Admin.Password, log); err != nil {
		log.Fatalw("failed to seed admin", "err", err)
	}

	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		Session: session.StoreOptions{
			Name:   cfg.Session.Name,
			Secret: signingKey(cfg.Session.Secret, "session.secret", log),
			MaxAge: cfg.Session.MaxAge,
		},
	})

	// start HTTP server
	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// bootstrapAdmin seeds the admin account on first start.
func bootstrapAdmin(services *service.Service, password string, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()

	created, err := services.EnsureAdmin(ctx, password)
	if err != nil {
		return err
	}
	if created {
		log.Infow("admin account created", "username", service.AdminUsername)
		if password == "" {
			log.Warnw("admin uses the default password; set admin.password or RENTAL_ADMIN_PASSWORD",
				"username", service.AdminUsername)
		}
	}
	return nil
}

// signingKey returns secret, or a random per-process key when unset. Sessions and
// tokens issued with a random key do not survive a restart.
func signingKey(secret, key string, log *logger.Logger) string {
	if secret != "" {
		return secret
	}
	log.Warnw("secret not configured; using a random key", "key", key)
	return uuid.NewString()
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("starting server", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
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
