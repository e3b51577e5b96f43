package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nekogravitycat/annotation-client/internal/config"
	"github.com/nekogravitycat/annotation-client/internal/devbackend"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateDevBackend(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Init components
	store := devbackend.NewStore()
	hasher := devbackend.NewBcryptHasher(cfg.DevBackend.BcryptCost)
	sessions := devbackend.NewSessionManager(cfg.DevBackend.SessionSecret, cfg.DevBackend.SessionTTL)

	admin, err := devbackend.SeedAdmin(store, hasher, cfg.DevBackend.AdminUsername, cfg.DevBackend.AdminPassword)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	log.Printf("admin user %q ready (id %d)", admin.Username, admin.ID)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := devbackend.NewRouter(devbackend.Config{
		Store:         store,
		Sessions:      sessions,
		Hasher:        hasher,
		AllowOrigins:  cfg.DevBackend.AllowOrigins,
		SecureCookies: cfg.IsProduction(),
		HistoryDelay:  cfg.DevBackend.HistoryDelay,
		Registry:      reg,
		Logger:        logger,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.DevBackend.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("dev backend running on %s", cfg.DevBackend.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}
