package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"review_app/internal/auth"
	"review_app/internal/config"
	"review_app/internal/db"
	httpserver "review_app/internal/http"
	"review_app/internal/logger"
	"review_app/internal/ranking"
	"review_app/internal/seed"
)

func main() {
	cfg := config.Load()

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer logg.Sync()

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gdb := db.Connect(cfg.DBDriver, cfg.DSN)
	if err := db.AutoMigrate(gdb); err != nil {
		logg.Fatal("❌ Migration failed", "error", err)
	}
	if cfg.Seed {
		if err := seed.FirstSetup(gdb, cfg.AdminEmail, cfg.AdminPassword, logg); err != nil {
			logg.Fatal("❌ Seed failed", "error", err)
		}
	}

	r := httpserver.NewRouter(httpserver.Deps{
		DB:       gdb,
		Sessions: auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL, cfg.SecureCookie),
		Rankings: ranking.GormStore{DB: gdb},
		Config:   cfg,
		Log:      logg,
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		logg.Fatal("❌ Listen failed", "error", err)
	}
	logg.Info("🚀 Server listening", "port", cfg.AppPort, "base_path", cfg.BasePath, "driver", cfg.DBDriver)
	if err := serve(ctx, server, ln, 10*time.Second, logg); err != nil {
		logg.Fatal("❌ Server error", "error", err)
	}
	logg.Info("Server closed")
}

// serve runs server on ln until ctx is cancelled, then stops accepting and
// waits up to drain for in-flight requests before returning.
func serve(ctx context.Context, server *http.Server, ln net.Listener, drain time.Duration, logg *logger.Logger) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error("Shutdown failed", "error", err)
		}
	}()

	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
