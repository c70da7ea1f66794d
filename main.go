package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheetchat/internal"
	"sheetchat/internal/config"
	"sheetchat/internal/container"
	"sheetchat/ui"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	logger := internal.DefaultLogger.With("Main")

	if !appConfig.HasAPIKey() {
		logger.Warn("OPENAI_API_KEY is not set; free-form questions will report a failed request")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx, nil); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	server, err := ui.NewServer(appContainer.Manager, appContainer.Reader, ui.Options{
		GinMode:        appConfig.Server.GinMode,
		HasAPIKey:      appConfig.HasAPIKey(),
		Model:          appConfig.AI.Model,
		MaxUploadBytes: appConfig.MaxUploadBytes(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	servers := []*http.Server{{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if appConfig.Ops.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + appConfig.Ops.Port,
			Handler:           ui.NewOpsRouter(appContainer.Manager, appContainer.Usage),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		return appContainer.Manager.Run(gctx, appConfig.Session.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown %s: %v", srv.Addr, err)
			}
		}
		return appContainer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
