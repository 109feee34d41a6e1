package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dropfour/connect4/internal/config"
	"github.com/dropfour/connect4/internal/repository/redis"
	"github.com/dropfour/connect4/internal/service/cleanup"
	"github.com/dropfour/connect4/internal/service/game"
	transportHttp "github.com/dropfour/connect4/internal/transport/http"
	"github.com/dropfour/connect4/internal/transport/websocket"
)

// connect4 serve
func Serve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host games over HTTP and WebSocket",
		Long: heredoc.Doc(`serve hosts any number of independent games in memory.

			Games are created with POST /api/games and played with
			POST /api/games/{id}/moves. A renderer follows a game on
			/ws/{id}, receiving a snapshot and then every engine event.

			When REDIS_URL is set, engine events are also published on
			the channel connect4:games:{id}:events.`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(gin.ReleaseMode)

	// Initialize Services (Business Logic Layer)
	hub := websocket.NewHub()
	sessionManager := game.NewSessionManager(hub)

	// Redis is optional, games keep working without it
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logrus.WithError(err).Warn("[REDIS] Could not connect, events will not be published")
		} else {
			defer client.Close()
			publisher := redis.NewPublisher(client, 1024)
			sessionManager.AddSink(publisher)
			go publisher.Run(ctx)
		}
	}

	gameService := game.NewService(sessionManager)

	// Initialize Background Workers
	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval, cfg.SessionIdleTTL, cfg.FinishedTTL)
	go cleanupWorker.Start(ctx)

	wsHandler := websocket.NewHandler(hub, gameService, cfg.AllowedOrigins)
	router := transportHttp.NewRouter(gameService, wsHandler.HandleWebSocket, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}

	logrus.Info("Server exited gracefully")
	return nil
}
