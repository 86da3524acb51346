package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mesaja/seating/config"
	"github.com/mesaja/seating/hub"
	"github.com/mesaja/seating/notify"
	"github.com/mesaja/seating/router"
	"github.com/mesaja/seating/utils"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP API",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Server.Port = port
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().String("port", "", "Listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	utils.SetLevel(cfg.LogLevel)
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		return err
	}
	if err := autoMigrate(db); err != nil {
		return err
	}

	feed := notify.NewFeed(notify.FeedCapacity)
	feed.Add("System started. Welcome!")

	activity := hub.New()
	sinks := []notify.Sink{activity}
	if cfg.TelegramEnabled() {
		telegram, err := notify.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.GroupChatID, cfg.Notify.Timeout)
		if err != nil {
			return err
		}
		sinks = append(sinks, telegram)
	} else {
		utils.ErrorLogger.Warn("Telegram is not configured, notifications go to the log")
		sinks = append(sinks, notify.LogSink{})
	}

	dispatcher := notify.NewDispatcher(cfg.Notify.Buffer, cfg.Notify.Timeout, sinks...)
	dispatcher.Start()
	defer dispatcher.Stop()

	emitter := notify.NewEmitter(feed, dispatcher)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, db, emitter, activity),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
