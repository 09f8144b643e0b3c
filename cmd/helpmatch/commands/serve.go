package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/helpmatch/helpmatch/adapter/api"
	"github.com/helpmatch/helpmatch/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HelpMatch API server",
	Long: `Starts the HTTP API server together with the outbox processor
that publishes domain events to the message broker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		}()

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				return err
			}
		} else {
			logger.Info("outbox processor disabled")
		}

		serverCfg := api.DefaultServerConfig()
		serverCfg.Addr = cfg.HTTPAddr

		server := api.NewServer(
			serverCfg,
			api.NewUserHandler(container.UserService, logger),
			api.NewTaskHandler(api.TaskHandlerConfig{
				CreateTask:    container.CreateTaskHandler,
				StartTask:     container.StartTaskHandler,
				CompleteTask:  container.CompleteTaskHandler,
				CancelTask:    container.CancelTaskHandler,
				UnassignTask:  container.UnassignTaskHandler,
				GetTask:       container.GetTaskHandler,
				ListMyTasks:   container.ListMyTasksHandler,
				RelevantTasks: container.RelevantTasksHandler,
				Logger:        logger,
			}),
			api.NewInviteHandler(
				container.SendInviteHandler,
				container.RespondInviteHandler,
				container.ListIncomingInvitesHandler,
				logger,
			),
			logger,
		)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
