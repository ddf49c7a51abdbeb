package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/ratelimit"
	"github.com/sells-group/lead-intake/internal/runner"
	"github.com/sells-group/lead-intake/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the form intake HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		orch, err := buildPipeline()
		if err != nil {
			return err
		}

		// Background pipelines run on their own context so a client
		// disconnect never cancels in-flight processing.
		taskCtx, cancelTasks := context.WithCancel(context.Background())
		defer cancelTasks()
		run := runner.New(taskCtx)

		limiter := ratelimit.New(ratelimit.Policy{
			Window:      cfg.Server.RateWindow(),
			MaxRequests: cfg.Server.RateMaxRequests,
		})

		srv := server.New(limiter, func(sub model.Submission) string {
			return run.Go("process-submission", func(ctx context.Context) error {
				return orch.ProcessSubmission(ctx, sub)
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(context.Background())
		}()

		zap.L().Info("starting intake server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		// Drain in-flight pipelines before exiting.
		waitCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownWaitSecs)*time.Second)
		defer cancel()
		if err := run.Wait(waitCtx); err != nil {
			zap.L().Warn("background tasks did not finish before shutdown deadline", zap.Error(err))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
