package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-intake/internal/form"
	"github.com/sells-group/lead-intake/internal/orchestrator"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <submissions.json>",
	Short: "Process a JSON array of submissions concurrently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read submissions file")
		}

		var inputs []form.Input
		if err := json.Unmarshal(data, &inputs); err != nil {
			return eris.Wrap(err, "parse submissions file")
		}

		orch, err := buildPipeline()
		if err != nil {
			return err
		}

		return processBatch(ctx, inputs, batchConcurrency, orch)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "max submissions processed at once")
	rootCmd.AddCommand(batchCmd)
}

// processBatch validates and processes submissions concurrently. Invalid
// or failed submissions are counted and logged without aborting the rest
// of the batch.
func processBatch(ctx context.Context, inputs []form.Input, concurrency int, orch *orchestrator.Orchestrator) error {
	if len(inputs) == 0 {
		zap.L().Info("no submissions found")
		return nil
	}

	zap.L().Info("processing batch",
		zap.Int("submissions", len(inputs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, in := range inputs {
		g.Go(func() error {
			log := zap.L().With(zap.String("email", in.Email), zap.String("company", in.Company))

			sub, err := form.Validate(in, time.Now().UTC())
			if err != nil {
				failed.Add(1)
				log.Error("submission invalid", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			if err := orch.ProcessSubmission(gctx, sub); err != nil {
				failed.Add(1)
				log.Error("submission failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
