package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intake/internal/form"
)

var processCmd = &cobra.Command{
	Use:   "process <submission.json>",
	Short: "Run the pipeline synchronously for one submission file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read submission file")
		}

		var in form.Input
		if err := json.Unmarshal(data, &in); err != nil {
			return eris.Wrap(err, "parse submission file")
		}

		sub, err := form.Validate(in, time.Now().UTC())
		if err != nil {
			return err
		}

		orch, err := buildPipeline()
		if err != nil {
			return err
		}

		return orch.ProcessSubmission(ctx, sub)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
