package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var submitServerURL string

var submitCmd = &cobra.Command{
	Use:   "submit <submission.json>",
	Short: "Post a submission file to a running intake server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read submission file")
		}

		client := &http.Client{Timeout: 30 * time.Second}
		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
			submitServerURL+"/api/form/submit", bytes.NewReader(data))
		if err != nil {
			return eris.Wrap(err, "build request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return eris.Wrap(err, "post submission")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "read response")
		}

		fmt.Println(string(body))
		if resp.StatusCode != http.StatusOK {
			return eris.New(fmt.Sprintf("server returned %d", resp.StatusCode))
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitServerURL, "server", "http://localhost:8080", "intake server base URL")
	rootCmd.AddCommand(submitCmd)
}
