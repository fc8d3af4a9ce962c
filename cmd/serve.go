package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dsvalidate-cli/internal/server"
	"github.com/KaramelBytes/dsvalidate-cli/internal/validation"
)

var (
	serveAddr   string
	serveSkipAI bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validator over HTTP",
	Long: `Serve starts an HTTP API:

  GET  /                   health check
  GET  /supported-formats  accepted file extensions
  POST /validate           multipart form: file, target_column, target_type

Example:
  dsvalidate serve --addr :8000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config server_addr)")
	serveCmd.Flags().BoolVar(&serveSkipAI, "skip-ai", false, "skip the model narrative for every request")
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, err := requireConfig()
	if err != nil {
		return err
	}
	addr := conf.ServerAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	var summarizer validation.Summarizer = validation.SummarizerFunc(func(context.Context, string) (string, error) {
		return skippedNarrative, nil
	})
	if !serveSkipAI {
		if summarizer, err = newNarrator(conf); err != nil {
			return err
		}
	}
	p := validation.New(summarizer, pipelineOptions(conf, false), log)
	srv := server.New(p, server.Options{MaxUploadBytes: int64(conf.MaxUploadMB) << 20}, log)
	return srv.ListenAndServe(cmd.Context(), addr)
}
