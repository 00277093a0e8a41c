// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf2jpg/internal/convert"
	"github.com/pdiddy/pdf2jpg/internal/render"
	"github.com/pdiddy/pdf2jpg/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web upload interface",
	Long: `Serve starts an HTTP server with a browser form for uploading PDFs. Each
upload replaces the previous one: the upload and output directories are
cleared before the new files are converted. Converted images can be
downloaded one at a time or together as a zip.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":5000", "listen address")
	f.String("upload-dir", "uploads", "scratch directory for uploaded PDFs")
	f.String("output-dir", "outputs", "scratch directory for converted JPEGs")
	f.Int64("max-upload-mb", 100, "maximum request body size in megabytes")

	mustBind("server.addr", f.Lookup("addr"))
	mustBind("server.upload_dir", f.Lookup("upload-dir"))
	mustBind("server.output_dir", f.Lookup("output-dir"))
	mustBind("server.max_upload_mb", f.Lookup("max-upload-mb"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The server is long-running; request logs are wanted at info level.
	verbose, _ := cmd.Flags().GetBool("verbose")
	l, err := newLogger(verbose, zap.InfoLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger = l

	r, err := render.New(cfg.Render)
	if err != nil {
		return err
	}

	srv, err := web.New(cfg.Server, convert.New(r, convert.WithLogger(logger)), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Starting PDF to JPG Converter web interface...")
	fmt.Fprintf(out, "Listening on %s (rasterizer: %s)\n", cfg.Server.Addr, r.Name())
	fmt.Fprintln(out, "Press Ctrl+C to stop the server")

	return srv.ListenAndServe(ctx)
}
