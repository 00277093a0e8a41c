// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2jpg/internal/batch"
	"github.com/pdiddy/pdf2jpg/internal/convert"
	"github.com/pdiddy/pdf2jpg/internal/publish"
	"github.com/pdiddy/pdf2jpg/internal/render"
	"github.com/pdiddy/pdf2jpg/internal/secrets"
	"github.com/pdiddy/pdf2jpg/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [inputs...]",
	Short: "Convert the first page of PDF files to JPEG",
	Long: `Convert renders the first page of every PDF found in the inputs and writes
<name>.jpg. Inputs may be PDF files, directories (searched recursively) or
glob patterns such as "scans/**/*.pdf". With no inputs, convert.input_dir
from the config file is used.

Each JPEG is written to --output-dir, or next to its PDF when unset.`,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringP("output-dir", "o", "", "directory for JPEG files (default: next to each PDF)")
	f.Int("dpi", types.DefaultDPI, "rendering resolution (72-600)")
	f.IntP("quality", "q", types.DefaultQuality, "JPEG quality (1-100)")
	f.Float64P("scale", "s", types.DefaultScaleFactor, "scale factor applied after rendering (0.1-2.0)")
	f.IntP("workers", "w", types.DefaultWorkers, "parallel conversions (1-16)")
	f.String("report", "", "write a YAML batch report to this file")
	f.Bool("publish", false, "upload converted images to the configured S3 bucket")

	mustBind("convert.output_dir", f.Lookup("output-dir"))
	mustBind("convert.dpi", f.Lookup("dpi"))
	mustBind("convert.quality", f.Lookup("quality"))
	mustBind("convert.scale_factor", f.Lookup("scale"))
	mustBind("convert.workers", f.Lookup("workers"))
	mustBind("convert.report", f.Lookup("report"))
	mustBind("publish.enabled", f.Lookup("publish"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cc := cfg.Convert
	if err := cc.Validate(); err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		if cc.InputDir == "" {
			return errors.New("provide one or more PDF files, directories, or glob patterns (or set convert.input_dir)")
		}
		inputs = []string{cc.InputDir}
	}

	r, err := render.New(cfg.Render)
	if err != nil {
		return err
	}
	logger.Debug("rasterizer ready")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	summary := batch.Run(ctx, convert.New(r, convert.WithLogger(logger)), inputs, batch.Options{
		OutputDir: cc.OutputDir,
		Params:    cc.ConversionParams,
		Workers:   cc.Workers,
		Progress:  out,
		Logger:    logger,
	})

	if summary.Successful > 0 {
		fmt.Fprintf(out, "Output size: %s\n", humanize.Bytes(outputBytes(summary)))
	}

	if cc.ReportPath != "" {
		if err := batch.WriteReport(cc.ReportPath, summary); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", cc.ReportPath)
	}

	if cfg.Publish.Enabled && summary.Successful > 0 {
		if err := publishSummary(ctx, cfg.Publish, summary, out); err != nil {
			return err
		}
	}

	printClosing(out, summary)
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", summary.Failed)
	}
	return nil
}

// printClosing writes the final success and failure counts.
func printClosing(w io.Writer, s types.BatchSummary) {
	if s.Successful > 0 {
		color.New(color.FgGreen).Fprintf(w, "\n✓ Successfully processed %d files!\n", s.Successful)
	}
	if s.Failed > 0 {
		color.New(color.FgRed).Fprintf(w, "✗ Failed to process %d files!\n", s.Failed)
	}
}

// outputBytes totals the size of every JPEG written by the batch.
func outputBytes(s types.BatchSummary) uint64 {
	var n uint64
	for _, o := range s.Results {
		if !o.Success {
			continue
		}
		if info, err := os.Stat(o.OutputPath); err == nil {
			n += uint64(info.Size())
		}
	}
	return n
}

func publishSummary(ctx context.Context, pc types.PublishConfig, s types.BatchSummary, out io.Writer) error {
	access, secret, err := secrets.S3Credentials(loadedSecrets)
	if err != nil {
		return fmt.Errorf("publishing: %w", err)
	}
	p, err := publish.New(pc, access, secret, logger)
	if err != nil {
		return err
	}
	p.SetProgress(out)

	fmt.Fprintf(out, "Publishing to %s/%s...\n", pc.Endpoint, pc.Bucket)
	res, err := p.Publish(ctx, s)
	if err != nil {
		return fmt.Errorf("publishing: %w", err)
	}
	fmt.Fprintf(out, "Published %d image(s), %s\n", res.Uploaded, humanize.Bytes(uint64(res.Bytes)))
	if res.Failed > 0 {
		color.New(color.FgYellow).Fprintf(out, "warning: %d upload(s) failed\n", res.Failed)
	}
	return nil
}
