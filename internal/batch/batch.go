// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the page converter over every resolved input with a
// fixed-size worker pool and aggregates the outcomes.
//
// Tasks are dispatched in sorted path order; outcomes are collected in
// completion order by a single consumer, which owns the summary counters.
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf2jpg/internal/resolve"
	"github.com/pdiddy/pdf2jpg/pkg/types"
)

// msgCancelled is the failure recorded for paths never dispatched because
// the batch context was cancelled.
const msgCancelled = "conversion cancelled"

// PageConverter converts a single file. Implementations must report every
// failure through the outcome rather than panicking.
type PageConverter interface {
	Convert(ctx context.Context, req types.ConversionRequest) types.ConversionOutcome
}

// Options configures a batch run.
type Options struct {
	// OutputDir receives every JPEG. Empty means next to each source.
	OutputDir string

	Params types.ConversionParams

	// Workers bounds the number of concurrent conversions. Values below 1
	// are treated as 1.
	Workers int

	// Progress receives human-readable per-file lines. Nil discards them.
	Progress io.Writer

	Logger *zap.Logger
}

func (o Options) progress() io.Writer {
	if o.Progress == nil {
		return io.Discard
	}
	return o.Progress
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
)

const rule = "--------------------------------------------------"

// Run resolves inputs and converts every PDF found. Inputs that resolve to
// nothing are reported as warnings on the progress writer.
func Run(ctx context.Context, conv PageConverter, inputs []string, opts Options) types.BatchSummary {
	res := resolve.Resolve(inputs)
	w := opts.progress()
	for _, u := range res.Unresolved {
		fmt.Fprintf(w, "warning: no PDF files found for %q\n", u)
	}
	if len(res.Unresolved) > 0 {
		opts.logger().Warn("unresolved inputs", zap.Strings("inputs", res.Unresolved))
	}
	return RunPaths(ctx, conv, res.Paths, opts)
}

// RunPaths converts paths with opts.Workers concurrent workers and returns
// once every path has an outcome. Cancelling ctx stops dispatch: conversions
// already running finish, and each path not yet dispatched is recorded as a
// failure, so Total always equals len(Results).
func RunPaths(ctx context.Context, conv PageConverter, paths []string, opts Options) types.BatchSummary {
	w := opts.progress()
	log := opts.logger()

	if len(paths) == 0 {
		fmt.Fprintln(w, "No PDF files found!")
		return types.BatchSummary{}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	fmt.Fprintf(w, "Found %d PDF files to process...\n", len(paths))
	fmt.Fprintf(w, "Using %d workers for parallel processing\n", workers)
	if opts.OutputDir != "" {
		fmt.Fprintf(w, "Output directory: %s\n", opts.OutputDir)
	}
	fmt.Fprintln(w, rule)

	start := time.Now()
	tasks := make(chan string)
	outcomes := make(chan types.ConversionOutcome, workers)

	// In-flight conversions are not interrupted by cancellation; a
	// half-written JPEG is worse than a finished one.
	workCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for p := range tasks {
				log.Debug("converting", zap.Int("worker", workerID), zap.String("source", p))
				outcomes <- conv.Convert(workCtx, types.NewRequest(p, opts.OutputDir, opts.Params))
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(tasks)
		for i, p := range paths {
			if ctx.Err() != nil {
				cancelRest(outcomes, paths[i:])
				return
			}
			select {
			case tasks <- p:
			case <-ctx.Done():
				cancelRest(outcomes, paths[i:])
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	summary := types.BatchSummary{Total: len(paths)}
	for o := range outcomes {
		summary.Record(o)
		printOutcome(w, len(summary.Results), summary.Total, o)
		if !o.Success {
			log.Info("conversion failed", zap.String("source", o.SourcePath), zap.String("error", o.Error))
		}
	}
	summary.Elapsed = time.Since(start)

	printSummary(w, summary)
	log.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed))
	return summary
}

func cancelRest(outcomes chan<- types.ConversionOutcome, paths []string) {
	for _, p := range paths {
		outcomes <- types.Failed(p, msgCancelled)
	}
}

func printOutcome(w io.Writer, i, total int, o types.ConversionOutcome) {
	name := filepath.Base(o.SourcePath)
	if o.Success {
		fmt.Fprintf(w, "%s [%d/%d] %s -> %s\n", okMark("✓"), i, total, name, filepath.Base(o.OutputPath))
		return
	}
	fmt.Fprintf(w, "%s [%d/%d] %s - Error: %s\n", failMark("✗"), i, total, name, o.Error)
}

func printSummary(w io.Writer, s types.BatchSummary) {
	var b strings.Builder
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Processing completed in %.2f seconds\n", s.Elapsed.Seconds())
	fmt.Fprintf(&b, "Total files: %d\n", s.Total)
	fmt.Fprintf(&b, "Successful: %d\n", s.Successful)
	fmt.Fprintf(&b, "Failed: %d\n", s.Failed)
	if s.Successful > 0 {
		fmt.Fprintf(&b, "Average time per file: %.2f seconds\n", s.AveragePerFile().Seconds())
	}
	io.WriteString(w, b.String())
}
