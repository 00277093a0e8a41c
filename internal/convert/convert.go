// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns the first page of a PDF into a resized JPEG.
//
// Convert never returns an error: every failure (missing file, render
// error, encode or write error, even a panic inside the rasterizer) is
// reported as a failed types.ConversionOutcome so that one bad file cannot
// affect its siblings in a batch.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf2jpg/internal/render"
	"github.com/pdiddy/pdf2jpg/internal/resolve"
	"github.com/pdiddy/pdf2jpg/pkg/types"
)

const (
	// outputExt is appended to the source stem.
	outputExt = ".jpg"

	msgNotPDF  = "Not a PDF file"
	msgNoPages = "No pages found in PDF"
)

// Converter renders, resizes and encodes first pages. It holds no per-call
// state and is safe for concurrent use when its Rasterizer is.
type Converter struct {
	rasterizer render.Rasterizer
	pageCount  func(pdfPath string) (int, error)
	logger     *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for per-file debug entries.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithPageCounter replaces the pdfcpu page count consulted when rendering
// fails. A nil function disables it.
func WithPageCounter(fn func(pdfPath string) (int, error)) Option {
	return func(c *Converter) { c.pageCount = fn }
}

// New returns a Converter that renders with r.
func New(r render.Rasterizer, opts ...Option) *Converter {
	c := &Converter{
		rasterizer: r,
		pageCount:  render.PageCount,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OutputPath returns where a conversion of pdfPath into outputDir writes.
// An empty outputDir means the source's own directory.
func OutputPath(pdfPath, outputDir string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(pdfPath)
	}
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+outputExt)
}

// Convert renders page 1 of req.SourcePath and writes <stem>.jpg. An
// existing file of that name is overwritten.
func (c *Converter) Convert(ctx context.Context, req types.ConversionRequest) (out types.ConversionOutcome) {
	src := req.SourcePath
	defer func() {
		if r := recover(); r != nil {
			out = types.Failed(src, fmt.Sprintf("conversion panicked: %v", r))
		}
		c.log(out)
	}()

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Failed(src, "File not found: "+src)
		}
		return types.Failed(src, err.Error())
	}
	if info.IsDir() || !resolve.IsPDF(src) {
		return types.Failed(src, msgNotPDF)
	}

	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return types.Failed(src, fmt.Sprintf("creating output directory %s: %v", req.OutputDir, err))
		}
	}
	outPath := OutputPath(src, req.OutputDir)

	img, err := c.rasterizer.FirstPage(ctx, src, req.DPI)
	if err != nil {
		if errors.Is(err, render.ErrNoPages) || c.hasNoPages(src) {
			return types.Failed(src, msgNoPages)
		}
		return types.Failed(src, err.Error())
	}

	b := img.Bounds()
	w := int(float64(b.Dx()) * req.ScaleFactor)
	h := int(float64(b.Dy()) * req.ScaleFactor)
	if w <= 0 || h <= 0 {
		return types.Failed(src, fmt.Sprintf("scaled image is empty (%dx%d)", w, h))
	}
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	if err := writeJPEG(outPath, resized, req.Quality); err != nil {
		return types.Failed(src, err.Error())
	}

	out = types.Succeeded(src, outPath)
	out.Width, out.Height = w, h
	return out
}

// hasNoPages reports whether the page counter reads src as a well-formed
// document with zero pages. It only runs after a render failure, so a
// successful conversion parses the file once.
func (c *Converter) hasNoPages(src string) bool {
	if c.pageCount == nil {
		return false
	}
	n, err := c.pageCount(src)
	return err == nil && n == 0
}

func (c *Converter) log(o types.ConversionOutcome) {
	if o.Success {
		c.logger.Debug("page converted",
			zap.String("source", o.SourcePath),
			zap.String("output", o.OutputPath),
			zap.Int("width", o.Width),
			zap.Int("height", o.Height),
			zap.String("backend", c.rasterizer.Name()))
		return
	}
	c.logger.Debug("page conversion failed",
		zap.String("source", o.SourcePath),
		zap.String("error", o.Error))
}
