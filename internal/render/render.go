// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render rasterizes the first page of a PDF into an in-memory
// bitmap. The work is delegated to an external engine: poppler's pdftoppm
// (subprocess) or MuPDF (go-fitz).
package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/pdiddy/pdf2jpg/pkg/types"
)

// ErrNoPages is returned when the document yields no page to render.
var ErrNoPages = errors.New("no pages found")

// Rasterizer renders page 1 of a PDF.
type Rasterizer interface {
	// Name identifies the backend ("poppler" or "mupdf").
	Name() string

	// FirstPage renders the first page of pdfPath at dpi as an RGB image.
	// It returns ErrNoPages when the document has no pages.
	FirstPage(ctx context.Context, pdfPath string, dpi int) (image.Image, error)
}

// New returns the rasterizer selected by cfg.Backend. An empty backend
// selects poppler.
func New(cfg types.RenderConfig) (Rasterizer, error) {
	switch cfg.Backend {
	case "", types.BackendPoppler:
		return NewPoppler(cfg.PopplerPath)
	case types.BackendMuPDF:
		return NewMuPDF(), nil
	default:
		return nil, fmt.Errorf("unknown render backend %q: want %s or %s",
			cfg.Backend, types.BackendPoppler, types.BackendMuPDF)
	}
}
