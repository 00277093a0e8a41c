// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// MuPDF renders pages in-process through go-fitz. Each call opens its own
// document, so one MuPDF value is safe for concurrent use.
type MuPDF struct{}

// NewMuPDF returns a go-fitz backed rasterizer.
func NewMuPDF() *MuPDF {
	return &MuPDF{}
}

func (m *MuPDF) Name() string { return "mupdf" }

func (m *MuPDF) FirstPage(ctx context.Context, pdfPath string, dpi int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF document: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, ErrNoPages
	}

	img, err := doc.ImageDPI(0, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("rendering page 1: %w", err)
	}
	return img, nil
}
