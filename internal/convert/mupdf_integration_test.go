// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2jpg/internal/render"
	"github.com/pdiddy/pdf2jpg/pkg/types"
)

func TestMuPDF_RealDocuments(t *testing.T) {
	c := New(render.NewMuPDF())
	dir := t.TempDir()
	params := types.ConversionParams{DPI: 72, Quality: 90, ScaleFactor: 0.5}

	t.Run("multi-page document", func(t *testing.T) {
		src := writeFixture(t, dir, "multi.pdf", minimalPDF(3))
		out := c.Convert(context.Background(), types.NewRequest(src, "", params))
		require.True(t, out.Success, out.Error)
		assert.Equal(t, 306, out.Width)
		assert.Equal(t, 396, out.Height)

		img := decodeJPEG(t, out.OutputPath)
		assert.Equal(t, 306, img.Bounds().Dx())
		assert.Equal(t, 396, img.Bounds().Dy())
	})

	t.Run("document without pages", func(t *testing.T) {
		src := writeFixture(t, dir, "nopages.pdf", minimalPDF(0))
		out := c.Convert(context.Background(), types.NewRequest(src, "", params))
		assert.Equal(t, types.Failed(src, "No pages found in PDF"), out)
	})

	broken := []struct {
		name string
		data []byte
	}{
		{"zero-byte.pdf", nil},
		{"renamed.pdf", []byte("this is a text file, not a PDF\n")},
	}
	for _, b := range broken {
		t.Run(b.name, func(t *testing.T) {
			src := writeFixture(t, dir, b.name, b.data)
			out := c.Convert(context.Background(), types.NewRequest(src, "", params))
			assert.False(t, out.Success)
			assert.Contains(t, out.Error, "opening PDF document")
			assert.NoFileExists(t, OutputPath(src, ""))
		})
	}
}

func TestPageCount(t *testing.T) {
	dir := t.TempDir()

	n, err := render.PageCount(writeFixture(t, dir, "three.pdf", minimalPDF(3)))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = render.PageCount(writeFixture(t, dir, "none.pdf", minimalPDF(0)))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = render.PageCount(writeFixture(t, dir, "text.pdf", []byte("plain text")))
	assert.Error(t, err)
}
