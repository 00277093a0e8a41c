// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2jpg/pkg/types"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "batch.yaml")

	var s types.BatchSummary
	s.Total = 2
	s.Record(types.ConversionOutcome{Success: true, SourcePath: "a.pdf", OutputPath: "a.jpg", Width: 60, Height: 30})
	s.Record(types.Failed("b.pdf", "No pages found in PDF"))
	s.Elapsed = 1500 * time.Millisecond

	require.NoError(t, WriteReport(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "total: 2")
	assert.Contains(t, text, "elapsed: 1.5s")
	assert.Contains(t, text, "error: No pages found in PDF")

	r, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, s, r.Summary)
	assert.False(t, r.GeneratedAt.IsZero())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestReadReport_Missing(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
