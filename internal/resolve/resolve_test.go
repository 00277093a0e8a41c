// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTree creates files (relative to a fresh temp dir) and returns the dir.
func setupTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o644))
	}
	return dir
}

func TestClassify(t *testing.T) {
	dir := setupTree(t, "a.pdf", "note.txt")

	tests := []struct {
		input string
		want  Kind
	}{
		{filepath.Join(dir, "a.pdf"), KindFile},
		{dir, KindDir},
		{filepath.Join(dir, "*.pdf"), KindGlob},
		{filepath.Join(dir, "?.pdf"), KindGlob},
		{filepath.Join(dir, "note.txt"), KindUnknown},
		{filepath.Join(dir, "missing.pdf"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestResolve_Directory(t *testing.T) {
	dir := setupTree(t, "a.pdf", "b.PDF", "note.txt")

	res := Resolve([]string{dir})

	assert.Equal(t, []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.PDF"),
	}, res.Paths)
	assert.Empty(t, res.Unresolved)
}

func TestResolve_Recursive(t *testing.T) {
	dir := setupTree(t, "top.pdf", "sub/inner.pdf", "sub/deeper/deep.Pdf", "sub/skip.docx")

	res := Resolve([]string{dir})

	assert.Equal(t, []string{
		filepath.Join(dir, "sub", "deeper", "deep.Pdf"),
		filepath.Join(dir, "sub", "inner.pdf"),
		filepath.Join(dir, "top.pdf"),
	}, res.Paths)
}

func TestResolve_OverlappingInputsAppearOnce(t *testing.T) {
	dir := setupTree(t, "a.pdf", "b.pdf")
	file := filepath.Join(dir, "a.pdf")

	res := Resolve([]string{file, dir, filepath.Join(dir, "*.pdf"), file})

	assert.Equal(t, []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
	}, res.Paths)
}

func TestResolve_CleansPaths(t *testing.T) {
	dir := setupTree(t, "a.pdf")

	res := Resolve([]string{
		filepath.Join(dir, "a.pdf"),
		dir + string(filepath.Separator) + "." + string(filepath.Separator) + "a.pdf",
	})

	assert.Equal(t, []string{filepath.Join(dir, "a.pdf")}, res.Paths)
}

func TestResolve_Glob(t *testing.T) {
	dir := setupTree(t, "one.pdf", "two.pdf", "notes.txt", "nested/three.pdf")

	t.Run("single level", func(t *testing.T) {
		res := Resolve([]string{filepath.Join(dir, "*.pdf")})
		assert.Equal(t, []string{
			filepath.Join(dir, "one.pdf"),
			filepath.Join(dir, "two.pdf"),
		}, res.Paths)
	})

	t.Run("double star", func(t *testing.T) {
		res := Resolve([]string{filepath.Join(dir, "**", "*.pdf")})
		assert.Equal(t, []string{
			filepath.Join(dir, "nested", "three.pdf"),
			filepath.Join(dir, "one.pdf"),
			filepath.Join(dir, "two.pdf"),
		}, res.Paths)
	})

	t.Run("matches are not filtered by extension", func(t *testing.T) {
		res := Resolve([]string{filepath.Join(dir, "*.txt")})
		assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, res.Paths)
	})

	t.Run("no matches is unresolved", func(t *testing.T) {
		pattern := filepath.Join(dir, "*.png")
		res := Resolve([]string{pattern})
		assert.Empty(t, res.Paths)
		assert.Equal(t, []string{pattern}, res.Unresolved)
	})
}

func TestResolve_DropsUnresolvable(t *testing.T) {
	dir := setupTree(t, "a.pdf", "readme.md")
	missing := filepath.Join(dir, "missing.pdf")
	nonPDF := filepath.Join(dir, "readme.md")

	res := Resolve([]string{missing, filepath.Join(dir, "a.pdf"), nonPDF})

	assert.Equal(t, []string{filepath.Join(dir, "a.pdf")}, res.Paths)
	assert.Equal(t, []string{missing, nonPDF}, res.Unresolved)
}

func TestResolve_SortedAndUnique(t *testing.T) {
	dir := setupTree(t, "c.pdf", "a.pdf", "b.pdf", "x/a.pdf")

	res := Resolve([]string{
		filepath.Join(dir, "c.pdf"),
		filepath.Join(dir, "x"),
		dir,
		filepath.Join(dir, "a.pdf"),
	})

	assert.True(t, sort.StringsAreSorted(res.Paths))
	seen := map[string]bool{}
	for _, p := range res.Paths {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
	}
	assert.Len(t, res.Paths, 4)
}

func TestResolve_Empty(t *testing.T) {
	res := Resolve(nil)
	assert.Empty(t, res.Paths)
	assert.Empty(t, res.Unresolved)
}
