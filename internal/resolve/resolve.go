// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve expands command-line inputs (PDF files, directory trees
// and glob patterns) into the sorted, duplicate-free list of PDF paths that
// a batch converts.
package resolve

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind classifies a single input string.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDir
	KindGlob
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindGlob:
		return "glob"
	default:
		return "unknown"
	}
}

// globMeta holds the characters that turn an input into a glob pattern.
const globMeta = "*?["

// Result is the outcome of resolving a set of inputs.
type Result struct {
	// Paths is sorted lexicographically and contains no duplicates.
	Paths []string

	// Unresolved lists inputs that matched nothing: missing paths without
	// glob characters, existing non-PDF files, and malformed patterns.
	Unresolved []string
}

// IsPDF reports whether path carries a .pdf extension in any letter case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Classify determines how an input is expanded. An existing PDF file wins
// over a directory, which wins over a glob pattern.
func Classify(input string) Kind {
	info, err := os.Stat(input)
	if err == nil {
		if info.Mode().IsRegular() && IsPDF(input) {
			return KindFile
		}
		if info.IsDir() {
			return KindDir
		}
	}
	if strings.ContainsAny(input, globMeta) {
		return KindGlob
	}
	return KindUnknown
}

// Resolve expands inputs into PDF paths. It never fails: inputs that yield
// nothing are reported in Result.Unresolved and otherwise ignored.
func Resolve(inputs []string) Result {
	seen := make(map[string]struct{})
	var res Result

	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		res.Paths = append(res.Paths, p)
	}

	for _, input := range inputs {
		switch Classify(input) {
		case KindFile:
			add(input)
		case KindDir:
			for _, p := range walkPDFs(input) {
				add(p)
			}
		case KindGlob:
			matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
			if err != nil || len(matches) == 0 {
				res.Unresolved = append(res.Unresolved, input)
				continue
			}
			for _, m := range matches {
				add(m)
			}
		default:
			res.Unresolved = append(res.Unresolved, input)
		}
	}

	sort.Strings(res.Paths)
	return res
}

// walkPDFs returns every PDF beneath root. Unreadable subtrees are skipped.
func walkPDFs(root string) []string {
	var out []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsPDF(path) {
			out = append(out, path)
		}
		return nil
	})
	return out
}
