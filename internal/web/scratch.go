// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetry = 50 * time.Millisecond

// Scratch owns the upload and output directories shared by every request.
// Mutating operations run under Lock, which serializes both goroutines in
// this process and other processes pointed at the same directories.
type Scratch struct {
	UploadDir string
	OutputDir string

	mu   sync.Mutex
	file *flock.Flock
}

// NewScratch creates both directories and the lock file beside UploadDir.
func NewScratch(uploadDir, outputDir string) (*Scratch, error) {
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating scratch directory %s: %w", dir, err)
		}
	}
	lockPath := filepath.Join(filepath.Dir(filepath.Clean(uploadDir)), ".pdf2jpg.lock")
	return &Scratch{
		UploadDir: uploadDir,
		OutputDir: outputDir,
		file:      flock.New(lockPath),
	}, nil
}

// Lock blocks until the scratch area is held or ctx is done. The returned
// function releases it.
func (s *Scratch) Lock(ctx context.Context) (func(), error) {
	s.mu.Lock()
	locked, err := s.file.TryLockContext(ctx, lockRetry)
	if err != nil || !locked {
		s.mu.Unlock()
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("acquiring scratch lock: %w", err)
	}
	return func() {
		s.file.Unlock()
		s.mu.Unlock()
	}, nil
}

// Clear removes every entry in both directories. Individual failures are
// ignored so one stuck file does not block the rest. Callers hold Lock.
func (s *Scratch) Clear() {
	for _, dir := range []string{s.UploadDir, s.OutputDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			os.RemoveAll(filepath.Join(dir, e.Name()))
		}
	}
}

// SaveUpload copies r to UploadDir/name.
func (s *Scratch) SaveUpload(name string, r io.Reader) (string, error) {
	dest := filepath.Join(s.UploadDir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	return dest, nil
}

// Output returns the path of a converted file, or false if name is not a
// regular file in OutputDir.
func (s *Scratch) Output(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	p := filepath.Join(s.OutputDir, name)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return p, true
}

// JPEGs lists the *.jpg files in OutputDir, sorted.
func (s *Scratch) JPEGs() ([]string, error) {
	entries, err := os.ReadDir(s.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.OutputDir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".jpg") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// WriteZip writes each named file from OutputDir at the archive root.
func (s *Scratch) WriteZip(w io.Writer, names []string) error {
	zw := zip.NewWriter(w)
	for _, name := range names {
		if err := addToZip(zw, filepath.Join(s.OutputDir, name), name); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing zip: %w", err)
	}
	return nil
}

func addToZip(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s to zip: %w", name, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("adding %s to zip: %w", name, err)
	}
	return nil
}
