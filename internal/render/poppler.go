// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const binPdftoppm = "pdftoppm"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// Poppler renders pages by running pdftoppm and decoding the PNG it writes
// to stdout.
type Poppler struct {
	bin  string
	exec executor
}

// NewPoppler locates pdftoppm in dir, or on $PATH when dir is empty, and
// returns a rasterizer that runs it.
func NewPoppler(dir string) (*Poppler, error) {
	return newPoppler(dir, defaultExec)
}

func newPoppler(dir string, exec executor) (*Poppler, error) {
	bin := binPdftoppm
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	if dir != "" {
		bin = filepath.Join(dir, bin)
	}

	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", bin, err)
	}
	return &Poppler{bin: resolved, exec: exec}, nil
}

func (p *Poppler) Name() string { return "poppler" }

// Bin returns the resolved pdftoppm path.
func (p *Poppler) Bin() string { return p.bin }

func (p *Poppler) FirstPage(ctx context.Context, pdfPath string, dpi int) (image.Image, error) {
	// A leading dash would be parsed as an option.
	if strings.HasPrefix(pdfPath, "-") {
		pdfPath = "." + string(filepath.Separator) + pdfPath
	}

	args := []string{
		"-f", "1",
		"-l", "1",
		"-r", strconv.Itoa(dpi),
		"-png",
		"-singlefile",
		pdfPath,
	}

	var stdout, stderr bytes.Buffer
	if err := p.exec.Run(ctx, p.bin, args, &stdout, &stderr); err != nil {
		msg := strings.TrimSpace(stderr.String())
		// pdftoppm reports a document without pages as an empty range.
		if strings.Contains(msg, "Wrong page range") {
			return nil, fmt.Errorf("%w: %s", ErrNoPages, msg)
		}
		if msg != "" {
			return nil, fmt.Errorf("pdftoppm failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("pdftoppm failed: %w", err)
	}

	if stdout.Len() == 0 {
		return nil, ErrNoPages
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decoding pdftoppm output: %w", err)
	}
	return img, nil
}
