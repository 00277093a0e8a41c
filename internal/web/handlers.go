// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf2jpg/pkg/types"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	pdfMIME       = "application/pdf"
	zipName       = "converted_images.zip"

	pdfHeaderWindow = 1024

	// maxMemory is the part of a multipart form held in memory; the rest
	// spills to temporary files.
	maxMemory = 32 << 20
)

type fileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Output   string `json:"output,omitempty"`
	Error    string `json:"error,omitempty"`
}

type uploadResponse struct {
	Success        bool         `json:"success"`
	Results        []fileResult `json:"results"`
	ConvertedCount int          `json:"converted_count"`
	TotalCount     int          `json:"total_count"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "OK")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, s.logger)

	unlock, err := s.scratch.Lock(r.Context())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer unlock()

	s.scratch.Clear()

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeMultipartError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		// Empty file inputs arrive as plain values with no filename.
		if _, ok := r.MultipartForm.Value["files"]; ok {
			writeJSONError(w, "No files selected", http.StatusBadRequest)
			return
		}
		writeJSONError(w, "No files uploaded", http.StatusBadRequest)
		return
	}
	if allUnnamed(files) {
		writeJSONError(w, "No files selected", http.StatusBadRequest)
		return
	}

	params, err := parseParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		saved   []string
		results []fileResult
	)
	for _, fh := range files {
		if !allowedFile(fh.Filename) {
			continue
		}
		name := secureFilename(fh.Filename)
		if name == "" {
			continue
		}
		path, kind, err := s.saveUpload(fh, name)
		if err != nil {
			log.Warn("saving upload failed", zap.String("filename", name), zap.Error(err))
			results = append(results, fileResult{Filename: name, Status: statusError, Error: err.Error()})
			continue
		}
		if kind != pdfMIME {
			results = append(results, fileResult{Filename: name, Status: statusError, Error: "unsupported file type: " + kind})
			continue
		}
		saved = append(saved, path)
	}

	total := len(saved) + len(results)
	if total == 0 {
		writeJSONError(w, "No valid PDF files uploaded", http.StatusBadRequest)
		return
	}

	converted := 0
	for _, path := range saved {
		o := s.conv.Convert(r.Context(), types.NewRequest(path, s.scratch.OutputDir, params))
		res := fileResult{Filename: filepath.Base(o.SourcePath)}
		if o.Success {
			converted++
			res.Status = statusSuccess
			res.Output = filepath.Base(o.OutputPath)
		} else {
			res.Status = statusError
			res.Error = o.Error
		}
		results = append(results, res)
	}

	log.Info("upload converted",
		zap.Int("converted", converted),
		zap.Int("total", total),
		zap.Int("dpi", params.DPI),
		zap.Int("quality", params.Quality),
		zap.Float64("scale_factor", params.ScaleFactor))

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:        true,
		Results:        results,
		ConvertedCount: converted,
		TotalCount:     total,
	})
}

// saveUpload writes fh to the upload directory and returns the sniffed
// content type of what was written.
func (s *Server) saveUpload(fh *multipart.FileHeader, name string) (string, string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("opening upload %s: %w", name, err)
	}
	defer f.Close()

	kind, err := sniffType(f)
	if err != nil {
		return "", "", fmt.Errorf("detecting type of %s: %w", name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewinding %s: %w", name, err)
	}

	path, err := s.scratch.SaveUpload(name, f)
	if err != nil {
		return "", "", err
	}
	return path, kind, nil
}

// sniffType returns the content type of r. mimetype only matches %PDF- at
// offset 0, while PDF readers accept the header anywhere in the first
// pdfHeaderWindow bytes, so that window is searched as well.
func sniffType(r io.ReadSeeker) (string, error) {
	kind, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	if kind.Is(pdfMIME) {
		return pdfMIME, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	head := make([]byte, pdfHeaderWindow)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if bytes.Contains(head[:n], []byte("%PDF-")) {
		return pdfMIME, nil
	}
	return kind.String(), nil
}

func allUnnamed(files []*multipart.FileHeader) bool {
	for _, fh := range files {
		if fh.Filename != "" {
			return false
		}
	}
	return true
}

// parseParams reads dpi, quality and scale_factor, defaulting absent fields.
// The first out-of-range parameter is reported, in that order.
func parseParams(r *http.Request) (types.ConversionParams, error) {
	p := types.DefaultParams()

	if v := r.FormValue("dpi"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid dpi value %q", v)
		}
		p.DPI = n
	}
	if v := r.FormValue("quality"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid quality value %q", v)
		}
		p.Quality = n
	}
	if v := r.FormValue("scale_factor"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("invalid scale_factor value %q", v)
		}
		p.ScaleFactor = f
	}

	if err := p.Validate(); err != nil {
		var perr *types.ParamsError
		if errors.As(err, &perr) && len(perr.Reasons) > 0 {
			return p, errors.New(perr.Reasons[0])
		}
		return p, err
	}
	return p, nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := secureFilename(chi.URLParam(r, "filename"))
	path, ok := s.scratch.Output(name)
	if !ok {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeFile(w, r, path)
}

func (s *Server) handleDownloadAll(w http.ResponseWriter, r *http.Request) {
	unlock, err := s.scratch.Lock(r.Context())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer unlock()

	names, err := s.scratch.JPEGs()
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(names) == 0 {
		writeJSONError(w, "No converted files available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": zipName}))
	if err := s.scratch.WriteZip(w, names); err != nil {
		requestLogger(r, s.logger).Error("writing zip failed", zap.Error(err))
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	unlock, err := s.scratch.Lock(r.Context())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer unlock()

	s.scratch.Clear()
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "All files cleared"})
}
