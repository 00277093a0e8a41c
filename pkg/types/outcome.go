// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionRequest describes one first-page conversion. It is passed by
// value and never modified after submission.
type ConversionRequest struct {
	ConversionParams `yaml:",inline"`

	// SourcePath is the PDF to render.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputDir receives <stem>.jpg. Empty means the source's own directory.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// NewRequest builds a request for pdfPath with the given parameters.
func NewRequest(pdfPath, outputDir string, params ConversionParams) ConversionRequest {
	return ConversionRequest{
		ConversionParams: params,
		SourcePath:       pdfPath,
		OutputDir:        outputDir,
	}
}

// ConversionOutcome is the result of one conversion attempt. Success selects
// which of OutputPath and Error is meaningful.
type ConversionOutcome struct {
	Success    bool   `json:"success" yaml:"success"`
	SourcePath string `json:"source_path" yaml:"source_path"`
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`

	// Width and Height are the pixel dimensions of the written JPEG.
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
}

// Succeeded returns a successful outcome for src written to out.
func Succeeded(src, out string) ConversionOutcome {
	return ConversionOutcome{Success: true, SourcePath: src, OutputPath: out}
}

// Failed returns a failed outcome for src carrying reason.
func Failed(src, reason string) ConversionOutcome {
	return ConversionOutcome{SourcePath: src, Error: reason}
}

// ResultOrError returns the output path on success and the error message
// on failure.
func (o ConversionOutcome) ResultOrError() string {
	if o.Success {
		return o.OutputPath
	}
	return o.Error
}

// BatchSummary aggregates the outcomes of one batch run. Results are in
// completion order, not input order.
type BatchSummary struct {
	Total      int                 `json:"total" yaml:"total"`
	Successful int                 `json:"successful" yaml:"successful"`
	Failed     int                 `json:"failed" yaml:"failed"`
	Results    []ConversionOutcome `json:"results" yaml:"results"`
	Elapsed    time.Duration       `json:"elapsed" yaml:"elapsed"`
}

// HasFailures reports whether any conversion failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// AveragePerFile returns the elapsed time divided across all files.
func (s BatchSummary) AveragePerFile() time.Duration {
	if s.Total == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Total)
}

// Record adds an outcome and updates the counters.
func (s *BatchSummary) Record(o ConversionOutcome) {
	s.Results = append(s.Results, o)
	if o.Success {
		s.Successful++
	} else {
		s.Failed++
	}
}
