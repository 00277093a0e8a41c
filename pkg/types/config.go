// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default conversion parameters, matching the values the CLI and the web
// form fall back to when nothing is supplied.
const (
	DefaultDPI         = 200
	DefaultQuality     = 95
	DefaultScaleFactor = 0.6
	DefaultWorkers     = 4
)

// ErrInvalidParams matches every error returned by the Validate methods.
var ErrInvalidParams = errors.New("invalid conversion parameters")

var validate = validator.New()

// ConversionParams holds the numeric knobs of a single page conversion.
type ConversionParams struct {
	// DPI is the rasterization resolution.
	DPI int `json:"dpi" yaml:"dpi" mapstructure:"dpi" validate:"gte=72,lte=600"`

	// Quality is the JPEG quality, 1 (worst) to 100 (best).
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality" validate:"gte=1,lte=100"`

	// ScaleFactor multiplies the rendered width and height before encoding.
	ScaleFactor float64 `json:"scale_factor" yaml:"scale_factor" mapstructure:"scale_factor" validate:"gte=0.1,lte=2"`
}

// DefaultParams returns the parameters used when the caller supplies none.
func DefaultParams() ConversionParams {
	return ConversionParams{
		DPI:         DefaultDPI,
		Quality:     DefaultQuality,
		ScaleFactor: DefaultScaleFactor,
	}
}

// Validate reports every out-of-range parameter as a *ParamsError.
func (p ConversionParams) Validate() error {
	return validateStruct(p)
}

// ConversionConfig holds settings for the convert command.
type ConversionConfig struct {
	ConversionParams `yaml:",inline" mapstructure:",squash"`

	// Workers is the number of concurrent conversions (1-16).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers" validate:"gte=1,lte=16"`

	// InputDir is scanned when the command is run without arguments.
	InputDir string `json:"input_dir,omitempty" yaml:"input_dir,omitempty" mapstructure:"input_dir"`

	// OutputDir receives every JPEG; empty means next to each source PDF.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" mapstructure:"output_dir"`

	// ReportPath, when set, receives a YAML summary of the batch.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`
}

// Validate checks the numeric parameters and the worker bound.
func (c ConversionConfig) Validate() error {
	return validateStruct(c)
}

// RenderBackend identifies the PDF rasterizer implementation.
type RenderBackend string

const (
	BackendPoppler RenderBackend = "poppler"
	BackendMuPDF   RenderBackend = "mupdf"
)

// RenderConfig selects and locates the rasterizer.
type RenderConfig struct {
	// Backend selects the rasterizer: poppler (pdftoppm) or mupdf.
	Backend RenderBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// PopplerPath is the directory holding pdftoppm. Empty means $PATH.
	PopplerPath string `json:"poppler_path,omitempty" yaml:"poppler_path,omitempty" mapstructure:"poppler_path"`
}

// ServerConfig holds settings for the web upload service.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// UploadDir and OutputDir are the scratch directories wiped by /clear.
	UploadDir string `json:"upload_dir" yaml:"upload_dir" mapstructure:"upload_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// MaxUploadMB bounds the multipart request body.
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`

	// UploadsPerMinute is the per-client rate limit on POST /upload.
	UploadsPerMinute int `json:"uploads_per_minute" yaml:"uploads_per_minute" mapstructure:"uploads_per_minute"`

	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// PublishConfig locates the S3-compatible bucket that receives converted
// images. Credentials are not part of the config; see internal/secrets.
type PublishConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	Bucket   string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	Secure   bool   `json:"secure" yaml:"secure" mapstructure:"secure"`
}

// Config groups every section of pdf2jpg.yaml.
type Config struct {
	Convert ConversionConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Render  RenderConfig     `json:"render" yaml:"render" mapstructure:"render"`
	Server  ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Publish PublishConfig    `json:"publish" yaml:"publish" mapstructure:"publish"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Convert: ConversionConfig{
			ConversionParams: DefaultParams(),
			Workers:          DefaultWorkers,
		},
		Render: RenderConfig{
			Backend: BackendPoppler,
		},
		Server: ServerConfig{
			Addr:             ":5000",
			UploadDir:        "uploads",
			OutputDir:        "outputs",
			MaxUploadMB:      100,
			UploadsPerMinute: 30,
			ShutdownTimeout:  10 * time.Second,
		},
		Publish: PublishConfig{
			Secure: true,
		},
	}
}

// rangeMessages maps a struct field to the message shown when it fails
// validation. The wording matches what the web form has always returned.
var rangeMessages = map[string]string{
	"DPI":         "DPI must be between 72 and 600",
	"Quality":     "Quality must be between 1 and 100",
	"ScaleFactor": "Scale factor must be between 0.1 and 2.0",
	"Workers":     "Workers must be between 1 and 16",
}

// ParamsError lists every out-of-range parameter of a failed validation.
// It matches ErrInvalidParams under errors.Is.
type ParamsError struct {
	Reasons []string
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidParams, strings.Join(e.Reasons, "; "))
}

func (e *ParamsError) Is(target error) bool {
	return target == ErrInvalidParams
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ParamsError{Reasons: []string{err.Error()}}
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := rangeMessages[fe.Field()]; ok {
			reasons = append(reasons, msg)
			continue
		}
		reasons = append(reasons, fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return &ParamsError{Reasons: reasons}
}
