// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// PageCount returns the number of pages pdfcpu finds in pdfPath. pdfcpu is
// stricter than the rasterizers, so callers treat an error as "unknown"
// rather than as a broken document.
func PageCount(pdfPath string) (int, error) {
	return api.PageCountFile(pdfPath)
}
