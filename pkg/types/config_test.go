// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  ConversionParams
		wantMsg string
	}{
		{name: "defaults", params: DefaultParams()},
		{name: "lower bounds", params: ConversionParams{DPI: 72, Quality: 1, ScaleFactor: 0.1}},
		{name: "upper bounds", params: ConversionParams{DPI: 600, Quality: 100, ScaleFactor: 2.0}},
		{
			name:    "dpi too low",
			params:  ConversionParams{DPI: 71, Quality: 95, ScaleFactor: 0.6},
			wantMsg: "DPI must be between 72 and 600",
		},
		{
			name:    "dpi too high",
			params:  ConversionParams{DPI: 601, Quality: 95, ScaleFactor: 0.6},
			wantMsg: "DPI must be between 72 and 600",
		},
		{
			name:    "quality zero",
			params:  ConversionParams{DPI: 200, Quality: 0, ScaleFactor: 0.6},
			wantMsg: "Quality must be between 1 and 100",
		},
		{
			name:    "scale too large",
			params:  ConversionParams{DPI: 200, Quality: 95, ScaleFactor: 2.5},
			wantMsg: "Scale factor must be between 0.1 and 2.0",
		},
		{
			name:    "scale too small",
			params:  ConversionParams{DPI: 200, Quality: 95, ScaleFactor: 0.05},
			wantMsg: "Scale factor must be between 0.1 and 2.0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParams))

			var perr *ParamsError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, []string{tt.wantMsg}, perr.Reasons)
		})
	}
}

func TestConversionConfig_Validate(t *testing.T) {
	cfg := DefaultConfig().Convert
	require.NoError(t, cfg.Validate())

	cfg.Workers = 17
	cfg.DPI = 10
	err := cfg.Validate()
	require.Error(t, err)

	var perr *ParamsError
	require.True(t, errors.As(err, &perr))
	assert.ElementsMatch(t, []string{
		"DPI must be between 72 and 600",
		"Workers must be between 1 and 16",
	}, perr.Reasons)
}

func TestBatchSummary_Record(t *testing.T) {
	var s BatchSummary
	s.Total = 3
	s.Record(Succeeded("a.pdf", "a.jpg"))
	s.Record(Failed("b.pdf", "Not a PDF file"))
	s.Record(Succeeded("c.pdf", "c.jpg"))

	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, s.Results, 3)
	assert.True(t, s.HasFailures())
	assert.Equal(t, "a.jpg", s.Results[0].ResultOrError())
	assert.Equal(t, "Not a PDF file", s.Results[1].ResultOrError())
}
