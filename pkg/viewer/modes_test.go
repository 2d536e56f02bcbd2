package viewer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchlabs/folio/pkg/viewer"
)

func TestScaleValue(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		scale     viewer.ScaleValue
		wantFloat float64
		isNumeric bool
	}{
		"auto is named":     {scale: viewer.ScaleAuto},
		"page-fit is named": {scale: viewer.ScalePageFit},
		"numeric":           {scale: viewer.NumericScale(1.25), wantFloat: 1.25, isNumeric: true},
		"integral numeric":  {scale: viewer.NumericScale(2), wantFloat: 2, isNumeric: true},
		"empty":             {scale: viewer.ScaleValue("")},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, ok := tc.scale.Float()
			assert.Equal(t, tc.isNumeric, ok)
			if tc.isNumeric {
				assert.InDelta(t, tc.wantFloat, f, 1e-9)
			}
		})
	}
}

func TestRotation(t *testing.T) {
	t.Parallel()

	assert.True(t, viewer.Rotation(0).IsValid())
	assert.True(t, viewer.Rotation(270).IsValid())
	assert.False(t, viewer.Rotation(45).IsValid())
	assert.False(t, viewer.Rotation(-90).IsValid())

	assert.Equal(t, viewer.Rotation(90), viewer.Rotation(0).Add(90))
	assert.Equal(t, viewer.Rotation(270), viewer.Rotation(0).Add(-90))
	assert.Equal(t, viewer.Rotation(0), viewer.Rotation(270).Add(90))
}

func TestModesForPageLayout(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		layout     string
		wantScroll viewer.ScrollMode
		wantSpread viewer.SpreadMode
		wantErr    bool
	}{
		"single page":      {layout: "SinglePage", wantScroll: viewer.ScrollPage, wantSpread: viewer.SpreadNone},
		"one column":       {layout: "OneColumn", wantScroll: viewer.ScrollVertical, wantSpread: viewer.SpreadNone},
		"two column left":  {layout: "TwoColumnLeft", wantScroll: viewer.ScrollVertical, wantSpread: viewer.SpreadOdd},
		"two column right": {layout: "TwoColumnRight", wantScroll: viewer.ScrollVertical, wantSpread: viewer.SpreadEven},
		"two page left":    {layout: "TwoPageLeft", wantScroll: viewer.ScrollPage, wantSpread: viewer.SpreadOdd},
		"two page right":   {layout: "TwoPageRight", wantScroll: viewer.ScrollPage, wantSpread: viewer.SpreadEven},
		"empty":            {layout: "", wantScroll: viewer.ScrollUnknown, wantSpread: viewer.SpreadUnknown},
		"garbage":          {layout: "ThreeColumn", wantScroll: viewer.ScrollUnknown, wantSpread: viewer.SpreadUnknown, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			scroll, spread, err := viewer.ModesForPageLayout(tc.layout)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantScroll, scroll)
			assert.Equal(t, tc.wantSpread, spread)
		})
	}
}
