package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchlabs/folio/pkg/config"
	"github.com/birchlabs/folio/pkg/viewer"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()

	require.NoError(t, c.Validate())
	assert.Equal(t, "Configuration", c.Kind)
	assert.Equal(t, viewer.DefaultScale, c.Viewer.ScaleValue())
	assert.Equal(t, 10*time.Second, c.Viewer.InitTimeoutDuration())
	assert.True(t, *c.Viewer.Watch)

	gc := c.Input.GestureConfig()
	assert.True(t, gc.SupportsPinchToZoom)
	assert.True(t, gc.ZoomOnCtrlWheel)
	assert.False(t, gc.ZoomOnMetaWheel)
	assert.False(t, gc.WaivePinchTolerance)

	scroll, spread := c.Viewer.Modes()
	assert.Equal(t, viewer.ScrollUnknown, scroll)
	assert.Equal(t, viewer.SpreadUnknown, spread)
}

func TestLoadFromBytes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		yaml    string
		check   func(t *testing.T, c *config.Config)
		wantErr error
	}{
		"overrides viewer defaults": {
			yaml: `
apiVersion: folio.birchlabs.io/v1beta1
kind: Configuration
viewer:
  scale: page-width
  scrollMode: horizontal
  spreadMode: odd
  initTimeout: 30s
  watch: false
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()
				assert.Equal(t, viewer.ScalePageWidth, c.Viewer.ScaleValue())
				assert.Equal(t, 30*time.Second, c.Viewer.InitTimeoutDuration())
				assert.False(t, *c.Viewer.Watch)

				scroll, spread := c.Viewer.Modes()
				assert.Equal(t, viewer.ScrollHorizontal, scroll)
				assert.Equal(t, viewer.SpreadOdd, spread)
			},
		},
		"numeric scale": {
			yaml: `
viewer:
  scale: "1.25"
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				f, ok := c.Viewer.ScaleValue().Float()
				require.True(t, ok)
				assert.InDelta(t, 1.25, f, 1e-9)
			},
		},
		"input capabilities": {
			yaml: `
input:
  pinchToZoom: false
  zoomOnMetaWheel: true
  caretBrowsing: true
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				gc := c.Input.GestureConfig()
				assert.False(t, gc.SupportsPinchToZoom)
				assert.True(t, gc.ZoomOnMetaWheel)
				assert.True(t, *c.Input.CaretBrowsing)
			},
		},
		"invalid scale": {
			yaml: `
viewer:
  scale: enormous
`,
			wantErr: config.ErrInvalidScale,
		},
		"scale out of range": {
			yaml: `
viewer:
  scale: "50"
`,
			wantErr: config.ErrInvalidScale,
		},
		"invalid scroll mode": {
			yaml: `
viewer:
  scrollMode: diagonal
`,
			wantErr: config.ErrInvalidScrollMode,
		},
		"invalid spread mode": {
			yaml: `
viewer:
  spreadMode: triple
`,
			wantErr: config.ErrInvalidSpreadMode,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, err := config.LoadFromBytes([]byte(tc.yaml))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	c, err := config.LoadFromFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, viewer.DefaultScale, c.Viewer.ScaleValue())
}

func TestWriteOnlyWhenAbsent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := config.NewConfig()

	require.NoError(t, c.Write(path))

	require.NoError(t, os.WriteFile(path, []byte("viewer:\n  scale: page-fit\n"), 0o600))
	require.NoError(t, c.Write(path))

	loaded, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, viewer.ScalePageFit, loaded.Viewer.ScaleValue())
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s := config.Schema()
	require.NotNil(t, s)

	av, ok := s.Properties.Get("apiVersion")
	require.True(t, ok)
	assert.Contains(t, av.Enum, "folio.birchlabs.io/v1beta1")

	_, ok = s.Properties.Get("viewer")
	assert.True(t, ok)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()
	c.Viewer.Scale = "page-fit"

	b, err := c.MarshalYAML()
	require.NoError(t, err)

	loaded, err := config.LoadFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, viewer.ScalePageFit, loaded.Viewer.ScaleValue())
}
