package tui_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/event"
	"github.com/birchlabs/folio/pkg/tui"
	"github.com/birchlabs/folio/pkg/viewer"
)

type stubDocument struct {
	sizes [][2]float64
}

func (d *stubDocument) NumPages() int    { return len(d.sizes) }
func (d *stubDocument) FileName() string { return "stub.pdf" }

func (d *stubDocument) GetMetadata(_ context.Context) (document.Info, error) {
	return document.Info{}, nil
}

func (d *stubDocument) GetPageLayout(_ context.Context) (string, error) { return "", nil }

func (d *stubDocument) GetPageMode(_ context.Context) (document.PageMode, error) {
	return document.PageModeNone, nil
}

func (d *stubDocument) GetOpenAction(_ context.Context) (*document.OpenAction, error) {
	return nil, nil
}

func (d *stubDocument) GetDownloadInfo(_ context.Context) (document.DownloadInfo, error) {
	return document.DownloadInfo{}, nil
}

func (d *stubDocument) PageSize(_ context.Context, n int) (float64, float64, error) {
	return d.sizes[n-1][0], d.sizes[n-1][1], nil
}

func (d *stubDocument) Cleanup(_ bool) error { return nil }

func TestScreenSetDocument(t *testing.T) {
	t.Parallel()

	s := tui.NewScreen()

	assert.False(t, s.FirstPage().Settled())

	s.SetDocument(&stubDocument{sizes: [][2]float64{{612, 792}, {612, 792}}})

	assert.True(t, s.FirstPage().Settled())
	assert.True(t, s.OnePageRendered().Settled())
	assert.True(t, s.Pages().Settled())
	assert.True(t, s.HasEqualPageSizes())
	assert.Equal(t, 1, s.CurrentPageNumber())

	// Detach resets the milestones for the next document.
	s.SetDocument(nil)
	assert.False(t, s.FirstPage().Settled())
}

func TestScreenUnequalPageSizes(t *testing.T) {
	t.Parallel()

	s := tui.NewScreen()
	s.SetDocument(&stubDocument{sizes: [][2]float64{{612, 792}, {300, 400}}})

	assert.False(t, s.HasEqualPageSizes())
}

func TestScreenApply(t *testing.T) {
	t.Parallel()

	doc := &stubDocument{sizes: [][2]float64{{612, 792}, {612, 792}, {612, 792}}}

	tcs := map[string]struct {
		run   func(s *tui.Screen)
		check func(t *testing.T, s *tui.Screen)
	}{
		"set page clamps to bounds": {
			run: func(s *tui.Screen) {
				s.Apply(viewer.SetPage{N: 99})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()
				assert.Equal(t, 3, s.CurrentPageNumber())
			},
		},
		"turn page backward stops at first": {
			run: func(s *tui.Screen) {
				s.Apply(viewer.TurnPage{Delta: -5})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()
				assert.Equal(t, 1, s.CurrentPageNumber())
			},
		},
		"zoom to relative factor": {
			run: func(s *tui.Screen) {
				s.SetCurrentScaleValue(viewer.NumericScale(2))
				s.Apply(viewer.ZoomTo{Scale: 1.5})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()

				f, ok := s.CurrentScaleValue().Float()
				require.True(t, ok)
				assert.InDelta(t, 3.0, f, 1e-9)
			},
		},
		"zoom steps multiply": {
			run: func(s *tui.Screen) {
				s.SetCurrentScaleValue(viewer.NumericScale(1))
				s.Apply(viewer.ZoomTo{Steps: 2})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()

				f, ok := s.CurrentScaleValue().Float()
				require.True(t, ok)
				assert.InDelta(t, 1.21, f, 1e-9)
			},
		},
		"zoom clamps at maximum": {
			run: func(s *tui.Screen) {
				s.SetCurrentScaleValue(viewer.NumericScale(9))
				s.Apply(viewer.ZoomTo{Scale: 5})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()

				f, ok := s.CurrentScaleValue().Float()
				require.True(t, ok)
				assert.InDelta(t, viewer.MaxScale, f, 1e-9)
			},
		},
		"zoom reset returns to default": {
			run: func(s *tui.Screen) {
				s.SetCurrentScaleValue(viewer.NumericScale(2))
				s.Apply(viewer.ZoomReset{})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()
				assert.Equal(t, viewer.DefaultScale, s.CurrentScaleValue())
			},
		},
		"rotation wraps": {
			run: func(s *tui.Screen) {
				s.Apply(viewer.RotatePages{Delta: 90})
				s.Apply(viewer.RotatePages{Delta: -180})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()
				assert.Equal(t, viewer.Rotation(270), s.PagesRotation())
			},
		},
		"find bar toggles": {
			run: func(s *tui.Screen) {
				s.Apply(viewer.OpenFind{})
			},
			check: func(t *testing.T, s *tui.Screen) {
				t.Helper()
				assert.True(t, s.FindBarOpen())

				s.Apply(viewer.CloseFind{})
				assert.False(t, s.FindBarOpen())
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := tui.NewScreen()
			s.SetDocument(doc)

			tc.run(s)
			tc.check(t, s)
		})
	}
}

func TestScreenNotify(t *testing.T) {
	t.Parallel()

	s := tui.NewScreen()

	calls := 0
	s.SetNotify(func() { calls++ })

	s.Update()
	s.Refresh()

	assert.Equal(t, 2, calls)
}

func TestScreenAnnouncesChanges(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	sub := bus.Subscribe(16)

	t.Cleanup(sub.Cancel)

	s := tui.NewScreen()
	s.SetBus(bus)
	s.SetDocument(&stubDocument{sizes: [][2]float64{{612, 792}, {612, 792}}})

	s.Apply(viewer.TurnPage{Delta: 1})
	s.Apply(viewer.OpenFind{})
	s.Apply(viewer.OpenFind{}) // Already open, no second announcement.
	s.Apply(viewer.ZoomReset{})

	want := []event.Event{
		event.PageRendered{PageNumber: 1},
		event.PageRendered{PageNumber: 2},
		event.FindBarOpen{},
		event.ScaleChanging{Scale: viewer.DefaultScale},
	}
	for _, w := range want {
		select {
		case got := <-sub.C():
			assert.Equal(t, w, got)
		default:
			t.Fatalf("missing event %T", w)
		}
	}
}

func TestScreenStatusScale(t *testing.T) {
	t.Parallel()

	s := tui.NewScreen()
	assert.Equal(t, "-", s.StatusScale())

	s.SetCurrentScaleValue(viewer.ScaleAuto)
	assert.Equal(t, "auto", s.StatusScale())

	s.SetCurrentScaleValue(viewer.NumericScale(1.25))
	assert.Equal(t, "125%", s.StatusScale())
}
