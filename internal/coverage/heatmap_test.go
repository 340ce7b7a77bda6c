package coverage

import (
	"encoding/json"
	"testing"

	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

func TestGenerateWithoutActiveTransmitters(t *testing.T) {
	txs := []Transmitter{{ID: "off", Position: at(1, 1), Status: StatusInactive}}
	grid, err := Generate(txs, CanvasSize{Width: 800, Height: 600}, ViewTransform{Zoom: 1}, DefaultSettings())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if grid.Values == nil || len(grid.Values) != 0 {
		t.Fatalf("grid = %#v, want empty", grid.Values)
	}
	if grid.Bounds != (spatial.Bounds{}) {
		t.Fatalf("bounds = %+v, want zero", grid.Bounds)
	}

	raw, err := json.Marshal(grid)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cells, ok := decoded["grid"].([]any); !ok || len(cells) != 0 {
		t.Fatalf("grid field = %#v, want []", decoded["grid"])
	}
}

func TestGenerateUsesZoomForBounds(t *testing.T) {
	txs := []Transmitter{{ID: "ap", Position: at(20, 20), Status: StatusActive}}
	grid, err := Generate(txs, CanvasSize{Width: 200, Height: 100}, ViewTransform{Zoom: 2, PanX: 500, PanY: -40}, DefaultSettings())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := spatial.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}
	if grid.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v (pan ignored)", grid.Bounds, want)
	}
	if grid.Resolution != DefaultResolution {
		t.Fatalf("resolution = %v, want %v", grid.Resolution, DefaultResolution)
	}
	if grid.Rows() != 5 || grid.Cols() != 10 {
		t.Fatalf("grid is %dx%d, want 5x10", grid.Rows(), grid.Cols())
	}
}

func TestGenerateResolutionOverride(t *testing.T) {
	txs := []Transmitter{{ID: "ap", Position: at(20, 20), Status: StatusActive}}
	settings := DefaultSettings()
	settings.Resolution = 25

	grid, err := Generate(txs, CanvasSize{Width: 100, Height: 100}, ViewTransform{}, settings)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if grid.Rows() != 4 || grid.Cols() != 4 {
		t.Fatalf("grid is %dx%d, want 4x4", grid.Rows(), grid.Cols())
	}
}

func TestWorldBoundsZeroZoom(t *testing.T) {
	b := WorldBounds(CanvasSize{Width: 300, Height: 200}, ViewTransform{})
	if b.MaxX != 300 || b.MaxY != 200 {
		t.Fatalf("bounds = %+v, want 300x200", b)
	}
}

func TestSettingsFallbacks(t *testing.T) {
	s := Settings{Model: "unknown", Interpolation: "whatever"}
	params := s.GridParams()
	if params.MaxDistance != DefaultMaxDistance {
		t.Errorf("MaxDistance = %v, want default", params.MaxDistance)
	}
	if params.Weighting.Method() != WeightInverseDistance {
		t.Errorf("weighting = %v, want idw", params.Weighting.Method())
	}
	if params.Model.Method() != "itu-indoor" {
		t.Errorf("model = %v, want itu-indoor", params.Model.Method())
	}
	if s.EffectiveResolution() != DefaultResolution {
		t.Errorf("resolution = %v, want default", s.EffectiveResolution())
	}
}
