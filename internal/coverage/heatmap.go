package coverage

import (
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

// CanvasSize is the floor-plan viewport in screen units
type CanvasSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ViewTransform is the viewport transform. Only Zoom affects the sampled
// region; the origin stays at (0,0) whatever the pan.
type ViewTransform struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// WorldBounds maps the canvas into world space: (0,0)..(size/zoom)
func WorldBounds(canvas CanvasSize, view ViewTransform) spatial.Bounds {
	zoom := view.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return spatial.Bounds{
		MinX: 0,
		MinY: 0,
		MaxX: canvas.Width / zoom,
		MaxY: canvas.Height / zoom,
	}
}

// Generate renders a heatmap for the canvas.
//
// With no contributing transmitters it returns an empty grid and zero
// bounds; that is a normal result, not an error.
func Generate(transmitters []Transmitter, canvas CanvasSize, view ViewTransform, settings Settings) (Grid, error) {
	resolution := settings.EffectiveResolution()

	active := ActiveTransmitters(transmitters)
	if len(active) == 0 {
		return Grid{Values: [][]float64{}, Resolution: resolution}, nil
	}

	return InterpolateGrid(active, WorldBounds(canvas, view), resolution, settings.GridParams())
}
