package coverage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

var (
	ErrInvalidThresholds = errors.New("thresholds must satisfy excellent >= good >= fair >= poor")
	ErrDegeneratePolygon = errors.New("polygon needs at least 3 vertices")
	ErrInvalidShape      = errors.New("invalid coverage area shape")
)

// Quality is a signal-quality band
type Quality string

const (
	QualityNone      Quality = "none"
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityWeak      Quality = "weak"
)

// Qualities lists the in-area bands from best to worst
var Qualities = []Quality{QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityWeak}

// Thresholds are lower bounds in dBm for each band
type Thresholds struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Fair      float64 `json:"fair"`
	Poor      float64 `json:"poor"`
}

// DefaultThresholds returns -50/-60/-70/-80 dBm
func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: -50, Good: -60, Fair: -70, Poor: -80}
}

// Validate checks the thresholds are monotonically descending.
// The engine itself never calls this; the settings layer does.
func (t Thresholds) Validate() error {
	if t.Excellent >= t.Good && t.Good >= t.Fair && t.Fair >= t.Poor {
		return nil
	}
	return fmt.Errorf("%w: %+v", ErrInvalidThresholds, t)
}

// Classify buckets a signal, checking bands from best to worst
func (t Thresholds) Classify(signalDBm float64) Quality {
	switch {
	case signalDBm >= t.Excellent:
		return QualityExcellent
	case signalDBm >= t.Good:
		return QualityGood
	case signalDBm >= t.Fair:
		return QualityFair
	case signalDBm >= t.Poor:
		return QualityPoor
	default:
		return QualityWeak
	}
}

// CoverageArea is a shape on a floor plan with its own quality thresholds.
// Style is presentation data the engine carries but never reads.
type CoverageArea struct {
	ID         string
	Name       string
	Shape      spatial.Shape
	Thresholds Thresholds
	Style      map[string]any
}

// Contains reports whether p is inside the area's shape
func (a CoverageArea) Contains(p spatial.Point) bool {
	if a.Shape == nil {
		return false
	}
	return a.Shape.Contains(p)
}

// SignalQuality returns QualityNone outside the area, otherwise the band
func (a CoverageArea) SignalQuality(p spatial.Point, signalDBm float64) Quality {
	if !a.Contains(p) {
		return QualityNone
	}
	return a.Thresholds.Classify(signalDBm)
}

// Validate checks the shape and thresholds
func (a CoverageArea) Validate() error {
	if err := ValidateShape(a.Shape); err != nil {
		return err
	}
	return a.Thresholds.Validate()
}

// ValidateShape rejects shapes that can never contain a point sensibly
func ValidateShape(s spatial.Shape) error {
	switch shape := s.(type) {
	case spatial.Circle:
		if shape.Radius < 0 {
			return fmt.Errorf("%w: negative radius %v", ErrInvalidShape, shape.Radius)
		}
	case spatial.Rectangle:
		if shape.Width < 0 || shape.Height < 0 {
			return fmt.Errorf("%w: negative size %vx%v", ErrInvalidShape, shape.Width, shape.Height)
		}
	case spatial.Polygon:
		if len(shape.Vertices) < 3 {
			return fmt.Errorf("%w: got %d", ErrDegeneratePolygon, len(shape.Vertices))
		}
	case nil:
		return fmt.Errorf("%w: missing geometry", ErrInvalidShape)
	default:
		return fmt.Errorf("%w: unsupported %T", ErrInvalidShape, s)
	}
	return nil
}

// areaJSON is the flat wire form of a CoverageArea
type areaJSON struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name,omitempty"`
	Type       spatial.ShapeKind `json:"type"`
	Center     *spatial.Point    `json:"center,omitempty"`
	Radius     float64           `json:"radius,omitempty"`
	Origin     *spatial.Point    `json:"origin,omitempty"`
	Width      float64           `json:"width,omitempty"`
	Height     float64           `json:"height,omitempty"`
	Vertices   []spatial.Point   `json:"vertices,omitempty"`
	Thresholds *Thresholds       `json:"signalThresholds,omitempty"`
	Style      map[string]any    `json:"style,omitempty"`
}

// MarshalJSON writes the shape inline with a "type" tag
func (a CoverageArea) MarshalJSON() ([]byte, error) {
	thresholds := a.Thresholds
	out := areaJSON{ID: a.ID, Name: a.Name, Thresholds: &thresholds, Style: a.Style}

	switch shape := a.Shape.(type) {
	case spatial.Circle:
		out.Type = spatial.ShapeCircle
		out.Center = &shape.Center
		out.Radius = shape.Radius
	case spatial.Rectangle:
		out.Type = spatial.ShapeRectangle
		out.Origin = &shape.Origin
		out.Width = shape.Width
		out.Height = shape.Height
	case spatial.Polygon:
		out.Type = spatial.ShapePolygon
		out.Vertices = shape.Vertices
	case nil:
	default:
		return nil, fmt.Errorf("%w: unsupported %T", ErrInvalidShape, a.Shape)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the tagged form. Missing thresholds take the defaults.
func (a *CoverageArea) UnmarshalJSON(data []byte) error {
	var in areaJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var shape spatial.Shape
	switch in.Type {
	case spatial.ShapeCircle:
		c := spatial.Circle{Radius: in.Radius}
		if in.Center != nil {
			c.Center = *in.Center
		}
		shape = c
	case spatial.ShapeRectangle:
		r := spatial.Rectangle{Width: in.Width, Height: in.Height}
		if in.Origin != nil {
			r.Origin = *in.Origin
		}
		shape = r
	case spatial.ShapePolygon:
		shape = spatial.Polygon{Vertices: in.Vertices}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidShape, in.Type)
	}

	thresholds := DefaultThresholds()
	if in.Thresholds != nil {
		thresholds = *in.Thresholds
	}

	*a = CoverageArea{
		ID:         in.ID,
		Name:       in.Name,
		Shape:      shape,
		Thresholds: thresholds,
		Style:      in.Style,
	}
	return nil
}

// AreaCoverage summarizes a grid restricted to one area
type AreaCoverage struct {
	AreaID string `json:"areaId"`
	// Size is the surface of the area's shape in squared world units
	Size float64 `json:"size"`
	// Cells is the number of grid cells whose center lies inside the area
	Cells int `json:"cells"`
	// NoCoverage counts inside cells without a contributing transmitter
	NoCoverage int             `json:"noCoverage"`
	Bands      map[Quality]int `json:"bands"`
	// Fractions maps each band to its share of Cells
	Fractions map[Quality]float64 `json:"fractions"`
}

// ReportArea classifies every grid cell whose center falls inside the area.
// Uncovered cells are counted as NoCoverage and as weak.
func ReportArea(area CoverageArea, grid Grid) AreaCoverage {
	report := AreaCoverage{
		AreaID:    area.ID,
		Size:      spatial.ShapeArea(area.Shape),
		Bands:     make(map[Quality]int, len(Qualities)),
		Fractions: make(map[Quality]float64, len(Qualities)),
	}
	for _, q := range Qualities {
		report.Bands[q] = 0
	}

	for r, row := range grid.Values {
		for c, value := range row {
			p := grid.CellCenter(r, c)
			if !area.Contains(p) {
				continue
			}
			report.Cells++
			if !grid.IsCovered(r, c) {
				report.NoCoverage++
				report.Bands[QualityWeak]++
				continue
			}
			report.Bands[area.Thresholds.Classify(value)]++
		}
	}

	for _, q := range Qualities {
		if report.Cells > 0 {
			report.Fractions[q] = float64(report.Bands[q]) / float64(report.Cells)
		} else {
			report.Fractions[q] = 0
		}
	}
	return report
}
