package coverage

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

var (
	ErrInvalidResolution  = errors.New("resolution must be positive")
	ErrInvalidBounds      = errors.New("bounds must be finite and satisfy min <= max")
	ErrInvalidMaxDistance = errors.New("max distance must be positive")
	ErrGridTooLarge       = errors.New("grid exceeds the cell limit")
)

// MaxCells caps rows*cols of a single InterpolateGrid call
const MaxCells = 1 << 24

// minWeightDistance keeps inverse-distance weights finite at a transmitter
const minWeightDistance = 0.1

// WeightingMethod names an interpolation weighting scheme
type WeightingMethod string

const (
	WeightLinear          WeightingMethod = "linear"
	WeightInverseDistance WeightingMethod = "idw"
	WeightKriging         WeightingMethod = "kriging"
)

// Weighting decides how much a transmitter's estimate counts toward a cell.
// Variants: LinearWeighting, InverseDistanceWeighting, KrigingWeighting.
type Weighting interface {
	Method() WeightingMethod
	Weight(distance, maxDistance float64) float64
	weighting()
}

// LinearWeighting falls off linearly to zero at maxDistance
type LinearWeighting struct{}

// InverseDistanceWeighting is 1/d² with d clamped to 0.1
type InverseDistanceWeighting struct{}

// KrigingWeighting is an exponential decay exp(-3d/maxDistance).
// It is a cheap stand-in and does not fit a variogram.
type KrigingWeighting struct{}

func (LinearWeighting) weighting()          {}
func (InverseDistanceWeighting) weighting() {}
func (KrigingWeighting) weighting()         {}

func (LinearWeighting) Method() WeightingMethod          { return WeightLinear }
func (InverseDistanceWeighting) Method() WeightingMethod { return WeightInverseDistance }
func (KrigingWeighting) Method() WeightingMethod         { return WeightKriging }

func (LinearWeighting) Weight(distance, maxDistance float64) float64 {
	return math.Max(0, 1-distance/maxDistance)
}

func (InverseDistanceWeighting) Weight(distance, _ float64) float64 {
	d := math.Max(distance, minWeightDistance)
	return 1 / (d * d)
}

func (KrigingWeighting) Weight(distance, maxDistance float64) float64 {
	return math.Exp(-3 * distance / maxDistance)
}

// ParseWeighting maps a name to a Weighting, defaulting to inverse distance
func ParseWeighting(name string) Weighting {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(WeightLinear):
		return LinearWeighting{}
	case string(WeightKriging):
		return KrigingWeighting{}
	default:
		return InverseDistanceWeighting{}
	}
}

// Grid is a raster of dBm estimates. Values[row][col] is sampled at the
// center of the cell; rows run along Y, columns along X.
type Grid struct {
	Values     [][]float64    `json:"grid"`
	Bounds     spatial.Bounds `json:"bounds"`
	Resolution float64        `json:"resolution"`
	// Covered marks cells with at least one contributing transmitter.
	// Nil for hand-built grids; see IsCovered.
	Covered [][]bool `json:"-"`
}

// IsCovered reports whether a cell had a contributing transmitter. Without
// a coverage mask it falls back to comparing against NoCoverageDBm.
func (g Grid) IsCovered(row, col int) bool {
	if row < len(g.Covered) && col < len(g.Covered[row]) {
		return g.Covered[row][col]
	}
	return g.Values[row][col] > NoCoverageDBm
}

// Rows returns the number of rows
func (g Grid) Rows() int {
	return len(g.Values)
}

// Cols returns the number of columns
func (g Grid) Cols() int {
	if len(g.Values) == 0 {
		return 0
	}
	return len(g.Values[0])
}

// CellCenter returns the sample point of a cell
func (g Grid) CellCenter(row, col int) spatial.Point {
	return cellCenter(g.Bounds, g.Resolution, row, col)
}

func cellCenter(b spatial.Bounds, resolution float64, row, col int) spatial.Point {
	return spatial.Point{
		X: b.MinX + (float64(col)+0.5)*resolution,
		Y: b.MinY + (float64(row)+0.5)*resolution,
	}
}

// GridDimensions returns ceil(width/resolution) columns and
// ceil(height/resolution) rows
func GridDimensions(b spatial.Bounds, resolution float64) (rows, cols int) {
	cols = int(math.Ceil(b.Width() / resolution))
	rows = int(math.Ceil(b.Height() / resolution))
	return rows, cols
}

// GridParams carries everything except the transmitters, bounds and
// resolution that the interpolator needs.
type GridParams struct {
	Weighting   Weighting
	MaxDistance float64
	Model       propagation.Model
	Environment propagation.Environment
	// Workers bounds row-level parallelism; <= 0 uses GOMAXPROCS
	Workers int
}

// InterpolateGrid estimates the signal at every cell center of bounds.
//
// Each cell is the weighted mean of the estimates of every contributing
// transmitter within MaxDistance, or NoCoverageDBm when the weights sum to
// zero. Cells are independent, so rows are computed concurrently and the
// output does not depend on scheduling.
func InterpolateGrid(transmitters []Transmitter, bounds spatial.Bounds, resolution float64, params GridParams) (Grid, error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return Grid{}, fmt.Errorf("interpolate grid: %w (got %v)", ErrInvalidResolution, resolution)
	}
	if !validBounds(bounds) {
		return Grid{}, fmt.Errorf("interpolate grid: %w (got %+v)", ErrInvalidBounds, bounds)
	}
	if !(params.MaxDistance > 0) {
		return Grid{}, fmt.Errorf("interpolate grid: %w (got %v)", ErrInvalidMaxDistance, params.MaxDistance)
	}
	if params.Weighting == nil {
		params.Weighting = InverseDistanceWeighting{}
	}
	if params.Model == nil {
		params.Model = propagation.ITUIndoor{}
	}

	active := ActiveTransmitters(transmitters)
	if cells := math.Ceil(bounds.Width()/resolution) * math.Ceil(bounds.Height()/resolution); cells > MaxCells {
		return Grid{}, fmt.Errorf("interpolate grid: %w (%.0f cells, max %d)", ErrGridTooLarge, cells, MaxCells)
	}
	rows, cols := GridDimensions(bounds, resolution)

	values := make([][]float64, rows)
	covered := make([][]bool, rows)
	fillRow := func(r int) {
		row := make([]float64, cols)
		mask := make([]bool, cols)
		for c := range row {
			row[c], mask[c] = cellValue(active, cellCenter(bounds, resolution, r, c), params)
		}
		values[r] = row
		covered[r] = mask
	}

	workers := params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > rows {
		workers = rows
	}

	if workers <= 1 {
		for r := 0; r < rows; r++ {
			fillRow(r)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for r := range jobs {
					fillRow(r)
				}
			}()
		}
		for r := 0; r < rows; r++ {
			jobs <- r
		}
		close(jobs)
		wg.Wait()
	}

	return Grid{Values: values, Bounds: bounds, Resolution: resolution, Covered: covered}, nil
}

func validBounds(b spatial.Bounds) bool {
	for _, v := range []float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// cellValue is the pure per-cell reduction. The flag is false when no
// transmitter contributed and the value is the sentinel.
func cellValue(active []Transmitter, p spatial.Point, params GridParams) (float64, bool) {
	var weightedSum, weightSum float64
	for _, t := range active {
		distance := spatial.Distance(*t.Position, p)
		if distance > params.MaxDistance {
			continue
		}

		signal := estimateAt(t, distance, params.Model, params.Environment)
		weight := params.Weighting.Weight(distance, params.MaxDistance)

		weightedSum += signal * weight
		weightSum += weight
	}

	if weightSum > 0 {
		return weightedSum / weightSum, true
	}
	return NoCoverageDBm, false
}
