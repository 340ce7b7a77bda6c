package coverage

import (
	"errors"
	"math"
	"testing"

	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

func defaultParams() GridParams {
	return GridParams{
		Weighting:   InverseDistanceWeighting{},
		MaxDistance: 300,
		Model:       propagation.ITUIndoor{},
		Environment: propagation.DefaultEnvironment(),
	}
}

func TestGridShape(t *testing.T) {
	txs := []Transmitter{{ID: "ap", Position: at(50, 50), Status: StatusActive}}
	grid, err := InterpolateGrid(txs, spatial.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, 10, defaultParams())
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}
	if grid.Rows() != 10 || grid.Cols() != 10 {
		t.Fatalf("grid is %dx%d, want 10x10", grid.Rows(), grid.Cols())
	}
}

func TestGridDimensionsRoundUp(t *testing.T) {
	rows, cols := GridDimensions(spatial.Bounds{MaxX: 95, MaxY: 21}, 10)
	if rows != 3 || cols != 10 {
		t.Fatalf("dimensions = %dx%d, want 3x10", rows, cols)
	}
}

func TestEmptyTransmittersFillSentinel(t *testing.T) {
	grid, err := InterpolateGrid(nil, spatial.Bounds{MaxX: 40, MaxY: 30}, 10, defaultParams())
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}
	if grid.Rows() != 3 || grid.Cols() != 4 {
		t.Fatalf("grid is %dx%d, want 3x4", grid.Rows(), grid.Cols())
	}
	for r, row := range grid.Values {
		for c, v := range row {
			if v != NoCoverageDBm {
				t.Fatalf("cell (%d,%d) = %v, want %v", r, c, v, NoCoverageDBm)
			}
		}
	}
}

func TestInactiveTransmittersAreSkipped(t *testing.T) {
	txs := []Transmitter{
		{ID: "off", Position: at(5, 5), Status: StatusInactive},
		{ID: "unplaced", Status: StatusActive},
	}
	grid, err := InterpolateGrid(txs, spatial.Bounds{MaxX: 20, MaxY: 20}, 10, defaultParams())
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}
	for _, row := range grid.Values {
		for _, v := range row {
			if v != NoCoverageDBm {
				t.Fatalf("cell = %v, want sentinel", v)
			}
		}
	}
}

func TestSingleTransmitterCellEqualsEstimate(t *testing.T) {
	tx := Transmitter{ID: "ap", Position: at(0, 0), Status: StatusActive, CalibratedTxPowerDBm: ptr(-20)}
	params := defaultParams()
	grid, err := InterpolateGrid([]Transmitter{tx}, spatial.Bounds{MaxX: 30, MaxY: 30}, 10, params)
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}

	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Cols(); c++ {
			want := Estimate(tx, grid.CellCenter(r, c), params.Model, params.Environment)
			if got := grid.Values[r][c]; math.Abs(got-want) > 1e-9 {
				t.Fatalf("cell (%d,%d) = %v, want %v", r, c, got, want)
			}
		}
	}
	if c := grid.CellCenter(0, 0); c != (spatial.Point{X: 5, Y: 5}) {
		t.Fatalf("CellCenter(0,0) = %v, want (5,5)", c)
	}
}

func TestMaxDistanceCutsOffTransmitters(t *testing.T) {
	tx := Transmitter{ID: "ap", Position: at(0, 0), Status: StatusActive}
	params := defaultParams()
	params.MaxDistance = 15

	grid, err := InterpolateGrid([]Transmitter{tx}, spatial.Bounds{MaxX: 40, MaxY: 10}, 10, params)
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}
	// centers at x=5,15,25,35 (y=5): distances 7.07, 15.8, 25.5, 35.4
	if grid.Values[0][0] == NoCoverageDBm {
		t.Error("nearest cell should be covered")
	}
	for c := 1; c < 4; c++ {
		if grid.Values[0][c] != NoCoverageDBm {
			t.Errorf("cell %d = %v, want sentinel beyond max distance", c, grid.Values[0][c])
		}
	}
}

func TestWeightingSchemes(t *testing.T) {
	cases := []struct {
		w        Weighting
		distance float64
		max      float64
		want     float64
	}{
		{LinearWeighting{}, 25, 100, 0.75},
		{LinearWeighting{}, 150, 100, 0},
		{InverseDistanceWeighting{}, 2, 100, 0.25},
		{InverseDistanceWeighting{}, 0, 100, 100},
		{InverseDistanceWeighting{}, 0.05, 100, 100},
		{KrigingWeighting{}, 0, 100, 1},
		{KrigingWeighting{}, 100, 100, math.Exp(-3)},
	}
	for _, tc := range cases {
		if got := tc.w.Weight(tc.distance, tc.max); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s.Weight(%v,%v) = %v, want %v", tc.w.Method(), tc.distance, tc.max, got, tc.want)
		}
	}
}

func TestParseWeighting(t *testing.T) {
	if _, ok := ParseWeighting("linear").(LinearWeighting); !ok {
		t.Error("linear")
	}
	if _, ok := ParseWeighting("KRIGING").(KrigingWeighting); !ok {
		t.Error("kriging")
	}
	for _, name := range []string{"idw", "", "spline"} {
		if _, ok := ParseWeighting(name).(InverseDistanceWeighting); !ok {
			t.Errorf("%q should fall back to inverse distance", name)
		}
	}
}

func TestWeightedAverageOfTwoTransmitters(t *testing.T) {
	a := Transmitter{ID: "a", Position: at(0, 5), Status: StatusActive, CalibratedTxPowerDBm: ptr(-30)}
	b := Transmitter{ID: "b", Position: at(30, 5), Status: StatusActive, CalibratedTxPowerDBm: ptr(-10)}
	params := defaultParams()
	params.Weighting = LinearWeighting{}
	params.MaxDistance = 50

	grid, err := InterpolateGrid([]Transmitter{a, b}, spatial.Bounds{MaxX: 10, MaxY: 10}, 10, params)
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}

	p := spatial.Point{X: 5, Y: 5}
	sa := Estimate(a, p, params.Model, params.Environment)
	sb := Estimate(b, p, params.Model, params.Environment)
	wa := 1 - 5.0/50
	wb := 1 - 25.0/50
	want := (sa*wa + sb*wb) / (wa + wb)
	if got := grid.Values[0][0]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("cell = %v, want %v", got, want)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	txs := []Transmitter{
		{ID: "a", Position: at(12, 80), Status: StatusActive, CalibratedTxPowerDBm: ptr(-25)},
		{ID: "b", Position: at(140, 30), Status: StatusActive, LastKnownRSSIDBm: ptr(-48)},
		{ID: "c", Position: at(75, 75), Status: StatusActive, FrequencyMHz: 5180},
	}
	bounds := spatial.Bounds{MaxX: 200, MaxY: 120}

	for _, w := range []Weighting{LinearWeighting{}, InverseDistanceWeighting{}, KrigingWeighting{}} {
		params := defaultParams()
		params.Weighting = w
		params.MaxDistance = 90

		params.Workers = 1
		seq, err := InterpolateGrid(txs, bounds, 7, params)
		if err != nil {
			t.Fatalf("sequential: %v", err)
		}
		params.Workers = 8
		par, err := InterpolateGrid(txs, bounds, 7, params)
		if err != nil {
			t.Fatalf("parallel: %v", err)
		}

		for r := range seq.Values {
			for c := range seq.Values[r] {
				if seq.Values[r][c] != par.Values[r][c] {
					t.Fatalf("%s: cell (%d,%d) differs: %v vs %v", w.Method(), r, c, seq.Values[r][c], par.Values[r][c])
				}
			}
		}
	}
}

func TestInterpolateGridRejectsBadInput(t *testing.T) {
	bounds := spatial.Bounds{MaxX: 10, MaxY: 10}

	if _, err := InterpolateGrid(nil, bounds, 0, defaultParams()); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("zero resolution: err = %v", err)
	}
	if _, err := InterpolateGrid(nil, bounds, math.NaN(), defaultParams()); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("NaN resolution: err = %v", err)
	}
	if _, err := InterpolateGrid(nil, spatial.Bounds{MinX: 10, MaxX: 0, MaxY: 5}, 1, defaultParams()); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("inverted bounds: err = %v", err)
	}
	params := defaultParams()
	params.MaxDistance = 0
	if _, err := InterpolateGrid(nil, bounds, 1, params); !errors.Is(err, ErrInvalidMaxDistance) {
		t.Errorf("zero max distance: err = %v", err)
	}

	nonFinite := []spatial.Bounds{
		{MaxX: math.Inf(1), MaxY: 10},
		{MinX: math.Inf(-1), MaxX: 10, MaxY: 10},
		{MaxX: 10, MaxY: math.NaN()},
		{MinY: math.NaN(), MaxX: 10, MaxY: 10},
	}
	for _, b := range nonFinite {
		if _, err := InterpolateGrid(nil, b, 10, defaultParams()); !errors.Is(err, ErrInvalidBounds) {
			t.Errorf("bounds %+v: err = %v, want ErrInvalidBounds", b, err)
		}
	}

	huge := spatial.Bounds{MaxX: 1e9, MaxY: 1e9}
	if _, err := InterpolateGrid(nil, huge, 1, defaultParams()); !errors.Is(err, ErrGridTooLarge) {
		t.Errorf("huge grid: err = %v, want ErrGridTooLarge", err)
	}
}

func TestWeakEstimatesStayCovered(t *testing.T) {
	txs := []Transmitter{{ID: "far", Position: at(0, 0), Status: StatusActive}}
	grid, err := InterpolateGrid(txs, spatial.Bounds{MinX: 190, MaxX: 200, MaxY: 20}, 10, defaultParams())
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}
	for r, row := range grid.Values {
		for c, v := range row {
			if !(v < NoCoverageDBm) {
				t.Fatalf("cell (%d,%d) = %v, want below %v", r, c, v, NoCoverageDBm)
			}
			if !grid.IsCovered(r, c) {
				t.Errorf("cell (%d,%d) reported uncovered", r, c)
			}
		}
	}

	area := CoverageArea{
		ID:         "far",
		Shape:      spatial.Rectangle{Origin: spatial.Point{X: 190}, Width: 10, Height: 20},
		Thresholds: DefaultThresholds(),
	}
	report := ReportArea(area, grid)
	if report.Cells != 2 || report.NoCoverage != 0 || report.Bands[QualityWeak] != 2 {
		t.Fatalf("report = %+v, want 2 weak cells and no uncovered ones", report)
	}

	empty, err := InterpolateGrid(nil, spatial.Bounds{MaxX: 10, MaxY: 10}, 10, defaultParams())
	if err != nil {
		t.Fatalf("InterpolateGrid: %v", err)
	}
	if empty.IsCovered(0, 0) {
		t.Error("cell without transmitters reported covered")
	}
}
