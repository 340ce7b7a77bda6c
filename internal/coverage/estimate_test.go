package coverage

import (
	"math"
	"testing"

	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

func ptr(v float64) *float64 { return &v }

func at(x, y float64) *spatial.Point { return &spatial.Point{X: x, Y: y} }

func TestEstimateRegressionFixture(t *testing.T) {
	tx := Transmitter{
		ID:                   "ap-1",
		Position:             at(0, 0),
		Status:               StatusActive,
		FrequencyMHz:         2437,
		CalibratedTxPowerDBm: ptr(-30),
	}

	got := Estimate(tx, spatial.Point{X: 10, Y: 0}, propagation.ITUIndoor{}, propagation.DefaultEnvironment())
	const want = -99.73711058369449
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Estimate = %.14f, want %.14f", got, want)
	}
}

func TestTxPowerResolution(t *testing.T) {
	cases := []struct {
		name string
		tx   Transmitter
		want float64
	}{
		{"calibrated wins", Transmitter{CalibratedTxPowerDBm: ptr(-12), LastKnownRSSIDBm: ptr(-60)}, -12},
		{"rssi heuristic", Transmitter{LastKnownRSSIDBm: ptr(-60)}, -30},
		{"rssi heuristic strong", Transmitter{LastKnownRSSIDBm: ptr(-45)}, -15},
		{"default", Transmitter{}, DefaultTxPowerDBm},
	}
	for _, tc := range cases {
		if got := tc.tx.TxPower(); got != tc.want {
			t.Errorf("%s: TxPower = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFrequencyDefault(t *testing.T) {
	if f := (Transmitter{}).Frequency(); f != DefaultFrequencyMHz {
		t.Fatalf("Frequency = %v, want %v", f, DefaultFrequencyMHz)
	}
	if f := (Transmitter{FrequencyMHz: 5180}).Frequency(); f != 5180 {
		t.Fatalf("Frequency = %v, want 5180", f)
	}
}

func TestEstimateDecreasesWithDistance(t *testing.T) {
	tx := Transmitter{ID: "ap", Position: at(0, 0), Status: StatusActive, FrequencyMHz: 2437}
	env := propagation.DefaultEnvironment()
	models := []propagation.Model{propagation.ITUIndoor{}, propagation.LogDistance{}, propagation.MultiWall{}}

	for _, m := range models {
		prev := math.Inf(1)
		for _, d := range []float64{1.5, 2, 5, 10, 25, 60, 150} {
			got := Estimate(tx, spatial.Point{X: d, Y: 0}, m, env)
			if !(got < prev) {
				t.Fatalf("%s: estimate at %v (%v) not below previous (%v)", m.Method(), d, got, prev)
			}
			prev = got
		}
	}
}

func TestEstimateIsDeterministic(t *testing.T) {
	tx := Transmitter{ID: "ap", Position: at(3, 4), Status: StatusActive, LastKnownRSSIDBm: ptr(-52)}
	env := propagation.Environment{Type: propagation.EnvCommercial, FloorsCrossed: 1}
	p := spatial.Point{X: 40, Y: -7}

	first := Estimate(tx, p, propagation.NewLogDistance(false), env)
	for i := 0; i < 10; i++ {
		if got := Estimate(tx, p, propagation.NewLogDistance(false), env); got != first {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
}

func TestEstimateWithoutPosition(t *testing.T) {
	got := Estimate(Transmitter{Status: StatusActive}, spatial.Point{}, propagation.ITUIndoor{}, propagation.DefaultEnvironment())
	if got != NoCoverageDBm {
		t.Fatalf("Estimate = %v, want %v", got, NoCoverageDBm)
	}
}

func TestQueryPoint(t *testing.T) {
	txs := []Transmitter{
		{ID: "near", Position: at(0, 0), Status: StatusActive, CalibratedTxPowerDBm: ptr(-30)},
		{ID: "far", Position: at(50, 0), Status: StatusActive, CalibratedTxPowerDBm: ptr(-30)},
		{ID: "off", Position: at(10, 0), Status: StatusInactive, CalibratedTxPowerDBm: ptr(-30)},
		{ID: "unplaced", Status: StatusActive},
	}
	env := propagation.DefaultEnvironment()
	model := propagation.ITUIndoor{}
	p := spatial.Point{X: 10, Y: 0}

	res := QueryPoint(txs, p, model, env, TotalLinear)

	if len(res.Signals) != 2 {
		t.Fatalf("got %d signals, want 2 (inactive and unplaced skipped)", len(res.Signals))
	}
	if res.Signals[0].TransmitterID != "near" || res.Signals[0].Distance != 10 {
		t.Fatalf("unexpected first signal %+v", res.Signals[0])
	}
	if res.Signals[1].Distance != 40 {
		t.Fatalf("far distance = %v, want 40", res.Signals[1].Distance)
	}
	if res.Strongest.TransmitterID != "near" {
		t.Fatalf("strongest = %+v, want near", res.Strongest)
	}

	// The historical total is a plain linear sum and is not converted to dBm.
	wantLinear := math.Pow(10, res.Signals[0].SignalDBm/10) + math.Pow(10, res.Signals[1].SignalDBm/10)
	if math.Abs(res.TotalSignal-wantLinear) > 1e-20 {
		t.Fatalf("TotalSignal = %g, want %g", res.TotalSignal, wantLinear)
	}
	if res.TotalSignal > 1e-9 {
		t.Fatalf("TotalSignal = %g looks like dBm, want linear mW", res.TotalSignal)
	}
	if res.TotalSignalDBm != nil {
		t.Fatal("linear mode must not report a dBm total")
	}
}

func TestQueryPointCorrectedTotal(t *testing.T) {
	txs := []Transmitter{
		{ID: "a", Position: at(0, 0), Status: StatusActive, CalibratedTxPowerDBm: ptr(-30)},
		{ID: "b", Position: at(20, 0), Status: StatusActive, CalibratedTxPowerDBm: ptr(-30)},
	}
	// Point halfway: both estimates are equal, so the total is 3 dB above each.
	res := QueryPoint(txs, spatial.Point{X: 10, Y: 0}, propagation.ITUIndoor{}, propagation.DefaultEnvironment(), TotalDBm)
	if res.TotalSignalDBm == nil {
		t.Fatal("expected dBm total")
	}
	want := res.Signals[0].SignalDBm + 10*math.Log10(2)
	if math.Abs(*res.TotalSignalDBm-want) > 1e-9 {
		t.Fatalf("TotalSignalDBm = %v, want %v", *res.TotalSignalDBm, want)
	}
}

func TestQueryPointNoTransmitters(t *testing.T) {
	res := QueryPoint(nil, spatial.Point{X: 1, Y: 1}, propagation.ITUIndoor{}, propagation.DefaultEnvironment(), TotalDBm)
	if res.Strongest.SignalDBm != NoCoverageDBm || res.Strongest.TransmitterID != "" {
		t.Fatalf("strongest = %+v, want sentinel", res.Strongest)
	}
	if len(res.Signals) != 0 || res.Signals == nil {
		t.Fatalf("signals = %#v, want empty non-nil slice", res.Signals)
	}
	if res.TotalSignal != 0 {
		t.Fatalf("TotalSignal = %v, want 0", res.TotalSignal)
	}
	if res.TotalSignalDBm == nil || *res.TotalSignalDBm != NoCoverageDBm {
		t.Fatalf("TotalSignalDBm = %v, want %v", res.TotalSignalDBm, NoCoverageDBm)
	}
}

func TestParseTotalMode(t *testing.T) {
	if ParseTotalMode("DBM") != TotalDBm {
		t.Error("expected dbm mode")
	}
	if ParseTotalMode("") != TotalLinear || ParseTotalMode("watts") != TotalLinear {
		t.Error("expected linear fallback")
	}
}
