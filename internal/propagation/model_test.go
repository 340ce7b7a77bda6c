package propagation

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestITUIndoorOfficeAt10m(t *testing.T) {
	got := ITUIndoor{}.PathLoss(2437, 10, DefaultEnvironment())
	want := 20*math.Log10(2437) - 28 + 30
	if !approx(got, want) {
		t.Fatalf("PathLoss = %v, want %v", got, want)
	}
	if !approx(got, 69.73711058369449) {
		t.Fatalf("PathLoss = %v, want pinned 69.73711058369449", got)
	}
}

func TestITUIndoorEnvironmentDefaults(t *testing.T) {
	cases := []struct {
		env      EnvironmentType
		exponent float64
		floor    float64
	}{
		{EnvOffice, 3.0, 15},
		{EnvResidential, 2.8, 10},
		{EnvCommercial, 2.2, 12},
		{EnvIndustrial, 2.1, 8},
		{"warehouse", 3.0, 15}, // unknown falls back to office
	}
	for _, tc := range cases {
		env := Environment{Type: tc.env, FloorsCrossed: 2}
		if env.Exponent() != tc.exponent {
			t.Errorf("%s: exponent = %v, want %v", tc.env, env.Exponent(), tc.exponent)
		}
		if env.FloorLoss() != tc.floor {
			t.Errorf("%s: floor loss = %v, want %v", tc.env, env.FloorLoss(), tc.floor)
		}

		got := ITUIndoor{}.PathLoss(5200, 100, env)
		want := 20*math.Log10(5200) - 28 + 10*tc.exponent*2 + 2*tc.floor
		if !approx(got, want) {
			t.Errorf("%s: PathLoss = %v, want %v", tc.env, got, want)
		}
	}
}

func TestEnvironmentOverridesWin(t *testing.T) {
	env := Environment{
		Type:             EnvResidential,
		PathLossExponent: floatPtr(4),
		WallLossDB:       floatPtr(6),
		FloorLossDB:      floatPtr(0),
		FloorsCrossed:    3,
	}
	got := ITUIndoor{}.PathLoss(2400, 10, env)
	want := 20*math.Log10(2400) - 28 + 40 + 0 + 6
	if !approx(got, want) {
		t.Fatalf("PathLoss = %v, want %v", got, want)
	}
}

func TestDistanceIsFlooredAtOne(t *testing.T) {
	env := DefaultEnvironment()
	models := []Model{ITUIndoor{}, LogDistance{}, MultiWall{}}
	for _, m := range models {
		atOne := m.PathLoss(2437, 1, env)
		for _, d := range []float64{0, -5, 0.25} {
			got := m.PathLoss(2437, d, env)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("%s: PathLoss(d=%v) = %v", m.Method(), d, got)
			}
			if got != atOne {
				t.Errorf("%s: PathLoss(d=%v) = %v, want %v", m.Method(), d, got, atOne)
			}
		}
	}
}

func TestLogDistance(t *testing.T) {
	env := DefaultEnvironment()
	m := NewLogDistance(false)
	if m.Shadow != nil {
		t.Fatal("shadowing must be disabled by default")
	}
	if got := m.PathLoss(2437, 10, env); !approx(got, 70) {
		t.Fatalf("PathLoss = %v, want 70", got)
	}
	if got := m.PathLoss(2437, 1, env); !approx(got, 40) {
		t.Fatalf("PathLoss at d0 = %v, want 40", got)
	}
}

func TestLogDistanceShadowing(t *testing.T) {
	env := DefaultEnvironment()
	m := LogDistance{Shadow: func() float64 { return 2.5 }}
	if got := m.PathLoss(2437, 10, env); !approx(got, 72.5) {
		t.Fatalf("PathLoss = %v, want 72.5", got)
	}

	random := NewLogDistance(true)
	if random.Shadow == nil {
		t.Fatal("expected a shadowing sampler")
	}
	var differs bool
	first := random.PathLoss(2437, 10, env)
	for i := 0; i < 20; i++ {
		if random.PathLoss(2437, 10, env) != first {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("shadowed model produced identical samples")
	}
}

func TestMultiWall(t *testing.T) {
	env := DefaultEnvironment()
	bare := MultiWall{}.PathLoss(2437, 10, env)
	if want := FreeSpacePathLoss(2437, 10); !approx(bare, want) {
		t.Fatalf("PathLoss = %v, want FSPL %v", bare, want)
	}
	if !approx(bare, 60.18711058369449) {
		t.Fatalf("FSPL = %v, want 60.18711058369449", bare)
	}

	env.Obstacles = Obstacles{ThinWalls: 2, ThickWalls: 1, Floors: 1, GlassPanels: 3}
	got := MultiWall{}.PathLoss(2437, 10, env)
	if !approx(got-bare, 2*3+15+20+3*2) {
		t.Fatalf("obstacle loss = %v, want 47", got-bare)
	}
}

func TestParseMethodFallsBackToITU(t *testing.T) {
	cases := map[string]Method{
		"itu-indoor":   MethodITUIndoor,
		"log-distance": MethodLogDistance,
		"Multi-Wall":   MethodMultiWall,
		"":             MethodITUIndoor,
		"cost231":      MethodITUIndoor,
	}
	for name, want := range cases {
		if got := ParseMethod(name); got != want {
			t.Errorf("ParseMethod(%q) = %q, want %q", name, got, want)
		}
	}

	switch ByName("bogus", false).(type) {
	case ITUIndoor:
	default:
		t.Fatal("unknown model name should resolve to ITUIndoor")
	}
}
