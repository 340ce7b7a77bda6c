package cache

import (
	"testing"
	"time"

	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

func tx(id string, x, y float64) coverage.Transmitter {
	return coverage.Transmitter{ID: id, Position: &spatial.Point{X: x, Y: y}, Status: coverage.StatusActive}
}

func TestFingerprintIgnoresOrderAndInactive(t *testing.T) {
	bounds := spatial.Bounds{MaxX: 100, MaxY: 100}
	settings := coverage.DefaultSettings()

	a := Fingerprint([]coverage.Transmitter{tx("a", 1, 2), tx("b", 3, 4)}, bounds, 10, settings)
	b := Fingerprint([]coverage.Transmitter{tx("b", 3, 4), tx("a", 1, 2)}, bounds, 10, settings)
	if a != b {
		t.Fatal("fingerprint depends on transmitter order")
	}

	off := tx("c", 9, 9)
	off.Status = coverage.StatusInactive
	c := Fingerprint([]coverage.Transmitter{tx("a", 1, 2), tx("b", 3, 4), off}, bounds, 10, settings)
	if a != c {
		t.Fatal("inactive transmitter changed the fingerprint")
	}
}

func TestFingerprintChangesWithInputs(t *testing.T) {
	bounds := spatial.Bounds{MaxX: 100, MaxY: 100}
	settings := coverage.DefaultSettings()
	base := Fingerprint([]coverage.Transmitter{tx("a", 1, 2)}, bounds, 10, settings)

	if base == Fingerprint([]coverage.Transmitter{tx("a", 1, 3)}, bounds, 10, settings) {
		t.Error("moving a transmitter should change the key")
	}
	if base == Fingerprint([]coverage.Transmitter{tx("a", 1, 2)}, bounds, 5, settings) {
		t.Error("resolution should change the key")
	}
	if base == Fingerprint([]coverage.Transmitter{tx("a", 1, 2)}, spatial.Bounds{MaxX: 50, MaxY: 100}, 10, settings) {
		t.Error("bounds should change the key")
	}
	other := settings
	other.Interpolation = coverage.WeightKriging
	if base == Fingerprint([]coverage.Transmitter{tx("a", 1, 2)}, bounds, 10, other) {
		t.Error("interpolation should change the key")
	}
	exp := 2.0
	other = settings
	other.Environment.PathLossExponent = &exp
	if base == Fingerprint([]coverage.Transmitter{tx("a", 1, 2)}, bounds, 10, other) {
		t.Error("environment override should change the key")
	}
}

func TestHeatmapCacheTTL(t *testing.T) {
	c := NewHeatmapCache(time.Minute, 4)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	grid := coverage.Grid{Values: [][]float64{{-60}}, Resolution: 10}
	c.Put(1, grid)

	got, ok := c.Get(1)
	if !ok || got.Values[0][0] != -60 {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(1); ok {
		t.Fatal("entry should have expired")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not removed, len=%d", c.Len())
	}
}

func TestHeatmapCacheEvictsWhenFull(t *testing.T) {
	c := NewHeatmapCache(time.Minute, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put(1, coverage.Grid{})
	now = now.Add(time.Second)
	c.Put(2, coverage.Grid{})
	now = now.Add(time.Second)
	c.Put(3, coverage.Grid{})

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatal("newest entry missing")
	}
}

func TestDisabledCache(t *testing.T) {
	c := NewHeatmapCache(0, 10)
	c.Put(1, coverage.Grid{})
	if _, ok := c.Get(1); ok {
		t.Fatal("disabled cache returned an entry")
	}

	var nilCache *HeatmapCache
	nilCache.Put(1, coverage.Grid{})
	if _, ok := nilCache.Get(1); ok || nilCache.Len() != 0 {
		t.Fatal("nil cache should be inert")
	}
}
