package cache

import (
	"encoding/binary"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

// HeatmapKey identifies a heatmap computation by everything it depends on
type HeatmapKey uint64

// Fingerprint hashes bounds, resolution, settings and the contributing
// transmitters. Transmitter order does not matter.
func Fingerprint(transmitters []coverage.Transmitter, bounds spatial.Bounds, resolution float64, settings coverage.Settings) HeatmapKey {
	d := xxhash.New()
	var buf [8]byte

	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		d.Write(buf[:])
	}
	writeOptional := func(v *float64) {
		if v == nil {
			d.Write([]byte{0})
			return
		}
		d.Write([]byte{1})
		writeFloat(*v)
	}
	writeString := func(s string) {
		d.WriteString(s)
		d.Write([]byte{0})
	}

	writeFloat(bounds.MinX)
	writeFloat(bounds.MinY)
	writeFloat(bounds.MaxX)
	writeFloat(bounds.MaxY)
	writeFloat(resolution)

	writeString(string(settings.Model))
	writeString(string(settings.Interpolation))
	writeFloat(settings.MaxDistance)
	if settings.Shadowing {
		writeString("shadowing")
	}
	env := settings.Environment
	writeString(string(env.Type))
	writeOptional(env.PathLossExponent)
	writeOptional(env.WallLossDB)
	writeOptional(env.FloorLossDB)
	writeFloat(float64(env.FloorsCrossed))
	writeFloat(float64(env.Obstacles.ThinWalls))
	writeFloat(float64(env.Obstacles.ThickWalls))
	writeFloat(float64(env.Obstacles.Floors))
	writeFloat(float64(env.Obstacles.GlassPanels))

	active := coverage.ActiveTransmitters(transmitters)
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	for _, t := range active {
		writeString(t.ID)
		writeFloat(t.Position.X)
		writeFloat(t.Position.Y)
		writeFloat(t.Frequency())
		writeFloat(t.TxPower())
	}

	return HeatmapKey(d.Sum64())
}

type entry struct {
	grid    coverage.Grid
	expires time.Time
}

// HeatmapCache keeps recently computed grids for a short TTL
type HeatmapCache struct {
	mu      sync.Mutex
	entries map[HeatmapKey]entry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewHeatmapCache creates a cache; ttl <= 0 or maxSize <= 0 disables it
func NewHeatmapCache(ttl time.Duration, maxSize int) *HeatmapCache {
	return &HeatmapCache{
		entries: make(map[HeatmapKey]entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (c *HeatmapCache) enabled() bool {
	return c != nil && c.ttl > 0 && c.maxSize > 0
}

// Get returns a cached grid if present and not expired
func (c *HeatmapCache) Get(key HeatmapKey) (coverage.Grid, bool) {
	if !c.enabled() {
		return coverage.Grid{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return coverage.Grid{}, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return coverage.Grid{}, false
	}
	return e.grid, true
}

// Put stores a grid. When full, expired entries go first, then the entry
// closest to expiry.
func (c *HeatmapCache) Put(key HeatmapKey, grid coverage.Grid) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evict(now)
	}
	c.entries[key] = entry{grid: grid, expires: now.Add(c.ttl)}
}

func (c *HeatmapCache) evict(now time.Time) {
	var oldestKey HeatmapKey
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			continue
		}
		if first || e.expires.Before(oldest) {
			oldestKey, oldest, first = k, e.expires, false
		}
	}
	if len(c.entries) >= c.maxSize && !first {
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of stored entries, expired ones included
func (c *HeatmapCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
