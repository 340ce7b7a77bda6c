package service

import (
	"context"
	"math"
	"time"

	"github.com/jengzang/wifi-coverage-backend/internal/cache"
	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/logging"
	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/observability"
	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
	"github.com/jengzang/wifi-coverage-backend/internal/stats"
)

// MaxGridCells bounds a single heatmap computation
const MaxGridCells = 1_000_000

// CoverageService resolves transmitters and settings for a floor and runs
// the coverage engine on them.
type CoverageService struct {
	monitors *MonitorService
	settings *SettingsService
	cache    *cache.HeatmapCache
	metrics  *observability.Collector
	logger   logging.Logger
	workers  int
}

// CoverageOptions carries the optional collaborators of CoverageService
type CoverageOptions struct {
	Cache   *cache.HeatmapCache
	Metrics *observability.Collector
	Logger  logging.Logger
	// Workers bounds grid parallelism; 0 means GOMAXPROCS
	Workers int
}

// NewCoverageService creates a new coverage service
func NewCoverageService(monitors *MonitorService, settings *SettingsService, opts CoverageOptions) *CoverageService {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	return &CoverageService{
		monitors: monitors,
		settings: settings,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		logger:   logger.With(logging.String("component", "coverage")),
		workers:  opts.Workers,
	}
}

// QueryPoint estimates the signal of every placed, active monitor of the
// floor at q.Point.
func (s *CoverageService) QueryPoint(ctx context.Context, q models.PointQuery) (coverage.PointResult, error) {
	if !finitePoint(q.Point) {
		return coverage.PointResult{}, validationError("point must be finite")
	}
	settings, err := s.settings.EngineSettings(ctx, q.LocationID)
	if err != nil {
		return coverage.PointResult{}, err
	}
	transmitters, _, err := s.monitors.Transmitters(ctx, q.LocationID, q.FloorID)
	if err != nil {
		return coverage.PointResult{}, err
	}

	model := settings.PropagationModel()
	if q.Method != "" {
		model = propagation.ByName(q.Method, settings.Shadowing)
	}
	s.metrics.ObservePointQuery(string(model.Method()))

	return coverage.QueryPoint(transmitters, q.Point, model, settings.Environment, coverage.ParseTotalMode(q.TotalMode)), nil
}

// Heatmap renders the coverage grid of a floor
func (s *CoverageService) Heatmap(ctx context.Context, q models.HeatmapQuery) (models.HeatmapResponse, error) {
	settings, err := s.requestSettings(ctx, q.LocationID, q.Resolution, q.Method)
	if err != nil {
		return models.HeatmapResponse{}, err
	}
	canvas := coverage.CanvasSize{Width: q.Width, Height: q.Height}
	if !positive(canvas.Width) || !positive(canvas.Height) {
		return models.HeatmapResponse{}, validationError("width and height must be positive")
	}
	view := coverage.ViewTransform{Zoom: q.Zoom}

	transmitters, monitors, err := s.monitors.Transmitters(ctx, q.LocationID, q.FloorID)
	if err != nil {
		return models.HeatmapResponse{}, err
	}

	resp := models.HeatmapResponse{
		Settings: models.HeatmapSettings{
			Method:     string(settings.Interpolation),
			Model:      string(settings.Model),
			Resolution: settings.EffectiveResolution(),
			Thresholds: settings.Thresholds,
		},
	}

	active := coverage.ActiveTransmitters(transmitters)
	if len(active) == 0 {
		resp.Grid = [][]float64{}
		resp.Bounds = spatial.Bounds{MinX: 0, MinY: 0, MaxX: q.Width, MaxY: q.Height}
		resp.Monitors = []models.MonitorSummary{}
		return resp, nil
	}

	grid, cached, err := s.renderGrid(ctx, active, canvas, view, settings)
	if err != nil {
		return models.HeatmapResponse{}, err
	}
	summary := stats.SummarizeGrid(grid, settings.Thresholds)

	resp.Grid = grid.Values
	resp.Bounds = grid.Bounds
	resp.Monitors = monitorSummaries(monitors)
	resp.Stats = &summary
	resp.Cached = cached
	return resp, nil
}

// renderGrid runs the heatmap generator behind the cache. Shadowed settings
// are random per run and bypass the cache.
func (s *CoverageService) renderGrid(ctx context.Context, active []coverage.Transmitter, canvas coverage.CanvasSize, view coverage.ViewTransform, settings coverage.Settings) (coverage.Grid, bool, error) {
	bounds := coverage.WorldBounds(canvas, view)
	resolution := settings.EffectiveResolution()
	if err := checkGridSize(bounds, resolution); err != nil {
		return coverage.Grid{}, false, err
	}

	cacheable := !settings.Shadowing
	key := cache.Fingerprint(active, bounds, resolution, settings)
	if cacheable {
		if grid, ok := s.cache.Get(key); ok {
			s.metrics.ObserveHeatmap(string(settings.Interpolation), true, 0)
			return grid, true, nil
		}
	}

	start := time.Now()
	grid, err := coverage.Generate(active, canvas, view, settings)
	if err != nil {
		return coverage.Grid{}, false, wrapValidation(err)
	}
	elapsed := time.Since(start)
	s.metrics.ObserveHeatmap(string(settings.Interpolation), false, elapsed)
	s.logger.Debug(ctx, "heatmap computed",
		logging.Int("rows", grid.Rows()),
		logging.Int("cols", grid.Cols()),
		logging.Int("transmitters", len(active)),
		logging.Any("elapsed", elapsed),
	)

	if cacheable {
		s.cache.Put(key, grid)
	}
	return grid, false, nil
}

// Classify bands a point and signal against an ad-hoc area
func (s *CoverageService) Classify(ctx context.Context, req models.ClassifyRequest) (models.ClassifyResponse, error) {
	if req.Area == nil {
		return models.ClassifyResponse{}, validationError("area is required")
	}
	if err := req.Area.Validate(); err != nil {
		return models.ClassifyResponse{}, wrapValidation(err)
	}
	return classify(*req.Area, req), nil
}

// ClassifyStored bands a point and signal against a stored area
func (s *CoverageService) ClassifyStored(ctx context.Context, areaID string, req models.ClassifyRequest) (models.ClassifyResponse, error) {
	rec, err := s.settings.GetArea(ctx, areaID)
	if err != nil {
		return models.ClassifyResponse{}, err
	}
	return classify(rec.Area, req), nil
}

func classify(area coverage.CoverageArea, req models.ClassifyRequest) models.ClassifyResponse {
	return models.ClassifyResponse{
		AreaID:  area.ID,
		Point:   req.Point,
		Signal:  req.Signal,
		Inside:  area.Contains(req.Point),
		Quality: area.SignalQuality(req.Point, req.Signal),
	}
}

// AreaReport samples the area's floor over a width x height canvas and counts
// the cells inside the area per quality band. Without active monitors every
// cell is reported as no coverage.
func (s *CoverageService) AreaReport(ctx context.Context, areaID string, q models.AreaReportQuery) (coverage.AreaCoverage, error) {
	rec, err := s.settings.GetArea(ctx, areaID)
	if err != nil {
		return coverage.AreaCoverage{}, err
	}
	settings, err := s.requestSettings(ctx, rec.LocationID, q.Resolution, "")
	if err != nil {
		return coverage.AreaCoverage{}, err
	}
	canvas := coverage.CanvasSize{Width: q.Width, Height: q.Height}
	if !positive(canvas.Width) || !positive(canvas.Height) {
		return coverage.AreaCoverage{}, validationError("width and height must be positive")
	}

	transmitters, _, err := s.monitors.Transmitters(ctx, rec.LocationID, rec.FloorID)
	if err != nil {
		return coverage.AreaCoverage{}, err
	}

	var grid coverage.Grid
	active := coverage.ActiveTransmitters(transmitters)
	if len(active) > 0 {
		grid, _, err = s.renderGrid(ctx, active, canvas, coverage.ViewTransform{}, settings)
	} else {
		bounds := coverage.WorldBounds(canvas, coverage.ViewTransform{})
		if err = checkGridSize(bounds, settings.EffectiveResolution()); err == nil {
			grid, err = coverage.InterpolateGrid(nil, bounds, settings.EffectiveResolution(), settings.GridParams())
			err = wrapValidation(err)
		}
	}
	if err != nil {
		return coverage.AreaCoverage{}, err
	}

	return coverage.ReportArea(rec.Area, grid), nil
}

// requestSettings applies per-request overrides to the stored settings
func (s *CoverageService) requestSettings(ctx context.Context, locationID string, resolution float64, method string) (coverage.Settings, error) {
	settings, err := s.settings.EngineSettings(ctx, locationID)
	if err != nil {
		return coverage.Settings{}, err
	}
	if resolution != 0 {
		if !positive(resolution) {
			return coverage.Settings{}, wrapValidation(coverage.ErrInvalidResolution)
		}
		settings.Resolution = resolution
	}
	if method != "" {
		settings.Interpolation = coverage.ParseWeighting(method).Method()
	}
	settings.Workers = s.workers
	return settings, nil
}

func checkGridSize(bounds spatial.Bounds, resolution float64) error {
	cells := math.Ceil(bounds.Width()/resolution) * math.Ceil(bounds.Height()/resolution)
	if math.IsNaN(cells) || cells > MaxGridCells {
		return validationError("grid of %.0f cells exceeds the limit of %d", cells, MaxGridCells)
	}
	return nil
}

func monitorSummaries(monitors []models.Monitor) []models.MonitorSummary {
	out := []models.MonitorSummary{}
	for _, m := range monitors {
		if !m.Transmitter().Contributes() {
			continue
		}
		out = append(out, models.MonitorSummary{
			ID:            m.ID,
			Position:      m.Position(),
			LastKnownRSSI: m.LastKnownRSSIDBm,
		})
	}
	return out
}

func finitePoint(p spatial.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
