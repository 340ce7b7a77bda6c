package coverage

import (
	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
)

const (
	DefaultResolution  = 10.0
	DefaultMaxDistance = 300.0
)

// Settings is the per-request coverage configuration. It is built by the
// caller and passed into every engine call; the engine never reads shared
// configuration on its own.
type Settings struct {
	Model         propagation.Method      `json:"model"`
	Interpolation WeightingMethod         `json:"interpolation"`
	Environment   propagation.Environment `json:"environment"`
	Resolution    float64                 `json:"resolution"`
	MaxDistance   float64                 `json:"maxDistance"`
	Shadowing     bool                    `json:"shadowing"`
	Thresholds    Thresholds              `json:"thresholds"`
	Workers       int                     `json:"-"`
}

// DefaultSettings returns ITU indoor, inverse-distance weighting in an office
func DefaultSettings() Settings {
	return Settings{
		Model:         propagation.MethodITUIndoor,
		Interpolation: WeightInverseDistance,
		Environment:   propagation.DefaultEnvironment(),
		Resolution:    DefaultResolution,
		MaxDistance:   DefaultMaxDistance,
		Thresholds:    DefaultThresholds(),
	}
}

// PropagationModel resolves the configured path-loss model
func (s Settings) PropagationModel() propagation.Model {
	return propagation.ForMethod(propagation.ParseMethod(string(s.Model)), s.Shadowing)
}

// GridParams converts the settings into interpolator parameters
func (s Settings) GridParams() GridParams {
	maxDistance := s.MaxDistance
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return GridParams{
		Weighting:   ParseWeighting(string(s.Interpolation)),
		MaxDistance: maxDistance,
		Model:       s.PropagationModel(),
		Environment: s.Environment,
		Workers:     s.Workers,
	}
}

// EffectiveResolution returns Resolution or the default when unset
func (s Settings) EffectiveResolution() float64 {
	if s.Resolution > 0 {
		return s.Resolution
	}
	return DefaultResolution
}
