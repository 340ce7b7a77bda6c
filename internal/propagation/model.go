package propagation

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Method names a path-loss model
type Method string

const (
	MethodITUIndoor   Method = "itu-indoor"
	MethodLogDistance Method = "log-distance"
	MethodMultiWall   Method = "multi-wall"
)

const (
	// minDistance floors distances before any logarithm is taken
	minDistance = 1.0

	referenceDistance = 1.0
	referenceLossDB   = 40.0
	shadowingSigmaDB  = 4.0
)

// Model computes path loss in dB. The variants are ITUIndoor, LogDistance
// and MultiWall; the interface is sealed so a type switch over them is
// exhaustive.
type Model interface {
	Method() Method
	PathLoss(frequencyMHz, distance float64, env Environment) float64
	model()
}

// ITUIndoor is the ITU-R P.1238 style indoor model
type ITUIndoor struct{}

// LogDistance is the log-distance model with an optional log-normal
// shadow-fading term. Shadowing is off unless Shadow is set.
type LogDistance struct {
	// Shadow draws a zero-mean fading term in dB. nil means deterministic.
	Shadow func() float64
}

// MultiWall is free-space loss plus per-obstacle attenuation
type MultiWall struct{}

func (ITUIndoor) model()   {}
func (LogDistance) model() {}
func (MultiWall) model()   {}

func (ITUIndoor) Method() Method   { return MethodITUIndoor }
func (LogDistance) Method() Method { return MethodLogDistance }
func (MultiWall) Method() Method   { return MethodMultiWall }

// PathLoss computes L = 20log10(f) - 28 + 10n·log10(d) + floors·Lf + Lw
func (ITUIndoor) PathLoss(frequencyMHz, distance float64, env Environment) float64 {
	d := math.Max(distance, minDistance)
	n := env.Exponent()

	return 20*math.Log10(frequencyMHz) - 28 +
		10*n*math.Log10(d) +
		float64(env.FloorsCrossed)*env.FloorLoss() +
		env.WallLoss()
}

// PathLoss computes L = PL(d0) + 10n·log10(d/d0) [+ X_sigma].
// The frequency does not enter the formula; PL(d0) is fixed.
func (m LogDistance) PathLoss(_ float64, distance float64, env Environment) float64 {
	d := math.Max(distance, minDistance)
	n := env.Exponent()

	loss := referenceLossDB + 10*n*math.Log10(d/referenceDistance)
	if m.Shadow != nil {
		loss += m.Shadow()
	}
	return loss
}

// PathLoss computes FSPL(f, d) plus the obstacle attenuation sum
func (MultiWall) PathLoss(frequencyMHz, distance float64, env Environment) float64 {
	return FreeSpacePathLoss(frequencyMHz, distance) + env.Obstacles.Attenuation()
}

// FreeSpacePathLoss returns 20log10(d) + 20log10(f) - 27.55 with d in meters
// and f in MHz
func FreeSpacePathLoss(frequencyMHz, distance float64) float64 {
	d := math.Max(distance, minDistance)
	return 20*math.Log10(d) + 20*math.Log10(frequencyMHz) - 27.55
}

// NewLogDistance builds the log-distance model; with shadowing enabled each
// evaluation adds a Gaussian term with a 4 dB standard deviation.
func NewLogDistance(shadowing bool) LogDistance {
	if !shadowing {
		return LogDistance{}
	}
	normal := distuv.Normal{Mu: 0, Sigma: shadowingSigmaDB}
	return LogDistance{Shadow: normal.Rand}
}

// ParseMethod maps a method name to its Method. Unknown or empty names fall
// back to ITU indoor.
func ParseMethod(name string) Method {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case MethodLogDistance:
		return MethodLogDistance
	case MethodMultiWall:
		return MethodMultiWall
	default:
		return MethodITUIndoor
	}
}

// ForMethod returns the model for m. shadowing only affects log-distance.
func ForMethod(m Method, shadowing bool) Model {
	switch m {
	case MethodLogDistance:
		return NewLogDistance(shadowing)
	case MethodMultiWall:
		return MultiWall{}
	default:
		return ITUIndoor{}
	}
}

// ByName is ParseMethod followed by ForMethod
func ByName(name string, shadowing bool) Model {
	return ForMethod(ParseMethod(name), shadowing)
}
