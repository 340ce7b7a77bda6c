package coverage

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

// Estimate returns the received signal in dBm at p from a single transmitter.
//
// The value is txPower - pathLoss with no clamping; very low values mean
// "undetectable". A transmitter without a position yields NoCoverageDBm.
func Estimate(t Transmitter, p spatial.Point, model propagation.Model, env propagation.Environment) float64 {
	if t.Position == nil {
		return NoCoverageDBm
	}
	return estimateAt(t, spatial.Distance(*t.Position, p), model, env)
}

func estimateAt(t Transmitter, distance float64, model propagation.Model, env propagation.Environment) float64 {
	return t.TxPower() - model.PathLoss(t.Frequency(), distance, env)
}

// TotalMode selects how the aggregate power of a point query is reported
type TotalMode string

const (
	// TotalLinear keeps the historical output: Σ 10^(dBm/10) left in linear units
	TotalLinear TotalMode = "linear"
	// TotalDBm additionally converts the linear sum back to dBm
	TotalDBm TotalMode = "dbm"
)

// ParseTotalMode defaults to TotalLinear
func ParseTotalMode(s string) TotalMode {
	if TotalMode(strings.ToLower(strings.TrimSpace(s))) == TotalDBm {
		return TotalDBm
	}
	return TotalLinear
}

// SignalContribution is one transmitter's share of a point query
type SignalContribution struct {
	TransmitterID string  `json:"transmitterId"`
	SignalDBm     float64 `json:"signalDbm"`
	Distance      float64 `json:"distance"`
}

// Strongest is the best single estimate of a point query
type Strongest struct {
	TransmitterID string  `json:"transmitterId,omitempty"`
	SignalDBm     float64 `json:"signalDbm"`
}

// PointResult is the outcome of a multi-transmitter point query
type PointResult struct {
	Point     spatial.Point        `json:"point"`
	Signals   []SignalContribution `json:"signals"`
	Strongest Strongest            `json:"strongest"`
	// TotalSignal is the sum of linear powers (mW), never converted back to
	// dBm. Existing consumers read it this way.
	TotalSignal float64 `json:"totalSignal"`
	// TotalSignalDBm is 10·log10(TotalSignal), only set in TotalDBm mode
	TotalSignalDBm *float64 `json:"totalSignalDbm,omitempty"`
}

// QueryPoint estimates the signal at p from every contributing transmitter
func QueryPoint(transmitters []Transmitter, p spatial.Point, model propagation.Model, env propagation.Environment, mode TotalMode) PointResult {
	result := PointResult{
		Point:     p,
		Signals:   []SignalContribution{},
		Strongest: Strongest{SignalDBm: NoCoverageDBm},
	}

	var linear []float64
	found := false
	for _, t := range transmitters {
		if !t.Contributes() {
			continue
		}

		distance := spatial.Distance(*t.Position, p)
		signal := estimateAt(t, distance, model, env)

		result.Signals = append(result.Signals, SignalContribution{
			TransmitterID: t.ID,
			SignalDBm:     signal,
			Distance:      distance,
		})
		if !found || signal > result.Strongest.SignalDBm {
			result.Strongest = Strongest{TransmitterID: t.ID, SignalDBm: signal}
			found = true
		}
		linear = append(linear, DBmToMilliwatts(signal))
	}

	result.TotalSignal = floats.Sum(linear)
	if mode == TotalDBm {
		total := MilliwattsToDBm(result.TotalSignal)
		result.TotalSignalDBm = &total
	}
	return result
}

// DBmToMilliwatts converts a dBm value to linear power
func DBmToMilliwatts(dbm float64) float64 {
	return math.Pow(10, dbm/10)
}

// MilliwattsToDBm converts linear power back to dBm; zero power maps to
// NoCoverageDBm.
func MilliwattsToDBm(mw float64) float64 {
	if mw <= 0 {
		return NoCoverageDBm
	}
	return 10 * math.Log10(mw)
}
