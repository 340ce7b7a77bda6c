package coverage

import (
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

// Status is the monitoring state of a transmitter
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const (
	// DefaultTxPowerDBm is used when neither calibration nor an RSSI reading exists
	DefaultTxPowerDBm = -30.0
	// rssiTxPowerOffsetDB turns a last known RSSI into a rough transmit power
	rssiTxPowerOffsetDB = 30.0
	// DefaultFrequencyMHz is 2.4 GHz channel 6
	DefaultFrequencyMHz = 2437.0
	// NoCoverageDBm marks a cell or point without any contributing transmitter
	NoCoverageDBm = -100.0
)

// Transmitter is a fixed access point placed on a floor plan
type Transmitter struct {
	ID                   string         `json:"id"`
	Position             *spatial.Point `json:"position,omitempty"`
	Status               Status         `json:"status"`
	FrequencyMHz         float64        `json:"frequencyMHz"`
	CalibratedTxPowerDBm *float64       `json:"calibratedTxPowerDbm,omitempty"`
	LastKnownRSSIDBm     *float64       `json:"lastKnownRssiDbm,omitempty"`
}

// Contributes reports whether the transmitter takes part in any calculation:
// it must be active and placed.
func (t Transmitter) Contributes() bool {
	return t.Status == StatusActive && t.Position != nil
}

// TxPower resolves transmit power: explicit calibration, then
// last known RSSI + 30, then the -30 dBm default.
func (t Transmitter) TxPower() float64 {
	switch {
	case t.CalibratedTxPowerDBm != nil:
		return *t.CalibratedTxPowerDBm
	case t.LastKnownRSSIDBm != nil:
		return *t.LastKnownRSSIDBm + rssiTxPowerOffsetDB
	default:
		return DefaultTxPowerDBm
	}
}

// Frequency returns the operating frequency, defaulting unset values to 2437 MHz
func (t Transmitter) Frequency() float64 {
	if t.FrequencyMHz <= 0 {
		return DefaultFrequencyMHz
	}
	return t.FrequencyMHz
}

// ActiveTransmitters filters to transmitters that contribute to calculations
func ActiveTransmitters(transmitters []Transmitter) []Transmitter {
	active := make([]Transmitter, 0, len(transmitters))
	for _, t := range transmitters {
		if t.Contributes() {
			active = append(active, t)
		}
	}
	return active
}
