package joystick

import (
	"errors"
	"fmt"
)

// ErrDegenerateRange is returned when a linear map is asked to scale from a
// domain whose bounds are equal.
var ErrDegenerateRange = errors.New("joystick: degenerate input range")

// Calibration holds the logical range and the calibrated raw center of one axis.
type Calibration struct {
	// Logical output bounds.
	Min int `yaml:"min" json:"min"`
	Mid int `yaml:"mid" json:"mid"`
	Max int `yaml:"max" json:"max"`

	// Raw sample bounds. RawMin and RawMax are fixed at construction;
	// RawMid moves with CalibrateCenter.
	RawMin int `yaml:"rawMin" json:"rawMin"`
	RawMid int `yaml:"rawMid" json:"rawMid"`
	RawMax int `yaml:"rawMax" json:"rawMax"`

	// Calibration samples are only accepted strictly inside (MidMin, MidMax).
	MidMin int `yaml:"midMin" json:"midMin"`
	MidMax int `yaml:"midMax" json:"midMax"`

	Deadband int `yaml:"deadband" json:"deadband"`
}

// DefaultCalibration returns the calibration of an uncalibrated 10-bit axis.
func DefaultCalibration() Calibration {
	return Calibration{
		Min:      0,
		Mid:      512,
		Max:      1023,
		RawMin:   0,
		RawMid:   512,
		RawMax:   1023,
		MidMin:   256,
		MidMax:   768,
		Deadband: 100,
	}
}

// Calibrate returns c with sample adopted as the raw center, or c unchanged
// when the sample is outside the calibration window. Samples landing on RawMin
// or RawMax are rejected as well so neither half of the mapping can collapse.
func (c Calibration) Calibrate(sample int) Calibration {
	if sample <= c.MidMin || sample >= c.MidMax {
		return c
	}
	if sample <= c.RawMin || sample >= c.RawMax {
		return c
	}
	c.RawMid = sample
	return c
}

// Position converts a raw sample to the logical range [Min, Max].
func (c Calibration) Position(sample int) (int, error) {
	if abs(sample-c.RawMid) <= c.Deadband {
		return c.Mid, nil
	}
	if sample < c.RawMid {
		v, err := MapRange(sample, c.RawMin, c.RawMid, c.Min, c.Mid)
		if err != nil {
			return 0, fmt.Errorf("lower half: %w", err)
		}
		return v, nil
	}
	v, err := MapRange(sample, c.RawMid, c.RawMax, c.Mid, c.Max)
	if err != nil {
		return 0, fmt.Errorf("upper half: %w", err)
	}
	return v, nil
}

// MapRange linearly maps v from [inLo, inHi] to [outLo, outHi] using integer
// arithmetic that truncates toward zero. Inputs outside the domain are
// extrapolated, not clamped.
func MapRange(v, inLo, inHi, outLo, outHi int) (int, error) {
	if inHi == inLo {
		return 0, ErrDegenerateRange
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
