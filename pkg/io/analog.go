package io

import (
	"fmt"
)

// AnalogMax is the top of the 10-bit range joystick samples are reported in.
const AnalogMax = 1023

// DefaultADCVolts is the joystick supply voltage on a Raspberry Pi 3V3 rail.
const DefaultADCVolts = 3.3

// analogSource is the part of gobot's ADS1x15Driver an AnalogChannel needs.
type analogSource interface {
	ReadWithDefaults(channel int) (float64, error)
}

// AnalogChannel reads one single-ended ADS1115 input in volts and maps
// [0, fullScale] onto [0, AnalogMax].
type AnalogChannel struct {
	src       analogSource
	channel   int
	fullScale float64
}

// AnalogChannel returns the ADS1115 input ch.
func (io *IO) AnalogChannel(ch int) *AnalogChannel {
	return newAnalogChannel(io.adc, ch, io.cfg.ADCVolts)
}

func newAnalogChannel(src analogSource, ch int, fullScale float64) *AnalogChannel {
	if fullScale <= 0 {
		fullScale = DefaultADCVolts
	}
	return &AnalogChannel{src: src, channel: ch, fullScale: fullScale}
}

func (a *AnalogChannel) Read() (int, error) {
	volts, err := a.src.ReadWithDefaults(a.channel)
	if err != nil {
		return 0, fmt.Errorf("failed to read adc channel %d: %w", a.channel, err)
	}
	v := int(volts / a.fullScale * AnalogMax)
	if v < 0 {
		return 0, nil
	}
	if v > AnalogMax {
		return AnalogMax, nil
	}
	return v, nil
}
