package joystick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRange(t *testing.T) {
	tests := []struct {
		name                  string
		v, inLo, inHi, lo, hi int
		want                  int
	}{
		{name: "identity", v: 300, inLo: 0, inHi: 1023, lo: 0, hi: 1023, want: 300},
		{name: "truncates", v: 512, inLo: 0, inHi: 1023, lo: 0, hi: 100, want: 50},
		{name: "truncates toward zero", v: 512, inLo: 0, inHi: 1023, lo: 100, hi: 0, want: 50},
		{name: "extrapolates", v: 200, inLo: 0, inHi: 100, lo: 0, hi: 10, want: 20},
		{name: "servo pulse", v: 90, inLo: 0, inHi: 180, lo: 480, hi: 2400, want: 1440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapRange(tt.v, tt.inLo, tt.inHi, tt.lo, tt.hi)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := MapRange(5, 3, 3, 0, 10)
	assert.ErrorIs(t, err, ErrDegenerateRange)
}

func TestCalibrateRejectsCollapsingSamples(t *testing.T) {
	c := DefaultCalibration()
	c.RawMin = 300
	c.RawMax = 700

	assert.Equal(t, c, c.Calibrate(300))
	assert.Equal(t, c, c.Calibrate(700))
	assert.Equal(t, 301, c.Calibrate(301).RawMid)
}

func TestCalibrateIsPure(t *testing.T) {
	c := DefaultCalibration()
	next := c.Calibrate(400)
	assert.Equal(t, 512, c.RawMid)
	assert.Equal(t, 400, next.RawMid)
}

func TestPositionDegenerateCalibration(t *testing.T) {
	c := DefaultCalibration()
	c.RawMid = c.RawMax
	c.Deadband = 0

	_, err := c.Position(c.RawMax + 10)
	assert.ErrorIs(t, err, ErrDegenerateRange)

	v, err := c.Position(0)
	require.NoError(t, err)
	assert.Equal(t, c.Min, v)
}
