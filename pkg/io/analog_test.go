package io

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gobot.io/x/gobot/drivers/i2c"

	"github.com/Seann-Moser/joyarm/pkg/joystick"
)

// fakeBus answers ADS1115 conversion reads with a fixed register value.
type fakeBus struct {
	conversion uint16
	err        error
	writes     [][]byte
}

func (f *fakeBus) GetConnection(address, bus int) (i2c.Connection, error) { return f, nil }
func (f *fakeBus) GetDefaultBus() int { return 1 }

func (f *fakeBus) Read(b []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	b[0] = byte(f.conversion >> 8)
	b[1] = byte(f.conversion)
	return 2, nil
}

func (f *fakeBus) Write(b []byte) (int, error) {
	f.writes = append(f.writes, append([]byte(nil), b...))
	return len(b), nil
}

func (f *fakeBus) Close() error { return nil }
func (f *fakeBus) ReadByte() (byte, error) { return 0, nil }
func (f *fakeBus) ReadByteData(reg uint8) (uint8, error) { return 0, nil }
func (f *fakeBus) ReadWordData(reg uint8) (uint16, error) { return 0, nil }
func (f *fakeBus) WriteByte(val byte) error { return nil }
func (f *fakeBus) WriteByteData(reg uint8, val uint8) error { return nil }
func (f *fakeBus) WriteWordData(reg uint8, val uint16) error { return nil }
func (f *fakeBus) WriteBlockData(reg uint8, b []byte) error { return nil }

func newTestADC(t *testing.T, bus *fakeBus) *i2c.ADS1x15Driver {
	t.Helper()
	adc := i2c.NewADS1115Driver(bus)
	require.NoError(t, adc.Start())
	return adc
}

func TestAnalogChannelRead(t *testing.T) {
	tests := []struct {
		name       string
		conversion uint16
		fullScale  float64
		want       int
	}{
		{name: "zero", conversion: 0x0000, fullScale: 4.096, want: 0},
		{name: "top of gain range", conversion: 0x7fff, fullScale: 4.096, want: 1022},
		{name: "half of gain range", conversion: 0x4000, fullScale: 4.096, want: 511},
		{name: "negative clamps", conversion: 0x8000, fullScale: 4.096, want: 0},
		{name: "half of supply", conversion: 13200, fullScale: 3.3, want: 511},
		{name: "above supply clamps", conversion: 0x7fff, fullScale: 3.3, want: 1023},
		{name: "default full scale", conversion: 13200, fullScale: 0, want: 511},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{conversion: tt.conversion}
			v, err := newAnalogChannel(newTestADC(t, bus), 2, tt.fullScale).Read()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			require.NotEmpty(t, bus.writes)
			// single-shot config with the channel 2 single-ended mux
			assert.Equal(t, byte(0x06), (bus.writes[0][1]>>4)&0x07)
		})
	}
}

func TestAnalogChannelError(t *testing.T) {
	boom := errors.New("i2c timeout")
	_, err := newAnalogChannel(newTestADC(t, &fakeBus{err: boom}), 1, 0).Read()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "channel 1")

	_, err = newAnalogChannel(newTestADC(t, &fakeBus{}), 7, 0).Read()
	assert.Error(t, err)
}

type stuckButton bool

func (b stuckButton) Level() (bool, error) { return bool(b), nil }

func TestAnalogChannelCentersJoystick(t *testing.T) {
	ch := newAnalogChannel(newTestADC(t, &fakeBus{conversion: 13200}), 0, DefaultADCVolts)
	r, err := joystick.New(ch, ch, stuckButton(true))
	require.NoError(t, err)
	require.NoError(t, r.CalibrateCenter())
	assert.Equal(t, 511, r.Calibration(joystick.X).RawMid)

	v, err := r.ReadCalibrated(joystick.X)
	require.NoError(t, err)
	assert.Equal(t, 512, v)

	d, err := r.ReadScaled(joystick.Y, -3, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 0, d)
}
