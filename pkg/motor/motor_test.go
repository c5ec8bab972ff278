package motor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seann-Moser/joyarm/pkg/motor"
)

type pwmCall struct {
	channel int
	on, off uint16
}

type fakePWM struct {
	calls []pwmCall
	err   error
}

func (f *fakePWM) SetPWM(channel int, on, off uint16) error {
	f.calls = append(f.calls, pwmCall{channel, on, off})
	return f.err
}

func (f *fakePWM) last() pwmCall { return f.calls[len(f.calls)-1] }

func TestAttachCenters(t *testing.T) {
	pwm := &fakePWM{}
	m := motor.New()
	m.SetCenterPosition(45)
	require.NoError(t, m.Attach(pwm, 3))

	assert.Equal(t, 45, m.Position())
	assert.Equal(t, 3, m.ID())
	assert.Equal(t, pwmCall{3, 0, motor.PulseTicks(45)}, pwm.last())
}

func TestMoveClamps(t *testing.T) {
	tests := []struct {
		name  string
		moves []int
		want  int
	}{
		{name: "forward", moves: []int{10}, want: 100},
		{name: "backward", moves: []int{-30, -30}, want: 30},
		{name: "clamped high", moves: []int{100}, want: 180},
		{name: "clamped low", moves: []int{-200}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pwm := &fakePWM{}
			m := motor.New()
			require.NoError(t, m.Attach(pwm, 0))
			for _, d := range tt.moves {
				require.NoError(t, m.MoveInc(d))
			}
			assert.Equal(t, tt.want, m.Position())
			assert.Equal(t, motor.PulseTicks(tt.want), pwm.last().off)
		})
	}
}

func TestLimits(t *testing.T) {
	pwm := &fakePWM{}
	m := motor.New()
	require.NoError(t, m.Attach(pwm, 1))

	m.SetMinPosition(200)
	assert.Equal(t, 0, m.MinPosition(), "min above max is ignored")
	m.SetMaxPosition(-1)
	assert.Equal(t, 180, m.MaxPosition(), "max below min is ignored")

	m.SetMinPosition(20)
	m.SetMaxPosition(60)
	require.NoError(t, m.SetPosition(170))
	assert.Equal(t, 60, m.Position())
	require.NoError(t, m.SetPosition(5))
	assert.Equal(t, 20, m.Position())

	m.SetCenterPosition(90)
	assert.Equal(t, 60, m.CenterPosition())

	require.NoError(t, m.SetPosition(50))
	m.SetMaxPosition(40)
	assert.Equal(t, 40, m.Position(), "position follows a tightened window")
}

func TestPulseTicks(t *testing.T) {
	assert.Equal(t, uint16(98), motor.PulseTicks(0))
	assert.Equal(t, uint16(294), motor.PulseTicks(90))
	assert.Equal(t, uint16(491), motor.PulseTicks(180))

	assert.Equal(t, uint16(0), motor.PulseTicks(-45), "pulse below zero")
	assert.Equal(t, uint16(0), motor.PulseTicks(-1000))
	assert.Equal(t, uint16(motor.Resolution-1), motor.PulseTicks(1000000), "pulse longer than the period")
}

func TestNegativeWindowNeverWraps(t *testing.T) {
	pwm := &fakePWM{}
	m := motor.New()
	m.SetMinPosition(-90)
	require.NoError(t, m.Attach(pwm, 0))

	require.NoError(t, m.SetPosition(-90))
	assert.Equal(t, -90, m.Position())
	assert.Equal(t, uint16(0), pwm.last().off)
}

func TestWriteErrors(t *testing.T) {
	m := motor.New()
	assert.ErrorIs(t, m.SetPosition(10), motor.ErrNotAttached)

	boom := errors.New("i2c nack")
	err := m.Attach(&fakePWM{err: boom}, 2)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "channel 2")
}

func TestString(t *testing.T) {
	m := motor.New()
	require.NoError(t, m.Attach(&fakePWM{}, 4))
	assert.Equal(t, "motor[4]:90", m.String())
}
