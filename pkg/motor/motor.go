// Package motor keeps a hobby servo inside a configurable angular window and
// forwards every position change to a PWM driver channel.
package motor

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	MinPulseWidth = 480  // µs at 0 degrees
	MaxPulseWidth = 2400 // µs at 180 degrees
	Frequency     = 50   // Hz
	Resolution    = 4096 // ticks per PWM period
)

// ErrNotAttached is returned by moves on a motor with no PWM driver.
var ErrNotAttached = errors.New("motor: not attached")

// PWMDriver drives one channel of a multi-channel PWM chip such as the PCA9685.
type PWMDriver interface {
	SetPWM(channel int, on, off uint16) error
}

// Motor is a single servo. Positions are in degrees.
type Motor struct {
	driver  PWMDriver
	channel int

	minPosition    int
	maxPosition    int
	centerPosition int
	position       int
}

// New returns a detached motor with a 0-180 degree window centered at 90.
func New() *Motor {
	return &Motor{
		minPosition:    0,
		maxPosition:    180,
		centerPosition: 90,
		position:       90,
	}
}

// Attach connects the motor to a driver channel and moves it to its center.
func (m *Motor) Attach(driver PWMDriver, channel int) error {
	m.driver = driver
	m.channel = channel
	m.position = m.centerPosition
	return m.write()
}

// MoveInc moves the motor relative to its current position.
func (m *Motor) MoveInc(delta int) error {
	m.position = m.clamp(m.position + delta)
	return m.write()
}

// SetPosition moves the motor to pos, clamped to the window.
func (m *Motor) SetPosition(pos int) error {
	m.position = m.clamp(pos)
	return m.write()
}

// Position returns the current position, pulling it back inside the window
// first if the limits moved since it was set.
func (m *Motor) Position() int {
	m.position = m.clamp(m.position)
	return m.position
}

func (m *Motor) SetCenterPosition(pos int) {
	m.centerPosition = m.clamp(pos)
}

func (m *Motor) CenterPosition() int {
	return m.centerPosition
}

// SetMinPosition is ignored when pos is above the current maximum.
func (m *Motor) SetMinPosition(pos int) {
	if pos > m.maxPosition {
		return
	}
	m.minPosition = pos
}

func (m *Motor) MinPosition() int {
	return m.minPosition
}

// SetMaxPosition is ignored when pos is below the current minimum.
func (m *Motor) SetMaxPosition(pos int) {
	if pos < m.minPosition {
		return
	}
	m.maxPosition = pos
}

func (m *Motor) MaxPosition() int {
	return m.maxPosition
}

// ID returns the PWM channel of the motor.
func (m *Motor) ID() int {
	return m.channel
}

func (m *Motor) String() string {
	return fmt.Sprintf("motor[%d]:%d", m.channel, m.position)
}

func (m *Motor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("channel", m.channel),
		slog.Int("position", m.position),
	)
}

func (m *Motor) clamp(pos int) int {
	if pos > m.maxPosition {
		return m.maxPosition
	}
	if pos < m.minPosition {
		return m.minPosition
	}
	return pos
}

func (m *Motor) write() error {
	if m.driver == nil {
		return ErrNotAttached
	}
	if err := m.driver.SetPWM(m.channel, 0, PulseTicks(m.position)); err != nil {
		return fmt.Errorf("failed to set pwm on channel %d: %w", m.channel, err)
	}
	return nil
}

// PulseTicks converts an angle to the PCA9685 off-tick for a 50 Hz period.
// Angles whose pulse falls outside the period are clamped to the first or
// last tick.
func PulseTicks(angle int) uint16 {
	us := int64(MinPulseWidth) + int64(angle)*(MaxPulseWidth-MinPulseWidth)/180
	if us < 0 {
		return 0
	}
	ticks := us * Frequency * Resolution / 1000000
	if ticks >= Resolution {
		return Resolution - 1
	}
	return uint16(ticks)
}
