package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Seann-Moser/joyarm/pkg/io"
	"github.com/Seann-Moser/joyarm/pkg/joystick"
	"github.com/Seann-Moser/joyarm/pkg/motor"
)

// StatusLED drives a digital output line.
type StatusLED interface {
	SetPinState(line int, state int) error
}

// Controller steers two servos from the joystick. Polls, calibration and
// HTTP handlers all go through mu because the joystick reader is not
// safe for concurrent use.
type Controller struct {
	Joystick      *joystick.Reader
	MotorX        *motor.Motor
	MotorY        *motor.Motor
	Configuration Configuration

	led      StatusLED
	ledState int
	hw       *io.IO
	logger   *slog.Logger
	mu       sync.Mutex
}

// Open brings up the hardware described by config and builds a Controller on it.
func Open(config Configuration, logger *slog.Logger, debug bool) (*Controller, error) {
	hw, err := io.New(config.Hardware, logger)
	if err != nil {
		return nil, err
	}
	button, err := hw.WatchButton(config.Joystick.ButtonLine, config.Joystick.ActiveLow)
	if err != nil {
		hw.Close()
		return nil, err
	}
	js, err := joystick.New(
		hw.AnalogChannel(config.Joystick.XChannel),
		hw.AnalogChannel(config.Joystick.YChannel),
		button,
		joystick.WithAxisCalibration(joystick.X, config.Joystick.CalibrationX),
		joystick.WithAxisCalibration(joystick.Y, config.Joystick.CalibrationY),
		joystick.WithActiveLow(config.Joystick.ActiveLow),
		joystick.WithDebug(debug),
		joystick.WithLogger(logger),
	)
	if err != nil {
		hw.Close()
		return nil, err
	}
	c, err := New(config, js, hw.PWM(), hw, logger)
	if err != nil {
		hw.Close()
		return nil, err
	}
	c.hw = hw
	return c, nil
}

// New attaches both motors to pwm and returns a Controller. led may be nil.
func New(config Configuration, js *joystick.Reader, pwm motor.PWMDriver, led StatusLED, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		Joystick:      js,
		MotorX:        newMotor(config.MotorX),
		MotorY:        newMotor(config.MotorY),
		Configuration: config,
		led:           led,
		logger:        logger,
	}
	if err := c.MotorX.Attach(pwm, config.MotorX.Channel); err != nil {
		return nil, err
	}
	if err := c.MotorY.Attach(pwm, config.MotorY.Channel); err != nil {
		return nil, err
	}
	if config.Joystick.CalibrateOnStart {
		if err := c.Calibrate(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newMotor(mc MotorConfig) *motor.Motor {
	m := motor.New()
	m.SetMinPosition(mc.Min)
	m.SetMaxPosition(mc.Max)
	m.SetCenterPosition(mc.Center)
	return m
}

// Calibrate captures the joystick's resting position as its center.
func (c *Controller) Calibrate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Joystick.CalibrateCenter()
}

// Step runs one poll. A button release sends both motors back to center;
// otherwise each axis deflection moves its motor by up to MaxStep degrees.
func (c *Controller) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	released, err := c.Joystick.Button()
	if err != nil {
		return err
	}
	if released {
		return c.recenter()
	}

	dx, err := c.axisDelta(joystick.X, c.Configuration.Joystick.InvertX)
	if err != nil {
		return err
	}
	dy, err := c.axisDelta(joystick.Y, c.Configuration.Joystick.InvertY)
	if err != nil {
		return err
	}
	if dx != 0 {
		if err := c.MotorX.MoveInc(dx); err != nil {
			return err
		}
	}
	if dy != 0 {
		if err := c.MotorY.MoveInc(dy); err != nil {
			return err
		}
	}
	return nil
}

// axisDelta maps the deflection from the logical center to [-MaxStep, MaxStep],
// scaling each side of the center over its own half of the range.
func (c *Controller) axisDelta(axis joystick.Axis, invert bool) (int, error) {
	v, err := c.Joystick.ReadCalibrated(axis)
	if err != nil {
		return 0, err
	}
	cal := c.Joystick.Calibration(axis)
	step := c.Configuration.Joystick.MaxStep
	var d int
	if v >= cal.Mid {
		d, err = joystick.MapRange(v-cal.Mid, 0, cal.Max-cal.Mid, 0, step)
	} else {
		d, err = joystick.MapRange(cal.Mid-v, 0, cal.Mid-cal.Min, 0, step)
		d = -d
	}
	if err != nil {
		return 0, fmt.Errorf("%s axis: %w", axis, err)
	}
	if invert {
		d = -d
	}
	return d, nil
}

func (c *Controller) recenter() error {
	if err := c.MotorX.SetPosition(c.MotorX.CenterPosition()); err != nil {
		return err
	}
	if err := c.MotorY.SetPosition(c.MotorY.CenterPosition()); err != nil {
		return err
	}
	c.logger.Info("button released, motors centered", "x", c.MotorX, "y", c.MotorY)
	if c.led == nil || c.Configuration.StatusLED < 0 {
		return nil
	}
	c.ledState ^= 1
	if err := c.led.SetPinState(c.Configuration.StatusLED, c.ledState); err != nil {
		return fmt.Errorf("failed to toggle status led: %w", err)
	}
	return nil
}

// Run polls until ctx is done. Failed polls are logged and skipped.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.Configuration.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Step(); err != nil {
				c.logger.Warn("poll failed", "error", err)
			}
		}
	}
}

// State is a snapshot of the arm and the joystick calibration.
type State struct {
	MotorX       int                  `json:"motorX"`
	MotorY       int                  `json:"motorY"`
	CalibrationX joystick.Calibration `json:"calibrationX"`
	CalibrationY joystick.Calibration `json:"calibrationY"`
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		MotorX:       c.MotorX.Position(),
		MotorY:       c.MotorY.Position(),
		CalibrationX: c.Joystick.Calibration(joystick.X),
		CalibrationY: c.Joystick.Calibration(joystick.Y),
	}
}

// Close returns the motors to center and releases the hardware.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.MotorX.SetPosition(c.MotorX.CenterPosition())
	_ = c.MotorY.SetPosition(c.MotorY.CenterPosition())
	if c.hw != nil {
		c.hw.Close()
	}
}
