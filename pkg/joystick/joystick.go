// Package joystick reads a two-axis analog joystick with a push button.
//
// Raw ADC samples are converted to a logical range with a calibrated center
// and a deadband around it, so a stick at rest reports exactly the logical
// midpoint even when its resting sample drifts.
package joystick

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrUnknownAxis is returned for an Axis value other than X or Y.
var ErrUnknownAxis = errors.New("joystick: unknown axis")

// Axis selects one of the two stick inputs.
type Axis uint8

const (
	X Axis = iota
	Y
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// AnalogReader returns one raw sample per call.
type AnalogReader interface {
	Read() (int, error)
}

// DigitalReader returns the current level of a digital input.
type DigitalReader interface {
	Level() (bool, error)
}

// Reader owns per-axis calibration and the button edge state. It is not safe
// for concurrent use.
type Reader struct {
	inputs [2]AnalogReader
	calib  [2]Calibration

	button      DigitalReader
	buttonLevel bool
	activeLow   bool

	debug  bool
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Reader in New.
type Option func(*Reader)

// WithAxisCalibration sets the starting calibration of a single axis.
func WithAxisCalibration(axis Axis, c Calibration) Option {
	return func(r *Reader) {
		if axis <= Y {
			r.calib[axis] = c
		}
	}
}

// WithActiveLow sets the button polarity. Active-low buttons (the default,
// wired against a pull-up) read high when released.
func WithActiveLow(activeLow bool) Option {
	return func(r *Reader) { r.activeLow = activeLow }
}

// WithDebug enables a trace line for every raw axis sample.
func WithDebug(debug bool) Option {
	return func(r *Reader) { r.debug = debug }
}

// WithLogger replaces slog.Default for calibration and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// WithClock replaces the timestamp source used by debug traces.
func WithClock(now func() time.Time) Option {
	return func(r *Reader) { r.now = now }
}

// New attaches a Reader to its inputs and captures the initial button level.
func New(x, y AnalogReader, button DigitalReader, opts ...Option) (*Reader, error) {
	r := &Reader{
		inputs:    [2]AnalogReader{x, y},
		calib:     [2]Calibration{DefaultCalibration(), DefaultCalibration()},
		button:    button,
		activeLow: true,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	level, err := button.Level()
	if err != nil {
		return nil, fmt.Errorf("failed to read button: %w", err)
	}
	r.buttonLevel = level
	return r, nil
}

// CalibrateCenter samples both axes and adopts each in-window sample as that
// axis's new raw center. Out-of-window samples are ignored.
func (r *Reader) CalibrateCenter() error {
	for _, axis := range []Axis{X, Y} {
		sample, err := r.inputs[axis].Read()
		if err != nil {
			return fmt.Errorf("failed to read %s axis: %w", axis, err)
		}
		r.calib[axis] = r.calib[axis].Calibrate(sample)
	}
	r.logger.Info("center calibration", "x_mid", r.calib[X].RawMid, "y_mid", r.calib[Y].RawMid)
	return nil
}

// ReadCalibrated returns the axis position in the logical range.
func (r *Reader) ReadCalibrated(axis Axis) (int, error) {
	if axis > Y {
		return 0, ErrUnknownAxis
	}
	sample, err := r.inputs[axis].Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read %s axis: %w", axis, err)
	}
	if r.debug {
		r.logger.Debug("raw sample", "axis", axis.String(), "raw", sample, "time", r.now())
	}
	v, err := r.calib[axis].Position(sample)
	if err != nil {
		return 0, fmt.Errorf("%s axis: %w", axis, err)
	}
	return v, nil
}

// ReadScaled returns the calibrated position rescaled to [rangeMin, rangeMax].
// A descending range is valid; invert swaps the bounds before rescaling.
func (r *Reader) ReadScaled(axis Axis, rangeMin, rangeMax int, invert bool) (int, error) {
	v, err := r.ReadCalibrated(axis)
	if err != nil {
		return 0, err
	}
	if invert {
		rangeMin, rangeMax = rangeMax, rangeMin
	}
	c := r.calib[axis]
	return MapRange(v, c.Min, c.Max, rangeMin, rangeMax)
}

// Button reports true exactly once per release: when the level changes to
// the released level. A press, or no change, reports false.
func (r *Reader) Button() (bool, error) {
	level, err := r.button.Level()
	if err != nil {
		return false, fmt.Errorf("failed to read button: %w", err)
	}
	if level == r.buttonLevel {
		return false, nil
	}
	r.buttonLevel = level
	return level == r.releasedLevel(), nil
}

func (r *Reader) releasedLevel() bool {
	return r.activeLow
}

// Calibration returns the current calibration of axis. Unknown axes get the
// zero value.
func (r *Reader) Calibration(axis Axis) Calibration {
	if axis > Y {
		return Calibration{}
	}
	return r.calib[axis]
}
