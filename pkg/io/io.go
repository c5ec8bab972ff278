package io

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"

	"github.com/Seann-Moser/joyarm/pkg/motor"
)

const (
	BackendGobot  = "gobot"
	BackendPeriph = "periph"
)

// Config selects the chips the joystick and servos are wired to.
type Config struct {
	Chip       string `yaml:"chip" json:"chip"`
	I2CBus     int    `yaml:"i2cBus" json:"i2cBus"`
	ADCAddress int    `yaml:"adcAddress" json:"adcAddress"`
	// ADCVolts is the input voltage that maps to the top of the 10-bit range,
	// normally the joystick supply.
	ADCVolts   float64 `yaml:"adcVolts" json:"adcVolts"`
	PWMAddress int     `yaml:"pwmAddress" json:"pwmAddress"`
	PWMBackend string  `yaml:"pwmBackend" json:"pwmBackend"`
}

func DefaultConfig() Config {
	return Config{
		Chip:       "gpiochip0",
		I2CBus:     1,
		ADCAddress: 0x48,
		ADCVolts:   DefaultADCVolts,
		PWMAddress: 0x40,
		PWMBackend: BackendGobot,
	}
}

type IO struct {
	cfg    Config
	logger *slog.Logger

	chip    *gpiocdev.Chip
	lines   map[int]*gpiocdev.Line
	adaptor *raspi.Adaptor
	adc     *i2c.ADS1x15Driver
	servos  *i2c.PCA9685Driver
	periph  *PeriphPWM
	mu      sync.Mutex
}

// New opens the GPIO chip, the ADS1115 ADC and the configured PCA9685 backend.
func New(cfg Config, logger *slog.Logger) (*IO, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c, err := gpiocdev.NewChip(cfg.Chip)
	if err != nil {
		return nil, fmt.Errorf("failed to open chip %s: %w", cfg.Chip, err)
	}
	io := &IO{
		cfg:    cfg,
		logger: logger,
		chip:   c,
		lines:  make(map[int]*gpiocdev.Line),
	}

	io.adaptor = raspi.NewAdaptor()
	if err := io.adaptor.Connect(); err != nil {
		io.Close()
		return nil, fmt.Errorf("failed to connect raspi adaptor: %w", err)
	}

	io.adc = i2c.NewADS1115Driver(io.adaptor, i2c.WithBus(cfg.I2CBus), i2c.WithAddress(cfg.ADCAddress))
	if err := io.adc.Start(); err != nil {
		io.Close()
		return nil, fmt.Errorf("failed to start ADS1115 driver: %w", err)
	}

	switch cfg.PWMBackend {
	case BackendPeriph:
		io.periph, err = OpenPeriphPWM(fmt.Sprintf("I2C%d", cfg.I2CBus), uint16(cfg.PWMAddress))
		if err != nil {
			io.Close()
			return nil, err
		}
	case BackendGobot, "":
		io.servos = i2c.NewPCA9685Driver(io.adaptor, i2c.WithBus(cfg.I2CBus), i2c.WithAddress(cfg.PWMAddress))
		if err := io.servos.Start(); err != nil {
			io.Close()
			return nil, fmt.Errorf("failed to start PCA9685 driver: %w", err)
		}
		if err := io.servos.SetPWMFreq(motor.Frequency); err != nil {
			io.Close()
			return nil, fmt.Errorf("failed to set PCA9685 frequency: %w", err)
		}
	default:
		io.Close()
		return nil, fmt.Errorf("unknown pwm backend %q", cfg.PWMBackend)
	}

	logger.Info("hardware ready", "chip", cfg.Chip, "i2c_bus", cfg.I2CBus, "pwm_backend", cfg.PWMBackend)
	return io, nil
}

// PWM returns the servo driver selected by the configuration.
func (io *IO) PWM() motor.PWMDriver {
	if io.periph != nil {
		return io.periph
	}
	return io.servos
}

func (io *IO) Close() {
	io.mu.Lock()
	defer io.mu.Unlock()
	for offset, l := range io.lines {
		_ = l.Reconfigure(gpiocdev.AsInput)
		if err := l.Close(); err != nil {
			io.logger.Warn("failed to close line", "offset", offset, "error", err)
		}
	}
	io.lines = map[int]*gpiocdev.Line{}
	if io.servos != nil {
		_ = io.servos.Halt()
		io.servos = nil
	}
	if io.periph != nil {
		_ = io.periph.Close()
		io.periph = nil
	}
	if io.adc != nil {
		_ = io.adc.Halt()
		io.adc = nil
	}
	if io.adaptor != nil {
		_ = io.adaptor.Finalize()
		io.adaptor = nil
	}
	if io.chip != nil {
		_ = io.chip.Close()
		io.chip = nil
	}
}
