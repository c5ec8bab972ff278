package controller

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Seann-Moser/joyarm/pkg/io"
	"github.com/Seann-Moser/joyarm/pkg/joystick"
)

const DefaultConfigFile = ".joyarm.yaml"

type Configuration struct {
	Hardware     io.Config      `yaml:"hardware" json:"hardware"`
	Joystick     JoystickConfig `yaml:"joystick" json:"joystick"`
	MotorX       MotorConfig    `yaml:"motorX" json:"motorX"`
	MotorY       MotorConfig    `yaml:"motorY" json:"motorY"`
	PollInterval time.Duration  `yaml:"pollInterval" json:"pollInterval"`
	// StatusLED is the output line toggled on every button release; negative disables it.
	StatusLED int    `yaml:"statusLed" json:"statusLed"`
	HTTPAddr  string `yaml:"httpAddr" json:"httpAddr"`
}

type JoystickConfig struct {
	XChannel   int  `yaml:"xChannel" json:"xChannel"`
	YChannel   int  `yaml:"yChannel" json:"yChannel"`
	ButtonLine int  `yaml:"buttonLine" json:"buttonLine"`
	ActiveLow  bool `yaml:"activeLow" json:"activeLow"`
	InvertX    bool `yaml:"invertX" json:"invertX"`
	InvertY    bool `yaml:"invertY" json:"invertY"`

	CalibrationX joystick.Calibration `yaml:"calibrationX" json:"calibrationX"`
	CalibrationY joystick.Calibration `yaml:"calibrationY" json:"calibrationY"`

	// MaxStep is the largest move in degrees a full deflection makes per poll.
	MaxStep          int  `yaml:"maxStep" json:"maxStep"`
	CalibrateOnStart bool `yaml:"calibrateOnStart" json:"calibrateOnStart"`
}

type MotorConfig struct {
	Channel int `yaml:"channel" json:"channel"`
	Min     int `yaml:"min" json:"min"`
	Max     int `yaml:"max" json:"max"`
	Center  int `yaml:"center" json:"center"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Hardware: io.DefaultConfig(),
		Joystick: JoystickConfig{
			XChannel:         0,
			YChannel:         1,
			ButtonLine:       26,
			ActiveLow:        true,
			CalibrationX:     joystick.DefaultCalibration(),
			CalibrationY:     joystick.DefaultCalibration(),
			MaxStep:          3,
			CalibrateOnStart: true,
		},
		MotorX:       MotorConfig{Channel: 1, Min: 0, Max: 180, Center: 90},
		MotorY:       MotorConfig{Channel: 0, Min: 0, Max: 180, Center: 90},
		PollInterval: 20 * time.Millisecond,
		StatusLED:    23,
		HTTPAddr:     "0.0.0.0:8080",
	}
}

// LoadConfiguration reads path over the defaults. A missing file is not an error.
func LoadConfiguration(path string) (Configuration, error) {
	config := DefaultConfiguration()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if config.PollInterval <= 0 {
		return config, fmt.Errorf("pollInterval must be positive, got %s", config.PollInterval)
	}
	return config, nil
}

func SaveConfiguration(path string, config Configuration) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}
