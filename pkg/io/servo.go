package io

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"

	"github.com/Seann-Moser/joyarm/pkg/motor"
)

// PeriphPWM drives a PCA9685 through periph.io instead of gobot.
type PeriphPWM struct {
	bus i2c.BusCloser
	dev *pca9685.Dev
}

// OpenPeriphPWM opens the PCA9685 at address on the named I2C bus and sets
// the servo frame rate.
func OpenPeriphPWM(busName string, address uint16) (*PeriphPWM, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %s: %w", busName, err)
	}
	dev, err := pca9685.NewI2C(bus, address)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to open PCA9685 at %#x: %w", address, err)
	}
	if err := dev.SetPwmFreq(motor.Frequency * physic.Hertz); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to set PCA9685 frequency: %w", err)
	}
	return &PeriphPWM{bus: bus, dev: dev}, nil
}

// SetPWM sets the on and off ticks of one PCA9685 channel.
func (p *PeriphPWM) SetPWM(channel int, on, off uint16) error {
	return p.dev.SetPwm(channel, gpio.Duty(on), gpio.Duty(off))
}

// Close releases the I2C bus.
func (p *PeriphPWM) Close() error {
	return p.bus.Close()
}
