package io

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// SetPinState drives an output line high (1) or low (0), requesting the line
// on first use.
func (io *IO) SetPinState(lineOffset int, state int) error {
	io.mu.Lock()
	defer io.mu.Unlock()
	l, ok := io.lines[lineOffset]
	if !ok {
		var err error
		l, err = io.chip.RequestLine(lineOffset, gpiocdev.AsOutput(state))
		if err != nil {
			return fmt.Errorf("failed to request output line %d: %w", lineOffset, err)
		}
		io.lines[lineOffset] = l
		return nil
	}
	return l.SetValue(state)
}
