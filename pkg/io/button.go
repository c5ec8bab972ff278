package io

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Button is a polled digital input line.
type Button struct {
	offset int
	line   *gpiocdev.Line
}

// Level reports whether the line currently reads high.
func (b *Button) Level() (bool, error) {
	v, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read line %d: %w", b.offset, err)
	}
	return v != 0, nil
}

// WatchButton requests lineOffset as an input. Active-low buttons get the
// internal pull-up, active-high ones the pull-down.
func (io *IO) WatchButton(lineOffset int, activeLow bool) (*Button, error) {
	line, err := io.chip.RequestLine(lineOffset, gpiocdev.AsInput, buttonBias(activeLow))
	if err != nil {
		return nil, fmt.Errorf("failed to request GPIO line: %w", err)
	}
	io.mu.Lock()
	io.lines[lineOffset] = line
	io.mu.Unlock()
	return &Button{offset: lineOffset, line: line}, nil
}

func buttonBias(activeLow bool) gpiocdev.LineBias {
	if activeLow {
		return gpiocdev.WithPullUp
	}
	return gpiocdev.WithPullDown
}
