// Package gpioout implements the indicator and beeper collaborators on
// plain GPIO lines via periph.io.
package gpioout

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// RGBLED drives a common-cathode RGB LED wired to three GPIO lines. There is
// no PWM dimming: a color component at or above 0x80 switches its line high.
type RGBLED struct {
	r, g, b gpio.PinIO
}

func OpenRGBLED(rName, gName, bName string) (*RGBLED, error) {
	pins := make([]gpio.PinIO, 3)
	for i, name := range []string{rName, gName, bName} {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, errors.Errorf("no such gpio pin: %s", name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "init pin %s", name)
		}
		pins[i] = p
	}
	return &RGBLED{r: pins[0], g: pins[1], b: pins[2]}, nil
}

// SetColor ignores the channel; a single LED has only one.
func (l *RGBLED) SetColor(_ int, r, g, b uint8) error {
	parts := []struct {
		pin gpio.PinIO
		v   uint8
	}{
		{l.r, r}, {l.g, g}, {l.b, b},
	}
	for _, p := range parts {
		if err := p.pin.Out(level(p.v)); err != nil {
			return errors.Wrap(err, "set led pin")
		}
	}
	return nil
}

func level(v uint8) gpio.Level {
	if v >= 0x80 {
		return gpio.High
	}
	return gpio.Low
}

// Buzzer is an active-low piezo buzzer on a single line.
type Buzzer struct {
	pin gpio.PinIO
}

func OpenBuzzer(name string) (*Buzzer, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("no such gpio pin: %s", name)
	}
	// high = off
	if err := p.Out(gpio.High); err != nil {
		return nil, errors.Wrapf(err, "init pin %s", name)
	}
	return &Buzzer{pin: p}, nil
}

// Beep blocks for the duration of the whole pattern.
func (b *Buzzer) Beep(count, onMs, offMs int) error {
	for i := 0; i < count; i++ {
		if err := b.pin.Out(gpio.Low); err != nil {
			return errors.Wrap(err, "buzzer on")
		}
		time.Sleep(time.Duration(onMs) * time.Millisecond)
		if err := b.pin.Out(gpio.High); err != nil {
			return errors.Wrap(err, "buzzer off")
		}
		time.Sleep(time.Duration(offMs) * time.Millisecond)
	}
	return nil
}
