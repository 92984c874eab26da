// Package i2cbus adapts a periph.io I2C bus to the envsense transfer
// contract.
package i2cbus

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type Bus struct {
	bus i2c.BusCloser
}

// Open initialises the host drivers and opens the named I2C bus. An empty
// name selects the first available bus.
func Open(name string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "init periph host")
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", name)
	}
	return &Bus{bus: bus}, nil
}

// Transfer writes w and reads readLen bytes back in a single transaction.
func (b *Bus) Transfer(addr uint8, w []byte, readLen int) ([]byte, error) {
	var r []byte
	if readLen > 0 {
		r = make([]byte, readLen)
	}
	if err := b.bus.Tx(uint16(addr), w, r); err != nil {
		return nil, errors.Wrapf(err, "i2c tx to 0x%02x", addr)
	}
	return r, nil
}

func (b *Bus) Close() error {
	return b.bus.Close()
}
