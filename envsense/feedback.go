package envsense

// Indicator receives status colors. Calls are fire-and-forget, no state is
// read back.
type Indicator interface {
	SetColor(channel int, r, g, b uint8) error
}

// Beeper plays audible alarm patterns.
type Beeper interface {
	Beep(count, onMs, offMs int) error
}

// Clock supplies wall-clock milliseconds for timestamping readings. It is
// never used for measurement timing.
type Clock interface {
	NowMs() uint64
}
