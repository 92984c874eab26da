package envsense

// Bus is a register-oriented transfer primitive. Transfer writes w to the
// device at addr and then reads readLen bytes back without releasing the bus
// in between. readLen of 0 is a plain write.
type Bus interface {
	Transfer(addr uint8, w []byte, readLen int) ([]byte, error)
}
