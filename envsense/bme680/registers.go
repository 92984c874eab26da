package bme680

// Default I2C addresses
const (
	I2CAddr    uint8 = 0x77
	I2CAddrAlt uint8 = 0x76
)

// chip id the identification register must report
const chipID uint8 = 0x61

// BME680 registers
const (
	regChipID    uint8 = 0xD0
	regSoftReset uint8 = 0xE0

	regCoeffT1   uint8 = 0xE9 // t1 lsb/msb
	regCoeffT23  uint8 = 0x8A // t2 lsb/msb, t3
	regCoeffHum1 uint8 = 0xE1 // packed h1/h2 nibbles
	regCoeffHum2 uint8 = 0xE4 // h3..h7
	regCoeffPres uint8 = 0x8E // p1..p8, p10 (0x8E..0x9D)
	regCoeffP9   uint8 = 0x9E // p9 lsb/msb

	regCtrlHum  uint8 = 0x72
	regCtrlGas1 uint8 = 0x71
	regCtrlMeas uint8 = 0x74
	regGasWait0 uint8 = 0x64
	regResHeat0 uint8 = 0x5A

	// meas_status_0, start of the 17-byte data block
	regMeasStatus uint8 = 0x1D
)

const softResetCmd uint8 = 0xB6

// meas_status_0 / gas_r_lsb bits
const (
	bitNewData      uint8 = 0x80
	bitGasValid     uint8 = 0x20
	bitHeaterStable uint8 = 0x10
)

// run_gas with heater set-point 0 selected
const runGasProfile0 uint8 = 0x10

// forced-mode bit of ctrl_meas
const modeForced uint8 = 0x01
