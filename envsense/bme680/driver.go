// Package bme680 drives a Bosch BME680 environmental sensor over a
// register-oriented bus and derives an IAQ reading from each poll.
package bme680

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alepar/airnode/envsense"
	"github.com/alepar/airnode/envsense/iaq"
)

var (
	// ErrUnexpectedDevice means the identification register did not report a
	// BME680. The device must be re-opened after fixing the wiring/address.
	ErrUnexpectedDevice = errors.New("bme680: unexpected chip id")

	// ErrMeasurementTimeout means new_data never came up within the status
	// poll budget. The poll is lost; the next one starts fresh.
	ErrMeasurementTimeout = errors.New("bme680: measurement never became ready")
)

// Config holds the measurement and scoring knobs. Zero fields get defaults.
type Config struct {
	// raw register values for the oversampling and heater profile
	CtrlHum  uint8 // osrs_h
	CtrlMeas uint8 // osrs_t / osrs_p, mode bits must be zero
	HeatRes  uint8 // res_heat_0 target
	HeatDur  uint8 // gas_wait_0 duration

	// fixed wait for the heater/conversion cycle after the forced trigger
	MeasureDelay time.Duration

	// pause between status polls and how many to attempt before giving up
	StatusInterval time.Duration
	MaxStatusPolls int

	// units: Ohm, ceiling on reported gas resistance
	GasCeiling float64

	// max number of tries for one poll in case of bus errors
	Retries int

	IAQ iaq.Config
}

const (
	defaultCtrlHum  uint8 = 0x01 // humidity x1
	defaultCtrlMeas uint8 = 0x54 // temperature x2, pressure x4
	defaultHeatRes  uint8 = 0x59 // heater target ~320C
	defaultHeatDur  uint8 = 0x59 // heater on for 100ms
)

func (cfg Config) withDefaults() Config {
	if cfg.CtrlHum == 0 {
		cfg.CtrlHum = defaultCtrlHum
	}
	if cfg.CtrlMeas == 0 {
		cfg.CtrlMeas = defaultCtrlMeas
	}
	if cfg.HeatRes == 0 {
		cfg.HeatRes = defaultHeatRes
	}
	if cfg.HeatDur == 0 {
		cfg.HeatDur = defaultHeatDur
	}
	if cfg.MeasureDelay == 0 {
		cfg.MeasureDelay = 200 * time.Millisecond
	}
	if cfg.StatusInterval == 0 {
		cfg.StatusInterval = 10 * time.Millisecond
	}
	if cfg.MaxStatusPolls == 0 {
		cfg.MaxStatusPolls = 50
	}
	if cfg.GasCeiling == 0 {
		cfg.GasCeiling = 1000000.0 // 1 MOhm
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	return cfg
}

// Device is an exclusive handle to one physical sensor. It owns the
// calibration set and the IAQ state; polls must be serialized, there is at
// most one in-flight measurement per sensor.
type Device struct {
	id     string
	bus    envsense.Bus
	addr   uint8
	cfg    Config
	clock  envsense.Clock
	cal    calibration
	engine *iaq.Engine
}

// Open resets the sensor, verifies its identity and loads the factory
// calibration. On an identity mismatch no calibration read is attempted.
func Open(bus envsense.Bus, addr uint8, id string, clock envsense.Clock, cfg Config) (*Device, error) {
	dev := &Device{
		id:     id,
		bus:    bus,
		addr:   addr,
		cfg:    cfg.withDefaults(),
		clock:  clock,
		engine: iaq.New(cfg.IAQ),
	}

	if err := dev.writeReg(regSoftReset, softResetCmd); err != nil {
		return nil, errors.Wrap(err, "soft reset")
	}
	time.Sleep(10 * time.Millisecond)

	got, err := dev.readReg(regChipID, 1)
	if err != nil {
		return nil, errors.Wrap(err, "read chip id")
	}
	if got[0] != chipID {
		return nil, errors.Wrapf(ErrUnexpectedDevice, "got 0x%02x, want 0x%02x", got[0], chipID)
	}

	if err := dev.loadCalibration(); err != nil {
		return nil, errors.Wrap(err, "load calibration")
	}

	log.Debugf("bme680 at 0x%02x: t1=%d t2=%d t3=%d", addr, dev.cal.t1, dev.cal.t2, dev.cal.t3)
	return dev, nil
}

func (dev *Device) Address() string {
	return fmt.Sprintf("0x%02x", dev.addr)
}

// Poll runs one full measurement cycle: trigger, wait, read, compensate,
// score. Transient bus errors are retried; a poll that fails all retries
// yields no reading and leaves the IAQ state untouched.
func (dev *Device) Poll() (envsense.Reading, error) {
	var lastErr error
	for i := 0; i < dev.cfg.Retries; i++ {
		sample, err := dev.measure()
		if err == nil {
			return dev.derive(sample), nil
		}
		lastErr = err
		if i < dev.cfg.Retries-1 {
			log.Errorf("retrying error in measure: %s", err)
		}
	}
	return envsense.Reading{}, errors.Wrap(lastErr, "all retries to measure failed")
}

func (dev *Device) loadCalibration() error {
	blocks := []struct {
		reg uint8
		n   int
	}{
		{regCoeffT1, 2},
		{regCoeffT23, 3},
		{regCoeffHum1, 3},
		{regCoeffHum2, 5},
		{regCoeffPres, 16},
		{regCoeffP9, 2},
	}

	read := make([][]byte, len(blocks))
	for i, blk := range blocks {
		b, err := dev.readReg(blk.reg, blk.n)
		if err != nil {
			return errors.Wrapf(err, "read coeff block 0x%02x", blk.reg)
		}
		read[i] = b
	}

	// decode into a local first so a failed read never leaves a half-updated set
	dev.cal = decodeCalibration(read[0], read[1], read[2], read[3], read[4], read[5])
	return nil
}

func (dev *Device) measure() (Sample, error) {
	setup := []struct{ reg, val uint8 }{
		{regCtrlHum, dev.cfg.CtrlHum},
		{regCtrlMeas, dev.cfg.CtrlMeas},
		{regResHeat0, dev.cfg.HeatRes},
		{regGasWait0, dev.cfg.HeatDur},
		{regCtrlGas1, runGasProfile0},
	}
	for _, s := range setup {
		if err := dev.writeReg(s.reg, s.val); err != nil {
			return Sample{}, errors.Wrapf(err, "write reg 0x%02x", s.reg)
		}
	}

	if err := dev.writeReg(regCtrlMeas, dev.cfg.CtrlMeas|modeForced); err != nil {
		return Sample{}, errors.Wrap(err, "trigger forced measurement")
	}

	// The hardware state machine cannot be aborted once triggered. Wait out
	// the heater/conversion cycle, then poll new_data with a bounded budget.
	time.Sleep(dev.cfg.MeasureDelay)

	data, err := dev.waitForData()
	if err != nil {
		return Sample{}, err
	}

	return compensate(decodeRaw(data), dev.cal, dev.cfg.GasCeiling), nil
}

func (dev *Device) waitForData() ([]byte, error) {
	for i := 0; i < dev.cfg.MaxStatusPolls; i++ {
		status, err := dev.readReg(regMeasStatus, 1)
		if err != nil {
			return nil, errors.Wrap(err, "read meas_status")
		}
		if status[0]&bitNewData != 0 {
			return dev.readReg(regMeasStatus, 17)
		}
		time.Sleep(dev.cfg.StatusInterval)
	}
	return nil, ErrMeasurementTimeout
}

func (dev *Device) derive(sample Sample) envsense.Reading {
	score := dev.engine.Update(sample.GasResistance, sample.Humidity)
	return envsense.Reading{
		SensorID:      dev.id,
		Temperature:   sample.Temperature,
		Humidity:      sample.Humidity,
		Pressure:      sample.Pressure,
		GasResistance: sample.GasResistance,
		IaqScore:      score.Score,
		IaqAccuracy:   score.Accuracy,
		TimestampMs:   dev.clock.NowMs(),
		Status:        score.Status,
		AlarmRaised:   score.AlarmRaised,
		AlarmCleared:  score.AlarmCleared,
	}
}

func (dev *Device) readReg(reg uint8, n int) ([]byte, error) {
	b, err := dev.bus.Transfer(dev.addr, []byte{reg}, n)
	if err != nil {
		return nil, err
	}
	if len(b) < n {
		return nil, errors.Errorf("short read from reg 0x%02x: got %d bytes, want %d", reg, len(b), n)
	}
	return b, nil
}

func (dev *Device) writeReg(reg, val uint8) error {
	_, err := dev.bus.Transfer(dev.addr, []byte{reg, val}, 0)
	return err
}
