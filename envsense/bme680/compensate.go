package bme680

// Sample holds the compensated values of one measurement.
type Sample struct {
	// units: degrees Celsius
	Temperature float64

	// units: % of relative Humidity, clamped to [0, 100]
	Humidity float64

	// units: hPa
	Pressure float64

	// units: Ohm; 0 means the gas reading was invalid, not an error
	GasResistance float64
}

// factor per gas range index, doubling per step
var gasRangeTable = [16]float64{
	1, 2, 4, 8, 16, 32, 64, 128,
	256, 512, 1024, 2048, 4096, 8192, 16384, 32768,
}

// compensate is a pure function of one raw sample and the calibration set.
func compensate(raw rawSample, cal calibration, gasCeiling float64) Sample {
	tempC, tFine := compensateTemperature(raw.temperature, cal)
	return Sample{
		Temperature:   tempC,
		Humidity:      compensateHumidity(raw.humidity, tFine, cal),
		Pressure:      compensatePressure(raw.pressure, tFine, cal),
		GasResistance: compensateGas(raw, gasCeiling),
	}
}

// compensateTemperature also returns the t_fine intermediate, which the
// humidity formula depends on.
func compensateTemperature(raw uint32, cal calibration) (tempC, tFine float64) {
	t1 := float64(cal.t1)
	t2 := float64(cal.t2)
	t3 := float64(cal.t3)
	r := float64(raw)

	var1 := (r/16384.0 - t1/1024.0) * t2
	var2 := r/131072.0 - t1/8192.0
	var2 = var2 * var2 * t3 * 16.0
	tFine = var1 + var2
	return tFine / 5120.0, tFine
}

// compensateHumidity applies the six-variable polynomial over h1..h7. The
// grouping of terms matters for rounding and matches the datasheet formula.
func compensateHumidity(raw uint16, tFine float64, cal calibration) float64 {
	h2 := float64(cal.h2)
	h3 := float64(cal.h3)
	h4 := float64(cal.h4)
	h5 := float64(cal.h5)
	h6 := float64(cal.h6)
	h7 := float64(cal.h7)

	tempScaled := (tFine*5 + 128) / 256

	var1 := (float64(raw) - cal.h1*16.0) - (tempScaled * h3 / 200.0)
	var2 := h2 * ((tempScaled * h4 / 100.0) +
		(((tempScaled * (tempScaled * h5 / 100.0)) / 64.0) / 100.0) +
		16384.0) / 1024.0
	var3 := var1 * var2
	var4 := h6 * 128.0
	var4 = (var4 + (tempScaled * h7 / 100.0)) / 16.0
	var5 := ((var3 / 16384.0) * (var3 / 16384.0)) / 1024.0
	var6 := (var4 * var5) / 2.0

	h := (((var3 + var6) / 1024.0) * 1000.0) / 4096.0
	h /= 1000.0

	switch {
	case h > 100:
		h = 100
	case h < 0:
		h = 0
	}
	return h
}

// compensatePressure runs the two nested polynomial passes over p1..p10.
// A zero first-pass denominator skips the second pass and leaves the raw
// proportional estimate, per the reference formula.
func compensatePressure(raw uint32, tFine float64, cal calibration) float64 {
	p1 := float64(cal.p1)
	p2 := float64(cal.p2)
	p3 := float64(cal.p3)
	p4 := float64(cal.p4)
	p5 := float64(cal.p5)
	p6 := float64(cal.p6)
	p7 := float64(cal.p7)
	p8 := float64(cal.p8)
	p9 := float64(cal.p9)
	p10 := float64(cal.p10)

	var1 := tFine/2.0 - 64000.0
	var2 := var1 * var1 * p6 / 131072.0
	var2 = var2 + var1*p5*2.0
	var2 = var2/4.0 + p4*65536.0
	var1 = (p3*var1*var1/16384.0 + p2*var1) / 524288.0
	var1 = (1.0 + var1/32768.0) * p1

	press := 1048576.0 - float64(raw)
	if var1 != 0 {
		press = (press - var2/4096.0) * 6250.0 / var1
		var1 = p9 * press * press / 2147483648.0
		var2 = press * p8 / 32768.0
		var3 := (press / 256.0) * (press / 256.0) * (press / 256.0) * p10 / 131072.0
		press = press + (var1+var2+var3+p7*128.0)/16.0
	}
	return press / 100.0
}

// compensateGas converts the 10-bit gas ADC code to a resistance. Unset
// validity bits or a zero code report 0 Ohm, a deliberate unknown sentinel.
func compensateGas(raw rawSample, ceiling float64) float64 {
	if !raw.gasValid || !raw.heaterStable {
		return 0
	}
	if raw.gas == 0 {
		return 0
	}
	ohm := 1340.0 * 1000000.0 / (float64(raw.gas) * gasRangeTable[raw.gasRange])
	if ohm > ceiling {
		ohm = ceiling
	}
	return ohm
}
