package bme680

import "testing"

func TestSigned8RoundTrip(t *testing.T) {
	for v := 0; v <= 255; v++ {
		dec := signed8(uint8(v))
		if dec < -128 || dec > 127 {
			t.Fatalf("signed8(%d) = %d out of range", v, dec)
		}
		enc := dec
		if enc < 0 {
			enc += 256
		}
		if enc != v {
			t.Fatalf("signed8(%d) = %d does not round-trip (re-encoded %d)", v, dec, enc)
		}
	}
}

func TestSigned16RoundTrip(t *testing.T) {
	for v := 0; v <= 65535; v++ {
		dec := signed16(uint16(v))
		if dec < -32768 || dec > 32767 {
			t.Fatalf("signed16(%d) = %d out of range", v, dec)
		}
		enc := dec
		if enc < 0 {
			enc += 65536
		}
		if enc != v {
			t.Fatalf("signed16(%d) = %d does not round-trip (re-encoded %d)", v, dec, enc)
		}
	}
}

func TestHumidityCoefficientUnpack(t *testing.T) {
	// 0xE1..0xE3 dump of a reference chip: h2 takes 0x67 plus the high
	// nibble of 0x3F, h1 takes 0x7A plus the low nibble of 0x3F.
	cal := decodeCalibration(
		[]byte{0x00, 0x00},
		[]byte{0x00, 0x00, 0x00},
		[]byte{0x67, 0x3F, 0x7A},
		make([]byte, 5),
		make([]byte, 16),
		[]byte{0x00, 0x00},
	)

	// packed h2 = 0x673 = 1651, packed h1 = 0x7AF = 1967
	if want := uint16(1651*16 + 1967%16); cal.h2 != want {
		t.Errorf("h2 = %d, want %d", cal.h2, want)
	}
	if want := 1967 / 16.0; cal.h1 != want {
		t.Errorf("h1 = %v, want %v", cal.h1, want)
	}
}

func TestDecodeCalibrationSignedness(t *testing.T) {
	t1Blk := []byte{0x90, 0x65}              // 26000 unsigned
	t23Blk := []byte{0x00, 0x80, 0xFF}       // t2 = -32768, t3 = -1
	humBlk := []byte{0x00, 0x00, 0x00}
	hum2Blk := []byte{0x80, 0x7F, 0xFF, 0xFA, 0x81}
	presBlk := make([]byte, 16)
	presBlk[0], presBlk[1] = 0x34, 0x12 // p1 = 0x1234 unsigned
	presBlk[2], presBlk[3] = 0xFF, 0xFF // p2 = -1
	presBlk[4] = 0x85                   // p3 = -123
	presBlk[10] = 0xF0                  // p7 = -16
	presBlk[11] = 0x7F                  // p6 = 127
	presBlk[13] = 0xFE                  // p10 = 254 unsigned
	p9Blk := []byte{0x00, 0x80}         // p9 = -32768

	cal := decodeCalibration(t1Blk, t23Blk, humBlk, hum2Blk, presBlk, p9Blk)

	if cal.t1 != 26000 {
		t.Errorf("t1 = %d, want 26000", cal.t1)
	}
	if cal.t2 != -32768 {
		t.Errorf("t2 = %d, want -32768", cal.t2)
	}
	if cal.t3 != -1 {
		t.Errorf("t3 = %d, want -1", cal.t3)
	}
	if cal.h3 != -128 || cal.h4 != 127 || cal.h5 != -1 {
		t.Errorf("h3,h4,h5 = %d,%d,%d, want -128,127,-1", cal.h3, cal.h4, cal.h5)
	}
	if cal.h6 != 0xFA {
		t.Errorf("h6 = %d, want %d (unsigned)", cal.h6, 0xFA)
	}
	if cal.h7 != -127 {
		t.Errorf("h7 = %d, want -127", cal.h7)
	}
	if cal.p1 != 0x1234 || cal.p2 != -1 || cal.p3 != -123 {
		t.Errorf("p1,p2,p3 = %d,%d,%d", cal.p1, cal.p2, cal.p3)
	}
	if cal.p6 != 127 || cal.p7 != -16 {
		t.Errorf("p6,p7 = %d,%d, want 127,-16", cal.p6, cal.p7)
	}
	if cal.p9 != -32768 {
		t.Errorf("p9 = %d, want -32768", cal.p9)
	}
	if cal.p10 != 0xFE {
		t.Errorf("p10 = %d, want %d (unsigned)", cal.p10, 0xFE)
	}
}

func TestDecodeRaw(t *testing.T) {
	data := make([]byte, 17)
	// pressure 0xABCDE over bytes 2..4, temperature 0x12345 over 5..7
	data[2], data[3], data[4] = 0xAB, 0xCD, 0xE0
	data[5], data[6], data[7] = 0x12, 0x34, 0x50
	// humidity big-endian
	data[8], data[9] = 0x6B, 0x2C
	// gas 10-bit: 0x2B7 = msb 0xAD, top 2 bits of lsb byte = 0b11
	data[13] = 0xAD
	data[14] = 0xC0 | bitGasValid | bitHeaterStable | 0x09

	raw := decodeRaw(data)

	if raw.pressure != 0xABCDE {
		t.Errorf("pressure = %#x, want 0xABCDE", raw.pressure)
	}
	if raw.temperature != 0x12345 {
		t.Errorf("temperature = %#x, want 0x12345", raw.temperature)
	}
	if raw.humidity != 0x6B2C {
		t.Errorf("humidity = %#x, want 0x6B2C", raw.humidity)
	}
	if want := uint16(0xAD)<<2 | 0x03; raw.gas != want {
		t.Errorf("gas = %#x, want %#x", raw.gas, want)
	}
	if raw.gasRange != 9 {
		t.Errorf("gasRange = %d, want 9", raw.gasRange)
	}
	if !raw.gasValid || !raw.heaterStable {
		t.Errorf("validity bits not decoded: gasValid=%v heaterStable=%v", raw.gasValid, raw.heaterStable)
	}
}

func TestDecodeRawValidityBitsClear(t *testing.T) {
	data := make([]byte, 17)
	data[14] = 0x0F
	raw := decodeRaw(data)
	if raw.gasValid || raw.heaterStable {
		t.Errorf("expected validity bits clear, got gasValid=%v heaterStable=%v", raw.gasValid, raw.heaterStable)
	}
	if raw.gasRange != 15 {
		t.Errorf("gasRange = %d, want 15", raw.gasRange)
	}
}
