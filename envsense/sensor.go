package envsense

import "github.com/alepar/airnode/envsense/iaq"

type Sensor interface {
	Address() string

	// runs one full measurement cycle and returns the derived reading
	Poll() (Reading, error)
}

// Reading is what gets pushed to the hub collector. The IAQ detail fields at
// the bottom drive local feedback only and stay off the wire.
type Reading struct {
	SensorID string `json:"sensor_id"`

	// units: degrees Celsius
	Temperature float64 `json:"temperature_c"`

	// units: % of relative Humidity
	Humidity float64 `json:"humidity_pct"`

	// units: hPa
	Pressure float64 `json:"pressure_hpa"`

	// units: Ohm
	GasResistance float64 `json:"gas_resistance_ohm"`

	// 0-500, lower is better, 0 while calibrating
	IaqScore uint32 `json:"iaq_score"`

	// 0 while calibrating, 1 once the baseline is established
	IaqAccuracy uint8 `json:"iaq_accuracy"`

	TimestampMs uint64 `json:"timestamp_ms"`

	Status       iaq.Status `json:"-"`
	AlarmRaised  bool       `json:"-"`
	AlarmCleared bool       `json:"-"`
}
