package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alepar/airnode/envsense"
	"github.com/alepar/airnode/envsense/bme680"
	"github.com/alepar/airnode/envsense/gpioout"
	"github.com/alepar/airnode/envsense/i2cbus"
	"github.com/alepar/airnode/envsense/iaq"
	"github.com/alepar/airnode/hub"
	"github.com/alepar/airnode/netmon"
	"github.com/alepar/airnode/sysmon"
)

// CLI args
var (
	listenAddr   = flag.String("listen-address", ":8080", "The address to listen on for HTTP requests.")
	pollInterval = flag.Duration("poll-int", 5*time.Second, "time interval between sensor polls")
	hubURL       = flag.String("hub-url", envOrDefault("HUB_URL", ""), "base URL of the hub collector, empty disables pushing")
	nodeID       = flag.String("node-id", envOrDefault("NODE_ID", "airnode"), "node identifier used in pushed readings")
	i2cBusName   = flag.String("i2c-bus", "", "periph name of the i2c bus, empty picks the first one")
	i2cAddr      = flag.Uint("i2c-addr", uint(bme680.I2CAddr), "i2c address of the BME680")
	ledPins      = flag.String("led-pins", "GPIO22,GPIO27,GPIO23", "R,G,B gpio pins of the status led, empty disables it")
	ledChannel   = flag.Int("led-channel", 2, "indicator channel for status colors")
	buzzerPin    = flag.String("buzzer-pin", "GPIO17", "gpio pin of the alarm buzzer, empty disables it")
	pingTargets  = flag.String("ping-targets", envOrDefault("PING_TARGETS", ""), "comma-separated hosts to ping each cycle")
	burnInPolls  = flag.Uint("iaq-burn-in", 12, "polls spent calibrating the gas baseline")
)

// metrics to expose to Prometheus
var (
	gaugeTemperature = newGauge("air_temperature", "Air Temperature (units: degrees Celsius)")
	gaugeHumidity    = newGauge("air_humidity", "Humidity (units: % of relative Humidity)")
	gaugeAtmPressure = newGauge("air_atm_pressure", "Atmospheric Pressure (units: hPa)")
	gaugeGasRes      = newGauge("air_gas_resistance", "Gas sensor resistance (units: Ohm)")
	gaugeIaqScore    = newGauge("air_iaq_score", "Indoor Air Quality score (0-500, lower is better)")
	gaugeIaqAccuracy = newGauge("air_iaq_accuracy", "IAQ accuracy (0 while calibrating, 1 afterwards)")

	counterPollErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "air_poll_errors_total",
		Help: "Number of sensor polls that yielded no reading",
	})

	gaugePingLatency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "node_ping_latency_ms",
			Help: "Round-trip latency to peer nodes (-1 means unreachable)",
		},
		[]string{"target"},
	)
	gaugeCPUTemp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "node_cpu_temperature",
		Help: "SoC temperature (units: degrees Celsius)",
	})
	gaugeMemUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "node_memory_used_mb",
		Help: "Used memory (units: MB)",
	})
)

func newGauge(name string, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		[]string{"sensor_id"},
	)
}

func init() {
	prometheus.MustRegister(gaugeTemperature)
	prometheus.MustRegister(gaugeHumidity)
	prometheus.MustRegister(gaugeAtmPressure)
	prometheus.MustRegister(gaugeGasRes)
	prometheus.MustRegister(gaugeIaqScore)
	prometheus.MustRegister(gaugeIaqAccuracy)
	prometheus.MustRegister(counterPollErrors)
	prometheus.MustRegister(gaugePingLatency)
	prometheus.MustRegister(gaugeCPUTemp)
	prometheus.MustRegister(gaugeMemUsed)

	// Add Go module build info.
	prometheus.MustRegister(prometheus.NewBuildInfoCollector())

	//logging
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

func main() {
	flag.Parse()

	go func() {
		// Expose the registered metrics via HTTP.
		http.Handle("/metrics", promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{
				EnableOpenMetrics: true,
			},
		))
		log.Panic(http.ListenAndServe(*listenAddr, nil))
	}()

	bus, err := i2cbus.Open(*i2cBusName)
	if err != nil {
		log.Fatalf("failed to open i2c bus: %s", err)
	}

	sensor, err := bme680.Open(bus, uint8(*i2cAddr), *nodeID+":bme680", systemClock{}, bme680.Config{
		IAQ: iaq.Config{BurnInPolls: uint32(*burnInPolls)},
	})
	if err != nil {
		log.Fatalf("failed to open bme680: %s", err)
	}
	log.Printf("bme680 ready at %s", sensor.Address())

	node := &node{
		sensor:    sensor,
		indicator: openIndicator(),
		beeper:    openBeeper(),
		hubClient: openHub(),
		pinger:    &netmon.Pinger{},
		targets:   splitList(*pingTargets),
	}

	for {
		node.pollOnce()
		time.Sleep(*pollInterval)
	}
}

type node struct {
	sensor    envsense.Sensor
	indicator envsense.Indicator
	beeper    envsense.Beeper
	hubClient *hub.Client
	pinger    *netmon.Pinger
	targets   []string
}

func (n *node) pollOnce() {
	reading, err := n.sensor.Poll()
	if err != nil {
		counterPollErrors.Inc()
		log.Errorf("failed to poll sensor: %s", err)
	} else {
		n.report(reading)
	}

	for _, target := range n.targets {
		gaugePingLatency.WithLabelValues(target).Set(n.pinger.Ping(target))
	}
	gaugeCPUTemp.Set(sysmon.CPUTemp())
	used, _ := sysmon.Memory()
	gaugeMemUsed.Set(float64(used))
}

func (n *node) report(reading envsense.Reading) {
	log.Printf("%.1f°C | %.0f%% | %.1f hPa | gas %.0f Ohm | IAQ %d (%s)",
		reading.Temperature, reading.Humidity, reading.Pressure,
		reading.GasResistance, reading.IaqScore, reading.Status)

	gaugeTemperature.WithLabelValues(reading.SensorID).Set(reading.Temperature)
	gaugeHumidity.WithLabelValues(reading.SensorID).Set(reading.Humidity)
	gaugeAtmPressure.WithLabelValues(reading.SensorID).Set(reading.Pressure)
	gaugeGasRes.WithLabelValues(reading.SensorID).Set(reading.GasResistance)
	gaugeIaqScore.WithLabelValues(reading.SensorID).Set(float64(reading.IaqScore))
	gaugeIaqAccuracy.WithLabelValues(reading.SensorID).Set(float64(reading.IaqAccuracy))

	if n.indicator != nil {
		r, g, b := colorFor(reading.Status)
		if err := n.indicator.SetColor(*ledChannel, r, g, b); err != nil {
			log.Errorf("failed to set status led: %s", err)
		}
	}

	if n.beeper != nil && reading.AlarmRaised {
		log.Printf("IAQ alarm raised at score %d", reading.IaqScore)
		if err := n.beeper.Beep(2, 150, 150); err != nil {
			log.Errorf("failed to beep: %s", err)
		}
	}
	if reading.AlarmCleared {
		log.Printf("IAQ alarm cleared at score %d", reading.IaqScore)
	}

	if n.hubClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.hubClient.Push(ctx, []envsense.Reading{reading}); err != nil {
			log.Errorf("failed to push to hub: %s", err)
		}
	}
}

func colorFor(status iaq.Status) (r, g, b uint8) {
	switch status {
	case iaq.Calibrating:
		return 255, 0, 255 // purple
	case iaq.Excellent:
		return 0, 255, 0
	case iaq.Good:
		return 100, 255, 0
	case iaq.Moderate:
		return 255, 200, 0
	case iaq.Poor:
		return 255, 100, 0
	default:
		return 255, 0, 0
	}
}

// the feedback devices are optional; a node without them still polls and pushes

func openIndicator() envsense.Indicator {
	pins := splitList(*ledPins)
	if len(pins) != 3 {
		if *ledPins != "" {
			log.Errorf("expected 3 led pins, got %q; status led disabled", *ledPins)
		}
		return nil
	}
	led, err := gpioout.OpenRGBLED(pins[0], pins[1], pins[2])
	if err != nil {
		log.Errorf("failed to open status led: %s", err)
		return nil
	}
	return led
}

func openBeeper() envsense.Beeper {
	if *buzzerPin == "" {
		return nil
	}
	buzzer, err := gpioout.OpenBuzzer(*buzzerPin)
	if err != nil {
		log.Errorf("failed to open buzzer: %s", err)
		return nil
	}
	return buzzer
}

func openHub() *hub.Client {
	if *hubURL == "" {
		return nil
	}
	client, err := hub.NewClient(*hubURL)
	if err != nil {
		log.Fatalf("bad hub url: %s", err)
	}
	return client
}

type systemClock struct{}

func (systemClock) NowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
