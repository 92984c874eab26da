// Package sysmon reads node self-monitoring figures from sysfs/procfs.
package sysmon

import (
	"os"
	"strconv"
	"strings"
)

// CPUTemp returns the SoC temperature in degrees Celsius, or 0 when the
// thermal zone is unavailable (non-Pi hosts).
func CPUTemp() float64 {
	raw, err := os.ReadFile("/sys/class/thermal/thermal_zone0/temp")
	if err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0
	}
	return v / 1000.0
}

// Memory returns used and total memory in MB.
func Memory() (usedMB, totalMB uint64) {
	raw, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, 0
	}
	return parseMeminfo(string(raw))
}

func parseMeminfo(s string) (usedMB, totalMB uint64) {
	var totalKB, availKB uint64
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB, _ = strconv.ParseUint(fields[1], 10, 64)
		case "MemAvailable:":
			availKB, _ = strconv.ParseUint(fields[1], 10, 64)
		}
	}
	if totalKB == 0 {
		return 0, 0
	}
	return (totalKB - availKB) / 1024, totalKB / 1024
}
