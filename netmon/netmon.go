// Package netmon measures reachability of peer nodes with the system ping
// binary. Raw ICMP sockets would need CAP_NET_RAW; shelling out keeps the
// node runnable as an unprivileged user.
package netmon

import (
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

var latencyRe = regexp.MustCompile(`time[=<](\d+\.?\d*)`)

type Pinger struct {
	Timeout time.Duration
}

// Ping returns the round-trip latency in milliseconds, or -1 when the host
// is unreachable.
func (p *Pinger) Ping(host string) float64 {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = time.Second
	}
	secs := int(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}

	out, err := exec.Command("ping", "-c", "1", "-W", strconv.Itoa(secs), host).Output()
	if err != nil {
		return -1
	}
	return ParseLatency(string(out))
}

// ParseLatency extracts the time= figure from ping output. A successful ping
// without a parseable latency reports a small positive value.
func ParseLatency(out string) float64 {
	m := latencyRe.FindStringSubmatch(out)
	if m == nil {
		return 0.5
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0.5
	}
	return v
}
