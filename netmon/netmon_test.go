package netmon

import "testing"

func TestParseLatency(t *testing.T) {
	cases := []struct {
		name string
		out  string
		want float64
	}{
		{
			name: "typical linux output",
			out:  "64 bytes from 192.168.7.10: icmp_seq=1 ttl=64 time=1.23 ms",
			want: 1.23,
		},
		{
			name: "sub-millisecond",
			out:  "64 bytes from 192.168.7.10: icmp_seq=1 ttl=64 time=0.412 ms",
			want: 0.412,
		},
		{
			name: "rounded below resolution",
			out:  "64 bytes from host: icmp_seq=1 ttl=64 time<1 ms",
			want: 1,
		},
		{
			name: "no latency printed",
			out:  "1 packets transmitted, 1 received, 0% packet loss",
			want: 0.5,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ParseLatency(c.out); got != c.want {
				t.Errorf("ParseLatency(%q) = %v, want %v", c.out, got, c.want)
			}
		})
	}
}
