// Package iaq derives an Indoor Air Quality score from gas resistance and
// humidity. The engine keeps an adaptive clean-air baseline: during a burn-in
// phase it only records the highest gas resistance seen, afterwards the
// baseline follows new peaks immediately and drifts slowly toward lower
// readings so that a permanently changed environment re-becomes the norm.
package iaq

import "math"

// Status labels a band of the published 0-500 IAQ scale.
type Status int

const (
	Calibrating Status = iota
	Excellent
	Good
	Moderate
	Poor
	Bad
)

func (s Status) String() string {
	switch s {
	case Calibrating:
		return "Calibrating"
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Moderate:
		return "Moderate"
	case Poor:
		return "Poor"
	default:
		return "Bad"
	}
}

// Config holds the tuning constants of the engine. These are policy knobs,
// not protocol constants; deployments have run with burn-in budgets of 12 and
// 36 polls and scale factors of 3 and 5. Zero fields get the defaults below.
type Config struct {
	// polls spent calibrating before the baseline is trusted
	BurnInPolls uint32

	// per-poll weight with which the baseline drifts toward the current
	// reading once it is below the baseline
	BaselineDecay float64

	// %RH set-point considered ideal; deviation feeds the humidity score
	IdealHumidity float64

	// maps the 0-100 raw composite onto the published 0-500 band
	ScaleFactor float64

	// gas score assumed when no baseline could be established
	NeutralGasScore float64

	// alarm fires once when the score rises above AlarmRaise and re-arms
	// once it falls back to AlarmClear or below; the gap is the deadband
	AlarmRaise uint32
	AlarmClear uint32

	// length of the informational gas history ring
	HistoryLen int
}

func (cfg Config) withDefaults() Config {
	if cfg.BurnInPolls == 0 {
		cfg.BurnInPolls = 12
	}
	if cfg.BaselineDecay == 0 {
		cfg.BaselineDecay = 0.005
	}
	if cfg.IdealHumidity == 0 {
		cfg.IdealHumidity = 40.0
	}
	if cfg.ScaleFactor == 0 {
		cfg.ScaleFactor = 3.0
	}
	if cfg.NeutralGasScore == 0 {
		cfg.NeutralGasScore = 25.0
	}
	if cfg.AlarmRaise == 0 {
		cfg.AlarmRaise = 200
	}
	if cfg.AlarmClear == 0 {
		cfg.AlarmClear = 150
	}
	if cfg.HistoryLen == 0 {
		cfg.HistoryLen = 5
	}
	return cfg
}

// Reading is the per-poll output of the engine.
type Reading struct {
	// 0-500, 0 while calibrating
	Score uint32

	// 0 while calibrating, 1 once the baseline is established
	Accuracy uint8

	Status Status

	// set on the single poll where the alarm fired / re-armed
	AlarmRaised  bool
	AlarmCleared bool

	// mean of the recent gas history, display only, does not feed the score
	AvgGas float64
}

// Engine owns the adaptive IAQ state for one physical sensor. It is not safe
// for concurrent use; polls must be serialized per sensor. There is no reset:
// build a new Engine to start over.
type Engine struct {
	cfg      Config
	baseline float64
	polls    uint32
	history  []float64
	alarmOn  bool
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Update consumes one compensated sample and advances the state machine.
func (e *Engine) Update(gasOhm, humidityPct float64) Reading {
	e.polls++

	e.history = append(e.history, gasOhm)
	if len(e.history) > e.cfg.HistoryLen {
		e.history = e.history[1:]
	}

	if e.polls < e.cfg.BurnInPolls {
		if gasOhm > e.baseline {
			e.baseline = gasOhm
		}
		return Reading{Status: Calibrating, AvgGas: e.avgGas()}
	}

	if gasOhm > e.baseline {
		// new clean-air peak
		e.baseline = gasOhm
	} else {
		e.baseline = e.baseline*(1.0-e.cfg.BaselineDecay) + gasOhm*e.cfg.BaselineDecay
	}

	gasScore := e.cfg.NeutralGasScore
	if e.baseline > 0 && gasOhm > 0 {
		ratio := gasOhm / e.baseline
		if ratio >= 1.0 {
			gasScore = 0
		} else {
			gasScore = (1.0 - ratio) * 75.0
		}
		if gasScore > 75 {
			gasScore = 75
		}
	}

	humOffset := math.Abs(humidityPct - e.cfg.IdealHumidity)
	humScore := humOffset / (100.0 - e.cfg.IdealHumidity) * 25.0
	if humScore > 25 {
		humScore = 25
	}

	score := math.Round((gasScore + humScore) * e.cfg.ScaleFactor)
	if score < 0 {
		score = 0
	}
	if score > 500 {
		score = 500
	}
	s := uint32(score)

	r := Reading{
		Score:    s,
		Accuracy: 1,
		Status:   statusFor(s),
		AvgGas:   e.avgGas(),
	}

	if !e.alarmOn && s > e.cfg.AlarmRaise {
		e.alarmOn = true
		r.AlarmRaised = true
	} else if e.alarmOn && s <= e.cfg.AlarmClear {
		e.alarmOn = false
		r.AlarmCleared = true
	}

	return r
}

// AlarmActive reports whether the alarm latch is currently raised.
func (e *Engine) AlarmActive() bool {
	return e.alarmOn
}

func (e *Engine) avgGas() float64 {
	if len(e.history) == 0 {
		return 0
	}
	var sum float64
	for _, v := range e.history {
		sum += v
	}
	return sum / float64(len(e.history))
}

func statusFor(score uint32) Status {
	switch {
	case score <= 50:
		return Excellent
	case score <= 100:
		return Good
	case score <= 150:
		return Moderate
	case score <= 200:
		return Poor
	default:
		return Bad
	}
}
