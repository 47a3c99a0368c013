package fsctx

import (
	"log"
	"time"
)

// Monitor throttles progress logging and latches whether any error was
// seen.
type Monitor struct {
	Interval   time.Duration
	SawErr     bool
	lastReport time.Time
}

// NewMonitor returns a Monitor that logs at most once per interval, plus
// always on the final report.
func NewMonitor(interval time.Duration) *Monitor {
	return &Monitor{Interval: interval}
}

// Err logs err and latches SawErr.
func (m *Monitor) Err(err error) {
	m.SawErr = true
	log.Println(err)
}

// Report logs p if it's the final snapshot or the interval has elapsed
// since the last report.
func (m *Monitor) Report(p *Progress) {
	now := time.Now()
	if p.IsFinal() || now.Sub(m.lastReport) >= m.Interval {
		m.lastReport = now
		log.Println(p)
	}
}
