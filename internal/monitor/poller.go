// Package monitor repeats traversals on a fixed interval.
package monitor

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Pass runs one traversal. n counts passes from 1.
type Pass func(ctx context.Context, n int)

// Poller runs a Pass immediately and then once per interval
type Poller struct {
	clock     clock.Clock
	interval  time.Duration
	maxPasses int
	pass      Pass
}

// NewPoller creates a poller. An interval of zero runs a single pass.
// maxPasses of zero means no limit.
func NewPoller(clk clock.Clock, interval time.Duration, maxPasses int, pass Pass) *Poller {
	if clk == nil {
		clk = clock.New()
	}
	return &Poller{
		clock:     clk,
		interval:  interval,
		maxPasses: maxPasses,
		pass:      pass,
	}
}

// Run blocks until the pass budget is spent or ctx is cancelled. Passes never
// overlap; ticks that arrive during a slow pass are dropped.
func (p *Poller) Run(ctx context.Context) error {
	n := 1
	p.pass(ctx, n)
	if p.interval <= 0 || p.done(n) {
		return nil
	}

	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			n++
			p.pass(ctx, n)
			if p.done(n) {
				return nil
			}
		}
	}
}

func (p *Poller) done(n int) bool {
	return p.maxPasses > 0 && n >= p.maxPasses
}
