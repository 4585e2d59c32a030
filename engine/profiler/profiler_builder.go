package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// ProfilerBuilderOption is a function that configures a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are reported. Non-positive values keep the default.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithBinder includes a binder's per-frame binding counters in each report.
//
// Parameters:
//   - b: the binder to sample
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithBinder(b *material.Binder) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.binder = b
	}
}
