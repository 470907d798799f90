package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/luna-display/message"
	"gitlab.com/tinyland/lab/luna-display/metrics"
	"gitlab.com/tinyland/lab/luna-display/render"
)

// MetricsSource supplies one host snapshot per cycle.
type MetricsSource interface {
	Sample(ctx context.Context) metrics.Snapshot
}

// Sink accepts rendered frames and pushes them to an output device.
type Sink interface {
	Push(f render.Frame) error
}

// Loop is the single thread of control: sample metrics, refresh the
// message when due, render, push, advance the scroll cursor, sleep,
// repeat. Nothing in here is shared across goroutines.
type Loop struct {
	sampler   MetricsSource
	scheduler *message.Scheduler
	sink      Sink
	tick      time.Duration
	logger    *slog.Logger

	// now is overridable for tests.
	now func() time.Time

	// offset is the scroll cursor, owned exclusively by this loop.
	offset int
}

// NewLoop wires a display loop. If logger is nil, a no-op logger is used.
func NewLoop(sampler MetricsSource, scheduler *message.Scheduler, sink Sink, tick time.Duration, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if tick <= 0 {
		tick = time.Second
	}
	return &Loop{
		sampler:   sampler,
		scheduler: scheduler,
		sink:      sink,
		tick:      tick,
		logger:    logger,
		now:       time.Now,
	}
}

// Step runs one full cycle. Push failures are logged and swallowed; the
// loop has no user-visible error channel and keeps going.
func (l *Loop) Step(ctx context.Context) {
	now := l.now()

	snap := l.sampler.Sample(ctx)
	msg := l.scheduler.MaybeRefresh(ctx, now)

	frame := render.Render(snap, msg.Text, l.offset)
	if err := l.sink.Push(frame); err != nil {
		l.logger.Warn("push frame", "error", err)
	}

	l.offset = render.Advance(msg.Text, l.offset)
}

// Run executes Step immediately and then on every tick until the context
// is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("display loop started", "tick", l.tick)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	l.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("display loop stopped")
			return ctx.Err()
		case <-ticker.C:
			l.Step(ctx)
		}
	}
}
