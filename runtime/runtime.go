// Package runtime composes the two cooperating loops that drive a
// machine: an instruction stepper and a ~60 Hz jiffy interrupt
// driver, both operating on a shared *machine.Machine.
package runtime

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bdwalton/c64emu/machine"
)

// Jiffy is the canonical C64 interrupt interval, 1/60s. Both NTSC and
// PAL share this logical jiffy in this emulator rather than the
// slightly different PAL/NTSC video refresh rates.
const Jiffy = time.Second / 60

const debugPollInterval = time.Millisecond

// Runtime drives m via an instruction-stepper goroutine and a jiffy
// interrupt goroutine, both cancellable through the context passed to
// Run. This replaces the source's process-wide "is running" flag
// (Design Notes) with an explicit cancellation token.
type Runtime struct {
	Machine *machine.Machine
}

// New returns a Runtime driving m.
func New(m *machine.Machine) *Runtime {
	return &Runtime{Machine: m}
}

// Run starts both loops and blocks until the machine stops or ctx is
// cancelled. A cooperative cancellation via ctx is not treated as an
// error.
func (r *Runtime) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return r.stepperLoop(gctx) })
	g.Go(func() error { return r.jiffyLoop(gctx) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// stepperLoop repeatedly calls Step while Running, yields while
// Debug, and exits once the machine is Stopped or ctx is cancelled.
func (r *Runtime) stepperLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch r.Machine.Status() {
		case machine.Stopped:
			return nil
		case machine.Debug:
			time.Sleep(debugPollInterval)
		default:
			r.Machine.Step()
		}
	}
}

// jiffyLoop fires every Jiffy, advancing keyboard aging and raising
// IRQ, until the machine stops or ctx is cancelled.
func (r *Runtime) jiffyLoop(ctx context.Context) error {
	ticker := time.NewTicker(Jiffy)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			switch r.Machine.Status() {
			case machine.Stopped:
				return nil
			case machine.Debug:
				continue
			default:
				r.Machine.AgeKeyboard()
				r.Machine.IRQ()
			}
		}
	}
}
