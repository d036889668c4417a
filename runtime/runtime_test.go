package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bdwalton/c64emu/cia"
	"github.com/bdwalton/c64emu/machine"
	"github.com/bdwalton/c64emu/pla"
)

func newFixture(t *testing.T) *machine.Machine {
	t.Helper()
	ram := machine.NewRAM()
	ram.Write(0xFFFC, 0x00)
	ram.Write(0xFFFD, 0x80)
	ram.Write(0x8000, 0xEA) // NOP
	ram.Write(0x8001, 0x4C) // JMP $8000
	ram.Write(0x8002, 0x00)
	ram.Write(0x8003, 0x80)

	p := pla.New(ram)
	cia1 := cia.New()
	cia2 := cia.New()
	p.Link(pla.IO, machine.NewIO(cia1, cia2))

	return machine.New(p, cia1, cia2)
}

func TestRunStopsWhenMachineStops(t *testing.T) {
	m := newFixture(t)
	m.Start()
	m.SetMaxCycles(100)

	rt := New(m)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := rt.Run(ctx)
	assert.NoError(t, err)
	assert.Equal(t, machine.Stopped, m.Status())
}

func TestRunRespectsContextCancellation(t *testing.T) {
	m := newFixture(t)
	m.Start()

	rt := New(m)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
