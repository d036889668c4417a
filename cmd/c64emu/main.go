// Command c64emu wires a ROM image, RAM image and CLI-selected stop
// conditions into a running Machine/Runtime pair. Everything here —
// flag parsing, config loading, process lifecycle — is ambient
// wiring around the core; the terminal UI and keymap table a full
// front-end would add are external collaborators this binary does
// not implement.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/bdwalton/c64emu/cia"
	"github.com/bdwalton/c64emu/config"
	"github.com/bdwalton/c64emu/machine"
	"github.com/bdwalton/c64emu/pla"
	"github.com/bdwalton/c64emu/romimage"
	"github.com/bdwalton/c64emu/runtime"
)

func main() {
	app := &cli.App{
		Name:  "c64emu",
		Usage: "run a Commodore 64 ROM image",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Usage: "system ROM path (BASIC+KERNAL, or KERNAL-only blob)"},
			&cli.StringFlag{Name: "character-rom", Usage: "character generator ROM path"},
			&cli.StringFlag{Name: "ram", Usage: "raw memory image to load into RAM"},
			&cli.StringFlag{Name: "ram-file-addr", Value: config.DefaultRAMFileAddr, Usage: "hex address to load --ram at"},
			&cli.IntFlag{Name: "ram-size", Value: config.DefaultRAMSize, Usage: "RAM size in bytes (accepted but not applied: RAM is always 64 KiB)"},
			&cli.StringFlag{Name: "start-addr", Value: config.DefaultStartAddr, Usage: "hex reset-vector override"},
			&cli.Uint64Flag{Name: "max-cycles", Usage: "stop after N instructions"},
			&cli.Uint64Flag{Name: "max-time", Usage: "stop after N milliseconds"},
			&cli.StringFlag{Name: "stop-on-addr", Usage: "enter debug mode when PC reaches this hex address"},
			&cli.BoolFlag{Name: "stop-on-brk", Usage: "enter debug mode on any BRK"},
			&cli.BoolFlag{Name: "show-status", Usage: "print registers on exit"},
			&cli.BoolFlag{Name: "show-screen", Usage: "print the screen matrix on exit"},
			&cli.BoolFlag{Name: "disassemble", Usage: "print the last decoded instruction on exit"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable verbose logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("c64emu: %v", err)
	}
}

func run(c *cli.Context) error {
	args := config.Args{
		ROM:          c.String("rom"),
		CharacterROM: c.String("character-rom"),
		RAM:          c.String("ram"),
		RAMFileAddr:  c.String("ram-file-addr"),
		RAMSize:      c.Int("ram-size"),
		StartAddr:    c.String("start-addr"),
		MaxCycles:    c.Uint64("max-cycles"),
		MaxTimeMS:    c.Uint64("max-time"),
		StopOnAddr:   c.String("stop-on-addr"),
		StopOnBRK:    c.Bool("stop-on-brk"),
		ShowStatus:   c.Bool("show-status"),
		ShowScreen:   c.Bool("show-screen"),
		Disassemble:  c.Bool("disassemble"),
		Verbose:      c.Bool("verbose"),
	}

	cfg, err := config.FromArgs(args)
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, err := buildMachine(cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if cfg.Verbose {
		log.Printf("starting machine: %s", m.Snapshot())
	}

	if cfg.MaxCycles != 0 {
		m.SetMaxCycles(cfg.MaxCycles)
	}
	if cfg.HasStopOnAddr {
		m.SetExitOnAddr(cfg.StopOnAddr)
	}
	if cfg.StopOnBRK {
		m.Debugger.AddBreakpoint(machine.BreakpointBRK())
	}

	m.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MaxTime > 0 {
		go func() {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.MaxTime):
				m.Stop()
				cancel()
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		m.Stop()
		cancel()
	}()

	rt := runtime.New(m)
	if err := rt.Run(ctx); err != nil {
		return cli.Exit(fmt.Errorf("runtime error: %w", err), 1)
	}

	if cfg.ShowStatus {
		fmt.Println(m.Snapshot())
	}
	if cfg.ShowScreen {
		fmt.Printf("%v\n", m.Screen())
	}
	if cfg.Disassemble {
		fmt.Printf("last op: %+v\n", m.CPU.Last)
	}

	return nil
}

func buildMachine(cfg *config.Config) (*machine.Machine, error) {
	ram := machine.NewRAM()

	if cfg.RAMPath != "" {
		data, err := romimage.LoadProgram(cfg.RAMPath)
		if err != nil {
			return nil, err
		}
		ram.LoadAt(cfg.RAMFileAddr, data)
	}

	p := pla.New(ram)

	var kernalLinked bool
	var kernal []byte

	if cfg.ROMPath != "" {
		sys, err := romimage.LoadSystem(cfg.ROMPath)
		if err != nil {
			return nil, err
		}
		if sys.Basic != nil {
			p.Link(pla.BASIC, machine.NewROM(sys.Basic))
		}
		kernal, err = sys.PadKernal()
		if err != nil {
			return nil, err
		}
		if cfg.HasStartAddr {
			kernal[0xFFFC-0xE000] = uint8(cfg.StartAddr)
			kernal[0xFFFD-0xE000] = uint8(cfg.StartAddr >> 8)
		}
		p.Link(pla.KERNAL, machine.NewROM(kernal))
		kernalLinked = true
	}

	if cfg.CharacterROMPath != "" {
		chargen, err := romimage.LoadCharGen(cfg.CharacterROMPath)
		if err != nil {
			return nil, err
		}
		p.Link(pla.CharGen, machine.NewROM(chargen))
	}

	kb := cia.NewKeyboard(stubRowResolver)
	cia1 := cia.NewWithKeyboard(kb)
	cia2 := cia.New()
	p.Link(pla.IO, machine.NewIO(cia1, cia2))

	m := machine.New(p, cia1, cia2)

	// With a KERNAL ROM linked, $FFFC/$FFFD resolve through it under
	// the default boot bank, so the override was already patched into
	// the ROM's own bytes above; only the no-ROM case needs the direct
	// RAM write.
	if cfg.HasStartAddr && !kernalLinked {
		ram.Write(0xFFFC, uint8(cfg.StartAddr))
		ram.Write(0xFFFD, uint8(cfg.StartAddr>>8))
	}

	return m, nil
}

// stubRowResolver is a placeholder (keycode, column) -> row-byte
// resolver. The real scan-code table is screen-code/keymap data owned
// by a front-end; this binary wires the matrix-scan protocol without
// owning that table.
func stubRowResolver(keycode, column uint8) uint8 {
	return 0xFF
}
