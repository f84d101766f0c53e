package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nevisdale/snestic/internal/bus"
	"github.com/nevisdale/snestic/internal/cpu"
	"github.com/nevisdale/snestic/internal/snes"
	"github.com/nevisdale/snestic/internal/statsview"
	"github.com/pkg/profile"
)

func main() {
	var (
		romPath   = flag.String("rom", "", "path to a LoROM image (.sfc/.smc)")
		cycles    = flag.Int("cycles", 1_000_000, "cycles to run")
		trace     = flag.Bool("trace", false, "print every executed instruction")
		wdmNOP    = flag.Bool("wdm-nop", false, "execute WDM as a two byte NOP")
		profiling = flag.String("profile", "", "write a cpu or mem profile to the working dir")
		stats     = flag.Bool("statsview", false, "serve runtime stats over http (needs the statsview build tag)")
	)
	flag.Parse()

	if *romPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	switch *profiling {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("unknown profile mode %q\n", *profiling)
	}

	if *stats {
		if !statsview.Available() {
			log.Fatalf("statsview is not built in, rebuild with -tags statsview\n")
		}
		statsview.Launch(os.Stdout)
	}

	rom, err := bus.NewROMFromFile(*romPath)
	if err != nil {
		log.Fatalf("couldn't load rom: %s\n", err)
	}

	var opts []cpu.Option
	if *wdmNOP {
		opts = append(opts, cpu.WithWDMAsNOP())
	}
	console, err := snes.NewConsole(rom, opts...)
	if err != nil {
		log.Fatalf("couldn't create console: %s\n", err)
	}

	if *trace {
		core := console.CPU()
		core.SetTracer(func(t cpu.Trace) {
			acc, index := t.Registers.Widths()
			line, _ := core.Disassemble(t.Addr, acc == cpu.Width16, index == cpu.Width16)
			fmt.Printf("%-28s %s\n", line, t.Registers.String())
		})
	}

	if err := console.Reset(); err != nil {
		log.Fatalf("couldn't reset console: %s\n", err)
	}

	done, err := console.RunCycles(*cycles)
	info := console.DebugInfo()
	fmt.Printf("ran %d cycles, total %d\n", done, info.Cycles)
	fmt.Printf("%s\n", info.Registers.String())
	fmt.Printf("%s\n", info.StatusString())
	if err != nil {
		log.Printf("stopped: %s\n", err)
	}
}
