package snes

import (
	"errors"
	"fmt"
	"log"

	"github.com/nevisdale/snestic/internal/bus"
	"github.com/nevisdale/snestic/internal/cpu"
)

// ErrHalted is returned by Step once the console stopped on an illegal
// opcode. Reset clears it.
var ErrHalted = errors.New("console is halted")

// Clocked is a collaborator kept in sync with the CPU, e.g. a PPU or APU.
// Tick receives the cycles of every step in the order the collaborators were
// added.
type Clocked interface {
	Tick(cycles int)
}

// Interrupts lets collaborators signal the CPU.
type Interrupts struct {
	cpu *cpu.CPU
}

func (i Interrupts) Raise(kind cpu.Interrupt) error {
	return i.cpu.Raise(kind)
}

func (i Interrupts) Release(kind cpu.Interrupt) {
	i.cpu.Release(kind)
}

type Console struct {
	cpu     *cpu.CPU
	bus     *bus.Bus
	clocked []Clocked

	paused   bool
	stepOnce bool
	halted   bool
}

// NewConsole wires a CPU to a LoROM bus holding rom. Call Reset before
// stepping.
func NewConsole(rom *bus.ROM, opts ...cpu.Option) (*Console, error) {
	b := bus.NewBus(rom)
	c, err := cpu.NewCPU(b, opts...)
	if err != nil {
		return nil, fmt.Errorf("couldn't create cpu: %w", err)
	}
	return &Console{
		cpu: c,
		bus: b,
	}, nil
}

func (c *Console) Bus() *bus.Bus {
	return c.bus
}

func (c *Console) CPU() *cpu.CPU {
	return c.cpu
}

// AttachIO connects the device serving the IO registers.
func (c *Console) AttachIO(d bus.Device) {
	c.bus.AttachIO(d)
}

func (c *Console) AddClocked(cl Clocked) {
	c.clocked = append(c.clocked, cl)
}

func (c *Console) Interrupts() Interrupts {
	return Interrupts{cpu: c.cpu}
}

func (c *Console) Reset() error {
	if err := c.cpu.Reset(); err != nil {
		return fmt.Errorf("couldn't reset cpu: %w", err)
	}
	c.halted = false
	c.stepOnce = false
	return nil
}

// Step runs one CPU step and forwards its cycles to the collaborators. A
// paused console returns 0 cycles and no error.
func (c *Console) Step() (int, error) {
	if c.halted {
		return 0, ErrHalted
	}
	if c.paused && !c.stepOnce {
		return 0, nil
	}
	c.stepOnce = false

	cycles, err := c.cpu.Step()
	if err != nil {
		log.Printf("cpu step failed: %s\n", err)
		var illegal *cpu.IllegalOpcodeError
		if errors.As(err, &illegal) {
			log.Printf("halting...\n")
			c.halted = true
		}
		return 0, err
	}

	for _, cl := range c.clocked {
		cl.Tick(cycles)
	}
	return cycles, nil
}

// RunCycles steps until budget cycles are consumed, an error occurs or the
// console is paused.
func (c *Console) RunCycles(budget int) (int, error) {
	done := 0
	for done < budget {
		n, err := c.Step()
		if err != nil {
			return done, err
		}
		if n == 0 {
			break
		}
		done += n
	}
	return done, nil
}

func (c *Console) TogglePause() {
	c.paused = !c.paused
	c.stepOnce = false
}

// OneStepAndStop pauses the console after the next step.
func (c *Console) OneStepAndStop() {
	c.paused = true
	c.stepOnce = true
}

func (c *Console) Paused() bool {
	return c.paused
}

func (c *Console) Halted() bool {
	return c.halted
}

// Listing disassembles n instructions from the program counter with the
// current register widths.
func (c *Console) Listing(n int) []string {
	r := c.cpu.Registers()
	acc, index := r.Widths()
	addr := uint32(r.PB)<<16 | uint32(r.PC)

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, size := c.cpu.Disassemble(addr, acc == cpu.Width16, index == cpu.Width16)
		lines = append(lines, line)
		addr = uint32(r.PB)<<16 | uint32(uint16(addr)+uint16(size))
	}
	return lines
}
