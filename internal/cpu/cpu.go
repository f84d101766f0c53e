package cpu

import "fmt"

// Bus is the memory the core talks to. Addresses are 24-bit (bank:offset).
// The returned cycles are wait cycles of the accessed region and are added
// to the cost of the instruction. Reads may have side effects, so the core
// issues exactly the accesses an instruction makes, in order.
type Bus interface {
	Read(addr uint32) (data uint8, cycles uint8, err error)
	Write(addr uint32, data uint8) (cycles uint8, err error)
}

// Peeker is implemented by buses that can read without side effects.
type Peeker interface {
	Peek(addr uint32) uint8
}

// Trace describes the instruction about to be executed.
type Trace struct {
	Addr      uint32
	Opcode    uint8
	Mnemonic  string
	Registers Registers
}

type TraceFunc func(Trace)

type Option func(*CPU)

// WithWDMAsNOP executes the reserved WDM opcode as a two byte no-op instead
// of reporting it as illegal.
func WithWDMAsNOP() Option {
	return func(c *CPU) {
		c.wdmAsNOP = true
	}
}

// WithHardwareDirectPageTiming charges the direct page cycle only when the
// low byte of D is non-zero. By default any non-zero D is charged.
func WithHardwareDirectPageTiming() Option {
	return func(c *CPU) {
		c.strictDirectPage = true
	}
}

func WithTracer(fn TraceFunc) Option {
	return func(c *CPU) {
		c.tracer = fn
	}
}

// CPU is a 65816 core. It is not safe for concurrent use: one goroutine
// drives Step, and Raise/Release must be called from the same goroutine
// between steps.
type CPU struct {
	r      Registers
	bus    Bus
	instrs [0x100]instr
	ints   interruptController

	totalCycles uint64

	// per step accounting
	busCycles uint
	fault     error

	waiting bool // WAI
	stopped bool // STP

	wdmAsNOP         bool
	strictDirectPage bool
	tracer           TraceFunc
}

// NewCPU creates a core attached to bus. The core is powered on: call Reset
// to load the reset vector before stepping.
func NewCPU(bus Bus, opts ...Option) (*CPU, error) {
	instrs, err := parseOpcodeMatrix(opcodeMatrixFileData)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse opcode matrix: %w", err)
	}

	c := &CPU{
		bus:    bus,
		instrs: instrs,
	}
	c.powerOn()
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTracer installs fn to be called before every instruction. nil removes
// the tracer.
func (c *CPU) SetTracer(fn TraceFunc) {
	c.tracer = fn
}

// Registers returns a snapshot of the register file.
func (c *CPU) Registers() Registers {
	return c.r
}

// SetRegisters loads a register file, e.g. from a save state. The state must
// satisfy the width invariants of the processor.
func (c *CPU) SetRegisters(r Registers) error {
	if err := r.validate(); err != nil {
		return err
	}
	c.r = r
	return nil
}

// Cycles returns the number of cycles consumed since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.totalCycles
}

// Waiting reports whether the core is halted by WAI.
func (c *CPU) Waiting() bool {
	return c.waiting
}

// Stopped reports whether the core is halted by STP.
func (c *CPU) Stopped() bool {
	return c.stopped
}

// Step executes one instruction, or services one pending interrupt, and
// returns the cycles it took. On error the register file is left as it was
// before the call.
func (c *CPU) Step() (int, error) {
	if err := c.r.validate(); err != nil {
		return 0, err
	}

	if c.stopped {
		return c.commit(1), nil
	}

	if c.waiting {
		if !c.ints.any() {
			return c.commit(1), nil
		}
		c.waiting = false
	}

	saved := c.r
	c.busCycles = 0
	c.fault = nil

	if kind, ok := c.ints.next(c.r.getFlag(flagI)); ok {
		cycles := c.interrupt(kind)
		if c.fault != nil {
			c.r = saved
			return 0, c.fault
		}
		c.ints.ack(kind)
		return c.commit(cycles), nil
	}

	addr := c.r.pbpc()
	opcode := c.fetch8()
	if c.fault != nil {
		c.r = saved
		return 0, c.fault
	}

	in := &c.instrs[opcode]
	if in.fn == nil || (in.name == "WDM" && !c.wdmAsNOP) {
		c.r = saved
		return 0, &IllegalOpcodeError{Addr: addr, Opcode: opcode}
	}

	if c.tracer != nil {
		c.tracer(Trace{Addr: addr, Opcode: opcode, Mnemonic: in.name, Registers: saved})
	}

	w := in.operandWidth(&c.r)
	cycles := int(in.cycles) + int(in.widthCycles(w))
	if in.nativeExtra && !c.r.E {
		cycles++
	}

	o := c.resolve(in, w)
	cycles += int(o.extra)
	cycles += int(in.fn(c, &o, w))

	if c.fault != nil {
		c.r = saved
		return 0, c.fault
	}
	return c.commit(cycles), nil
}

// RunCycles executes whole instructions until at least budget cycles have
// been consumed and returns the cycles actually consumed.
func (c *CPU) RunCycles(budget int) (int, error) {
	done := 0
	for done < budget {
		n, err := c.Step()
		done += n
		if err != nil {
			return done, err
		}
	}
	return done, nil
}

func (c *CPU) commit(cycles int) int {
	cycles += int(c.busCycles)
	c.busCycles = 0
	c.totalCycles += uint64(cycles)
	return cycles
}

// read8 reads one byte through the bus. After the first fault of a step the
// bus is no longer accessed and reads return 0; Step reports the fault.
func (c *CPU) read8(addr uint32) uint8 {
	if c.fault != nil {
		return 0
	}
	addr &= 0xffffff
	data, cycles, err := c.bus.Read(addr)
	if err != nil {
		c.fault = &BusFaultError{Addr: addr, Err: err}
		return 0
	}
	c.busCycles += uint(cycles)
	return data
}

func (c *CPU) write8(addr uint32, data uint8) {
	if c.fault != nil {
		return
	}
	addr &= 0xffffff
	cycles, err := c.bus.Write(addr, data)
	if err != nil {
		c.fault = &BusFaultError{Addr: addr, Write: true, Err: err}
		return
	}
	c.busCycles += uint(cycles)
}

// readData reads an operand of width w.
func (c *CPU) readData(o *operand, w Width) uint16 {
	lo := uint16(c.read8(o.addr))
	if w == Width8 {
		return lo
	}
	hi := uint16(c.read8(o.next(1)))
	return lo | hi<<8
}

// writeData writes an operand of width w, low byte first.
func (c *CPU) writeData(o *operand, w Width, data uint16) {
	c.write8(o.addr, uint8(data))
	if w == Width16 {
		c.write8(o.next(1), uint8(data>>8))
	}
}

// writeBack stores the result of a read-modify-write. 16-bit results are
// written high byte first.
func (c *CPU) writeBack(o *operand, w Width, data uint16) {
	if w == Width16 {
		c.write8(o.next(1), uint8(data>>8))
	}
	c.write8(o.addr, uint8(data))
}

func (c *CPU) fetch8() uint8 {
	data := c.read8(c.r.pbpc())
	c.r.PC++
	return data
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) fetch24() uint32 {
	lo := uint32(c.fetch16())
	hi := uint32(c.fetch8())
	return lo | hi<<16
}

func (c *CPU) stackPush8(data uint8) {
	c.write8(uint32(c.r.S), data)
	c.r.setS(c.r.S - 1)
}

func (c *CPU) stackPush16(data uint16) {
	c.stackPush8(uint8(data >> 8))
	c.stackPush8(uint8(data))
}

func (c *CPU) stackPop8() uint8 {
	c.r.setS(c.r.S + 1)
	return c.read8(uint32(c.r.S))
}

func (c *CPU) stackPop16() uint16 {
	lo := uint16(c.stackPop8())
	hi := uint16(c.stackPop8())
	return lo | hi<<8
}
