package cpu

import "fmt"

// Interrupt is the kind of an interrupt request.
type Interrupt uint8

const (
	InterruptNMI Interrupt = iota + 1
	InterruptIRQ
	InterruptReset
	InterruptAbort
	InterruptCOP
	InterruptBRK
)

func (k Interrupt) String() string {
	switch k {
	case InterruptNMI:
		return "NMI"
	case InterruptIRQ:
		return "IRQ"
	case InterruptReset:
		return "RESET"
	case InterruptAbort:
		return "ABORT"
	case InterruptCOP:
		return "COP"
	case InterruptBRK:
		return "BRK"
	}
	return "???"
}

// vector returns the bank 0 address of the vector of k.
func (k Interrupt) vector(emulation bool) uint16 {
	if emulation {
		switch k {
		case InterruptCOP:
			return 0xfff4
		case InterruptAbort:
			return 0xfff8
		case InterruptNMI:
			return 0xfffa
		case InterruptReset:
			return 0xfffc
		}
		return 0xfffe // IRQ and BRK
	}

	switch k {
	case InterruptCOP:
		return 0xffe4
	case InterruptBRK:
		return 0xffe6
	case InterruptAbort:
		return 0xffe8
	case InterruptNMI:
		return 0xffea
	case InterruptReset:
		return 0xfffc
	}
	return 0xffee
}

// interruptController latches hardware requests between instructions.
// ABORT and NMI are edges: a request is served once. IRQ is a level: it is
// served for as long as the line is held and I is clear.
type interruptController struct {
	abort bool
	nmi   bool
	irq   bool
}

func (ic *interruptController) raise(kind Interrupt) {
	switch kind {
	case InterruptAbort:
		ic.abort = true
	case InterruptNMI:
		ic.nmi = true
	case InterruptIRQ:
		ic.irq = true
	}
}

func (ic *interruptController) release(kind Interrupt) {
	if kind == InterruptIRQ {
		ic.irq = false
	}
}

// next returns the highest priority request that can be served now.
func (ic *interruptController) next(irqDisabled bool) (Interrupt, bool) {
	switch {
	case ic.abort:
		return InterruptAbort, true
	case ic.nmi:
		return InterruptNMI, true
	case ic.irq && !irqDisabled:
		return InterruptIRQ, true
	}
	return 0, false
}

// ack clears the latch of a served edge triggered request.
func (ic *interruptController) ack(kind Interrupt) {
	switch kind {
	case InterruptAbort:
		ic.abort = false
	case InterruptNMI:
		ic.nmi = false
	}
}

func (ic *interruptController) any() bool {
	return ic.abort || ic.nmi || ic.irq
}

func (ic *interruptController) pending() []Interrupt {
	var kinds []Interrupt
	if ic.abort {
		kinds = append(kinds, InterruptAbort)
	}
	if ic.nmi {
		kinds = append(kinds, InterruptNMI)
	}
	if ic.irq {
		kinds = append(kinds, InterruptIRQ)
	}
	return kinds
}

func (ic *interruptController) clear() {
	*ic = interruptController{}
}

// Raise signals an interrupt request. RESET takes effect immediately;
// ABORT, NMI and IRQ are served at the next instruction boundary. BRK and
// COP are raised by their opcodes only.
func (c *CPU) Raise(kind Interrupt) error {
	switch kind {
	case InterruptReset:
		return c.Reset()
	case InterruptAbort, InterruptNMI, InterruptIRQ:
		c.ints.raise(kind)
		return nil
	}
	return fmt.Errorf("can't raise %s: only opcodes trigger it", kind)
}

// Release deasserts the IRQ line. Edge triggered requests stay latched
// until served.
func (c *CPU) Release(kind Interrupt) {
	c.ints.release(kind)
}

// Pending returns the latched requests in priority order.
func (c *CPU) Pending() []Interrupt {
	return c.ints.pending()
}

// interrupt runs the vectoring sequence of kind and returns its cost.
// Software interrupts reach it through BRK and COP with their signature byte
// already consumed.
func (c *CPU) interrupt(kind Interrupt) int {
	cycles := 7
	if !c.r.E {
		c.stackPush8(c.r.PB)
		cycles++
	}
	c.stackPush16(c.r.PC)

	p := uint8(c.r.P)
	if c.r.E {
		if kind == InterruptBRK {
			p |= flagB
		} else {
			p &^= flagB
		}
	}
	c.stackPush8(p)

	c.r.setFlag(flagI, true)
	c.r.setFlag(flagD, false)
	c.r.PB = 0
	ptr := operand{addr: uint32(kind.vector(c.r.E)), wrap: wrapBank}
	c.r.PC = c.readPtr16(&ptr)
	return cycles
}

func (c *CPU) powerOn() {
	c.r = Registers{
		S: 0x01ff,
		P: Status(flagM | flagX | flagI),
		E: true,
	}
	c.ints.clear()
	c.waiting = false
	c.stopped = false
}

// Reset puts the registers in their power-on state and loads PC from the
// reset vector. Nothing is pushed. Pending requests are dropped.
func (c *CPU) Reset() error {
	c.powerOn()
	c.busCycles = 0
	c.fault = nil

	ptr := operand{addr: uint32(InterruptReset.vector(true)), wrap: wrapBank}
	pc := c.readPtr16(&ptr)
	if c.fault != nil {
		err := c.fault
		c.fault = nil
		return err
	}
	c.r.PC = pc
	c.busCycles = 0
	c.totalCycles = 7
	return nil
}
