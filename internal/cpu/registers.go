package cpu

import (
	"fmt"
	"strings"
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // IRQ Disable
	flagD                    // Decimal Mode
	flagX                    // Index Width (Break in emulation mode)
	flagM                    // Accumulator Width
	flagV                    // Overflow
	flagN                    // Negative

	flagB = flagX
)

// Status is the processor status register P.
type Status uint8

func (p Status) has(flag uint8) bool {
	return uint8(p)&flag > 0
}

// String renders the flags as NVMXDIZC, upper case when set.
func (p Status) String() string {
	const names = "nvmxdizc"
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		c := names[i]
		if uint8(p)&(0x80>>i) > 0 {
			c -= 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Width is the operand size an operation works with. It is picked once per
// instruction from the M or X flag.
type Width uint8

const (
	Width8 Width = iota + 1
	Width16
)

func (w Width) mask() uint16 {
	if w == Width8 {
		return 0x00ff
	}
	return 0xffff
}

func (w Width) sign() uint16 {
	if w == Width8 {
		return 0x0080
	}
	return 0x8000
}

func (w Width) bytes() uint16 {
	if w == Width8 {
		return 1
	}
	return 2
}

func (w Width) String() string {
	switch w {
	case Width8:
		return "8"
	case Width16:
		return "16"
	}
	return "?"
}

// Registers is the programmer visible register file of the 65816.
type Registers struct {
	A  uint16 // C: B (high) and A (low)
	X  uint16
	Y  uint16
	S  uint16
	D  uint16
	PC uint16
	PB uint8
	DB uint8
	P  Status
	E  bool
}

func (r *Registers) String() string {
	mode := "N"
	if r.E {
		mode = "E"
	}
	return fmt.Sprintf("PC:%02X:%04X A:%04X X:%04X Y:%04X S:%04X D:%04X DB:%02X P:%s %s",
		r.PB, r.PC, r.A, r.X, r.Y, r.S, r.D, r.DB, r.P, mode)
}

func (r *Registers) getFlag(flag uint8) bool {
	return r.P.has(flag)
}

func (r *Registers) setFlag(flag uint8, v bool) {
	if v {
		r.P |= Status(flag)
		return
	}
	r.P &= ^Status(flag)
}

// setP loads the status register and applies the width forcing rules.
func (r *Registers) setP(v uint8) {
	r.P = Status(v)
	r.enforce()
}

// setE switches between emulation and native mode.
func (r *Registers) setE(e bool) {
	r.E = e
	r.enforce()
}

// enforce applies the forcing rules of emulation mode and of 8-bit index
// registers. It is called after every change of P or E.
func (r *Registers) enforce() {
	if r.E {
		r.P |= Status(flagM | flagX)
		r.S = 0x0100 | r.S&0x00ff
	}
	if r.P.has(flagX) {
		r.X &= 0x00ff
		r.Y &= 0x00ff
	}
}

// validate reports states the forcing rules make unreachable.
func (r *Registers) validate() error {
	if r.E {
		if !r.P.has(flagM) || !r.P.has(flagX) {
			return &InvariantViolationError{Reason: fmt.Sprintf("emulation mode with 16-bit width flags (P=%s)", r.P)}
		}
		if r.S&0xff00 != 0x0100 {
			return &InvariantViolationError{Reason: fmt.Sprintf("emulation mode with stack pointer outside page 1 (S=%04X)", r.S)}
		}
	}
	if r.P.has(flagX) && (r.X&0xff00 != 0 || r.Y&0xff00 != 0) {
		return &InvariantViolationError{Reason: fmt.Sprintf("8-bit index registers with high bytes set (X=%04X Y=%04X)", r.X, r.Y)}
	}
	return nil
}

func (r *Registers) accWidth() Width {
	if r.P.has(flagM) {
		return Width8
	}
	return Width16
}

func (r *Registers) indexWidth() Width {
	if r.P.has(flagX) {
		return Width8
	}
	return Width16
}

// Widths returns the accumulator and index widths selected by P.
func (r *Registers) Widths() (acc, index Width) {
	return r.accWidth(), r.indexWidth()
}

// acc returns the accumulator at width w.
func (r *Registers) acc(w Width) uint16 {
	return r.A & w.mask()
}

// setAcc writes the accumulator at the current M width. In 8-bit mode the
// hidden high byte B is kept.
func (r *Registers) setAcc(v uint16) {
	if r.accWidth() == Width8 {
		r.A = r.A&0xff00 | v&0x00ff
		return
	}
	r.A = v
}

func (r *Registers) setX(v uint16) {
	r.X = v & r.indexWidth().mask()
}

func (r *Registers) setY(v uint16) {
	r.Y = v & r.indexWidth().mask()
}

// setS writes the stack pointer. Emulation mode pins it to page 1.
func (r *Registers) setS(v uint16) {
	if r.E {
		v = 0x0100 | v&0x00ff
	}
	r.S = v
}

// pbpc is the 24-bit address of the program counter.
func (r *Registers) pbpc() uint32 {
	return uint32(r.PB)<<16 | uint32(r.PC)
}
