package cpu

import "fmt"

type addrMode uint8

const (
	addrModeIMP   addrMode = iota + 1 // Implied
	addrModeACC                       // Accumulator
	addrModeIMM                       // Immediate, width from M or X
	addrModeIMM8                      // Immediate, always one byte
	addrModeIMM16                     // Immediate, always two bytes
	addrModeABS                       // Absolute
	addrModeABSX                      // Absolute X
	addrModeABSY                      // Absolute Y
	addrModeABSL                      // Absolute Long
	addrModeABSLX                     // Absolute Long X
	addrModeDP                        // Direct Page
	addrModeDPX                       // Direct Page X
	addrModeDPY                       // Direct Page Y
	addrModeDPI                       // Direct Page Indirect
	addrModeDPIX                      // Direct Page Indexed Indirect X
	addrModeDPIY                      // Direct Page Indirect Indexed Y
	addrModeDPIL                      // Direct Page Indirect Long
	addrModeDPILY                     // Direct Page Indirect Long Indexed Y
	addrModeSR                        // Stack Relative
	addrModeSRIY                      // Stack Relative Indirect Indexed Y
	addrModeABSI                      // Absolute Indirect
	addrModeABSIX                     // Absolute Indexed Indirect X
	addrModeABSIL                     // Absolute Indirect Long
	addrModeREL                       // Relative
	addrModeRELL                      // Relative Long
	addrModeBLK                       // Block Move
)

var addrModeNames = map[addrMode]string{
	addrModeIMP:   "IMP",
	addrModeACC:   "ACC",
	addrModeIMM:   "IMM",
	addrModeIMM8:  "IMM8",
	addrModeIMM16: "IMM16",
	addrModeABS:   "ABS",
	addrModeABSX:  "ABSX",
	addrModeABSY:  "ABSY",
	addrModeABSL:  "ABSL",
	addrModeABSLX: "ABSLX",
	addrModeDP:    "DP",
	addrModeDPX:   "DPX",
	addrModeDPY:   "DPY",
	addrModeDPI:   "DPI",
	addrModeDPIX:  "DPIX",
	addrModeDPIY:  "DPIY",
	addrModeDPIL:  "DPIL",
	addrModeDPILY: "DPILY",
	addrModeSR:    "SR",
	addrModeSRIY:  "SRIY",
	addrModeABSI:  "ABSI",
	addrModeABSIX: "ABSIX",
	addrModeABSIL: "ABSIL",
	addrModeREL:   "REL",
	addrModeRELL:  "RELL",
	addrModeBLK:   "BLK",
}

func (mode addrMode) String() string {
	if name, ok := addrModeNames[mode]; ok {
		return name
	}
	return "???"
}

func addrModeFromString(s string) (addrMode, error) {
	for mode, name := range addrModeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown address mode %q", s)
}

// wrapMode tells how the address of the second byte of a 16-bit operand
// is formed.
type wrapMode uint8

const (
	wrapLong wrapMode = iota // 24-bit increment, may cross into the next bank
	wrapBank                 // offset wraps inside the bank
	wrapPage                 // low byte wraps inside the page
)

// operand is the effective address of one instruction.
type operand struct {
	addr  uint32
	wrap  wrapMode
	extra uint8 // cycles added by the resolver

	immediate   bool
	accumulator bool

	// page crossing of the old and new PC for relative modes
	crossed bool

	// source and destination banks of block moves
	srcBank uint8
	dstBank uint8
}

// next returns the address n bytes past the operand address.
func (o *operand) next(n uint16) uint32 {
	switch o.wrap {
	case wrapBank:
		return o.addr&0xff0000 | uint32(uint16(o.addr)+n)
	case wrapPage:
		return o.addr&0xffff00 | uint32(uint8(o.addr)+uint8(n))
	}
	return (o.addr + uint32(n)) & 0xffffff
}

func isDiffPage(a, b uint32) bool {
	return a&0xffff00 != b&0xffff00
}

// resolve consumes the operand bytes of in from the instruction stream and
// computes the effective address plus the cycles the mode adds. It never
// touches the operand data itself.
func (c *CPU) resolve(in *instr, w Width) operand {
	r := &c.r
	var o operand

	switch in.mode {
	case addrModeIMP:
		return o

	case addrModeACC:
		o.accumulator = true

	case addrModeIMM:
		o = operand{addr: r.pbpc(), wrap: wrapBank, immediate: true}
		r.PC += w.bytes()

	case addrModeIMM8:
		o = operand{addr: r.pbpc(), wrap: wrapBank, immediate: true}
		r.PC++

	case addrModeIMM16:
		o = operand{addr: r.pbpc(), wrap: wrapBank, immediate: true}
		r.PC += 2

	case addrModeABS:
		o = operand{addr: uint32(r.DB)<<16 | uint32(c.fetch16())}

	case addrModeABSX:
		o = c.indexed(uint32(r.DB)<<16|uint32(c.fetch16()), r.X, in)

	case addrModeABSY:
		o = c.indexed(uint32(r.DB)<<16|uint32(c.fetch16()), r.Y, in)

	case addrModeABSL:
		o = operand{addr: c.fetch24()}

	case addrModeABSLX:
		o = operand{addr: (c.fetch24() + uint32(r.X)) & 0xffffff}

	case addrModeDP:
		o = c.direct(uint16(c.fetch8()), 0)

	case addrModeDPX:
		o = c.direct(uint16(c.fetch8()), r.X)

	case addrModeDPY:
		o = c.direct(uint16(c.fetch8()), r.Y)

	case addrModeDPI:
		ptr := c.direct(uint16(c.fetch8()), 0)
		o = operand{addr: uint32(r.DB)<<16 | uint32(c.readPtr16(&ptr)), extra: ptr.extra}

	case addrModeDPIX:
		ptr := c.direct(uint16(c.fetch8()), r.X)
		o = operand{addr: uint32(r.DB)<<16 | uint32(c.readPtr16(&ptr)), extra: ptr.extra}

	case addrModeDPIY:
		ptr := c.direct(uint16(c.fetch8()), 0)
		o = c.indexed(uint32(r.DB)<<16|uint32(c.readPtr16(&ptr)), r.Y, in)
		o.extra += ptr.extra

	case addrModeDPIL:
		ptr := c.direct(uint16(c.fetch8()), 0)
		o = operand{addr: c.readPtr24(&ptr), extra: ptr.extra}

	case addrModeDPILY:
		ptr := c.direct(uint16(c.fetch8()), 0)
		o = operand{addr: (c.readPtr24(&ptr) + uint32(r.Y)) & 0xffffff, extra: ptr.extra}

	case addrModeSR:
		o = operand{addr: uint32(r.S + uint16(c.fetch8())), wrap: wrapBank}

	case addrModeSRIY:
		ptr := operand{addr: uint32(r.S + uint16(c.fetch8())), wrap: wrapBank}
		o = operand{addr: (uint32(r.DB)<<16 | uint32(c.readPtr16(&ptr))) + uint32(r.Y)}
		o.addr &= 0xffffff

	case addrModeABSI:
		ptr := operand{addr: uint32(c.fetch16()), wrap: wrapBank}
		o = operand{addr: uint32(r.PB)<<16 | uint32(c.readPtr16(&ptr))}

	case addrModeABSIX:
		base := c.fetch16()
		ptr := operand{addr: uint32(r.PB)<<16 | uint32(base+r.X), wrap: wrapBank}
		o = operand{addr: uint32(r.PB)<<16 | uint32(c.readPtr16(&ptr))}

	case addrModeABSIL:
		ptr := operand{addr: uint32(c.fetch16()), wrap: wrapBank}
		o = operand{addr: c.readPtr24(&ptr)}

	case addrModeREL:
		disp := int8(c.fetch8())
		target := r.PC + uint16(disp)
		o = operand{addr: uint32(r.PB)<<16 | uint32(target), wrap: wrapBank}
		o.crossed = isDiffPage(uint32(r.PC), uint32(target))

	case addrModeRELL:
		disp := c.fetch16()
		o = operand{addr: uint32(r.PB)<<16 | uint32(r.PC+disp), wrap: wrapBank}

	case addrModeBLK:
		o.dstBank = c.fetch8()
		o.srcBank = c.fetch8()
	}

	return o
}

// direct forms a direct page address in bank 0. In emulation mode with a
// page aligned D register the index wraps inside the page.
func (c *CPU) direct(offset uint16, index uint16) operand {
	r := &c.r
	o := operand{wrap: wrapBank}
	if c.directPagePenalty() {
		o.extra++
	}

	if r.E && r.D&0x00ff == 0 {
		o.addr = uint32(r.D | uint16(uint8(offset+index)))
		o.wrap = wrapPage
		return o
	}
	o.addr = uint32(r.D + offset + index)
	return o
}

// directPagePenalty reports whether direct page modes take an extra cycle.
func (c *CPU) directPagePenalty() bool {
	if c.strictDirectPage {
		return c.r.D&0x00ff != 0
	}
	return c.r.D != 0
}

// indexed adds index to a 24-bit base. A page crossing costs a cycle only
// for operations that ask for it and only with an 8-bit index.
func (c *CPU) indexed(base uint32, index uint16, in *instr) operand {
	o := operand{addr: (base + uint32(index)) & 0xffffff}
	if in.pagePenalty && c.r.indexWidth() == Width8 && isDiffPage(base, o.addr) {
		o.extra++
	}
	return o
}

func (c *CPU) readPtr16(ptr *operand) uint16 {
	lo := uint16(c.read8(ptr.addr))
	hi := uint16(c.read8(ptr.next(1)))
	return lo | hi<<8
}

func (c *CPU) readPtr24(ptr *operand) uint32 {
	lo := uint32(c.read8(ptr.addr))
	mid := uint32(c.read8(ptr.next(1)))
	hi := uint32(c.read8(ptr.next(2)))
	return lo | mid<<8 | hi<<16
}
