package cpu

import "fmt"

// opFunc applies an operation to its resolved operand at width w and
// returns the cycles it adds on top of the table.
type opFunc func(c *CPU, o *operand, w Width) uint8

var mnemonics = map[string]opFunc{
	"ADC": (*CPU).adc, "AND": (*CPU).and, "ASL": (*CPU).asl, "BCC": (*CPU).bcc,
	"BCS": (*CPU).bcs, "BEQ": (*CPU).beq, "BIT": (*CPU).bit, "BMI": (*CPU).bmi,
	"BNE": (*CPU).bne, "BPL": (*CPU).bpl, "BRA": (*CPU).bra, "BRK": (*CPU).brk,
	"BRL": (*CPU).brl, "BVC": (*CPU).bvc, "BVS": (*CPU).bvs, "CLC": (*CPU).clc,
	"CLD": (*CPU).cld, "CLI": (*CPU).cli, "CLV": (*CPU).clv, "CMP": (*CPU).cmp,
	"COP": (*CPU).cop, "CPX": (*CPU).cpx, "CPY": (*CPU).cpy, "DEC": (*CPU).dec,
	"DEX": (*CPU).dex, "DEY": (*CPU).dey, "EOR": (*CPU).eor, "INC": (*CPU).inc,
	"INX": (*CPU).inx, "INY": (*CPU).iny, "JML": (*CPU).jml, "JMP": (*CPU).jmp,
	"JSL": (*CPU).jsl, "JSR": (*CPU).jsr, "LDA": (*CPU).lda, "LDX": (*CPU).ldx,
	"LDY": (*CPU).ldy, "LSR": (*CPU).lsr, "MVN": (*CPU).mvn, "MVP": (*CPU).mvp,
	"NOP": (*CPU).nop, "ORA": (*CPU).ora, "PEA": (*CPU).pea, "PEI": (*CPU).pei,
	"PER": (*CPU).per, "PHA": (*CPU).pha, "PHB": (*CPU).phb, "PHD": (*CPU).phd,
	"PHK": (*CPU).phk, "PHP": (*CPU).php, "PHX": (*CPU).phx, "PHY": (*CPU).phy,
	"PLA": (*CPU).pla, "PLB": (*CPU).plb, "PLD": (*CPU).pld, "PLP": (*CPU).plp,
	"PLX": (*CPU).plx, "PLY": (*CPU).ply, "REP": (*CPU).rep, "ROL": (*CPU).rol,
	"ROR": (*CPU).ror, "RTI": (*CPU).rti, "RTL": (*CPU).rtl, "RTS": (*CPU).rts,
	"SBC": (*CPU).sbc, "SEC": (*CPU).sec, "SED": (*CPU).sed, "SEI": (*CPU).sei,
	"SEP": (*CPU).sep, "STA": (*CPU).sta, "STP": (*CPU).stp, "STX": (*CPU).stx,
	"STY": (*CPU).sty, "STZ": (*CPU).stz, "TAX": (*CPU).tax, "TAY": (*CPU).tay,
	"TCD": (*CPU).tcd, "TCS": (*CPU).tcs, "TDC": (*CPU).tdc, "TRB": (*CPU).trb,
	"TSB": (*CPU).tsb, "TSC": (*CPU).tsc, "TSX": (*CPU).tsx, "TXA": (*CPU).txa,
	"TXS": (*CPU).txs, "TXY": (*CPU).txy, "TYA": (*CPU).tya, "TYX": (*CPU).tyx,
	"WAI": (*CPU).wai, "WDM": (*CPU).nop, "XBA": (*CPU).xba, "XCE": (*CPU).xce,
}

func opcodeFuncFromMnemonic(name string) (opFunc, error) {
	fn, ok := mnemonics[name]
	if !ok {
		return nil, fmt.Errorf("unknown mnemonic %q", name)
	}
	return fn, nil
}

// Loads and stores

func (c *CPU) lda(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	c.r.setAcc(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) ldx(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	c.r.setX(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) ldy(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	c.r.setY(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) sta(o *operand, w Width) uint8 {
	c.writeData(o, w, c.r.acc(w))
	return 0
}

func (c *CPU) stx(o *operand, w Width) uint8 {
	c.writeData(o, w, c.r.X)
	return 0
}

func (c *CPU) sty(o *operand, w Width) uint8 {
	c.writeData(o, w, c.r.Y)
	return 0
}

func (c *CPU) stz(o *operand, w Width) uint8 {
	c.writeData(o, w, 0)
	return 0
}

// Arithmetic and logic

func (c *CPU) adc(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	c.r.setAcc(c.r.add(c.r.acc(w), v, w))
	return 0
}

func (c *CPU) sbc(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	c.r.setAcc(c.r.sub(c.r.acc(w), v, w))
	return 0
}

func (c *CPU) and(o *operand, w Width) uint8 {
	v := c.r.acc(w) & c.readData(o, w)
	c.r.setAcc(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) ora(o *operand, w Width) uint8 {
	v := c.r.acc(w) | c.readData(o, w)
	c.r.setAcc(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) eor(o *operand, w Width) uint8 {
	v := c.r.acc(w) ^ c.readData(o, w)
	c.r.setAcc(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) cmp(o *operand, w Width) uint8 {
	c.r.compare(c.r.acc(w), c.readData(o, w), w)
	return 0
}

func (c *CPU) cpx(o *operand, w Width) uint8 {
	c.r.compare(c.r.X, c.readData(o, w), w)
	return 0
}

func (c *CPU) cpy(o *operand, w Width) uint8 {
	c.r.compare(c.r.Y, c.readData(o, w), w)
	return 0
}

// bit sets Z from A&M. Except for the immediate form, N and V are copied
// from the two top bits of the operand.
func (c *CPU) bit(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	c.r.setFlag(flagZ, c.r.acc(w)&v == 0)
	if o.immediate {
		return 0
	}
	c.r.setFlag(flagN, v&w.sign() > 0)
	c.r.setFlag(flagV, v&(w.sign()>>1) > 0)
	return 0
}

// Read-modify-write

// modify applies fn to the accumulator or to memory at o.
func (c *CPU) modify(o *operand, w Width, accumulator bool, fn func(v uint16) uint16) {
	if accumulator {
		v := fn(c.r.acc(w))
		c.r.setAcc(v)
		c.r.setNZ(v, w)
		return
	}
	v := fn(c.readData(o, w)) & w.mask()
	c.r.setNZ(v, w)
	c.writeBack(o, w, v)
}

func (c *CPU) asl(o *operand, w Width) uint8 {
	c.modify(o, w, o.accumulator, func(v uint16) uint16 {
		c.r.setFlag(flagC, v&w.sign() > 0)
		return (v << 1) & w.mask()
	})
	return 0
}

func (c *CPU) lsr(o *operand, w Width) uint8 {
	c.modify(o, w, o.accumulator, func(v uint16) uint16 {
		c.r.setFlag(flagC, v&1 > 0)
		return v >> 1
	})
	return 0
}

func (c *CPU) rol(o *operand, w Width) uint8 {
	c.modify(o, w, o.accumulator, func(v uint16) uint16 {
		carry := uint16(0)
		if c.r.getFlag(flagC) {
			carry = 1
		}
		c.r.setFlag(flagC, v&w.sign() > 0)
		return (v<<1 | carry) & w.mask()
	})
	return 0
}

func (c *CPU) ror(o *operand, w Width) uint8 {
	c.modify(o, w, o.accumulator, func(v uint16) uint16 {
		carry := uint16(0)
		if c.r.getFlag(flagC) {
			carry = w.sign()
		}
		c.r.setFlag(flagC, v&1 > 0)
		return v>>1 | carry
	})
	return 0
}

func (c *CPU) inc(o *operand, w Width) uint8 {
	c.modify(o, w, o.accumulator, func(v uint16) uint16 {
		return (v + 1) & w.mask()
	})
	return 0
}

func (c *CPU) dec(o *operand, w Width) uint8 {
	c.modify(o, w, o.accumulator, func(v uint16) uint16 {
		return (v - 1) & w.mask()
	})
	return 0
}

func (c *CPU) tsb(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	a := c.r.acc(w)
	c.r.setFlag(flagZ, a&v == 0)
	c.writeBack(o, w, v|a)
	return 0
}

func (c *CPU) trb(o *operand, w Width) uint8 {
	v := c.readData(o, w)
	a := c.r.acc(w)
	c.r.setFlag(flagZ, a&v == 0)
	c.writeBack(o, w, v&^a)
	return 0
}

// Index registers

func (c *CPU) inx(_ *operand, _ Width) uint8 {
	c.r.setX(c.r.X + 1)
	c.r.setNZ(c.r.X, c.r.indexWidth())
	return 0
}

func (c *CPU) iny(_ *operand, _ Width) uint8 {
	c.r.setY(c.r.Y + 1)
	c.r.setNZ(c.r.Y, c.r.indexWidth())
	return 0
}

func (c *CPU) dex(_ *operand, _ Width) uint8 {
	c.r.setX(c.r.X - 1)
	c.r.setNZ(c.r.X, c.r.indexWidth())
	return 0
}

func (c *CPU) dey(_ *operand, _ Width) uint8 {
	c.r.setY(c.r.Y - 1)
	c.r.setNZ(c.r.Y, c.r.indexWidth())
	return 0
}

// Branches

// branchIf moves PC to the target when condition holds. A taken branch costs
// a cycle, and one more in emulation mode when it lands in another page.
func (c *CPU) branchIf(o *operand, condition bool) uint8 {
	if !condition {
		return 0
	}
	extra := uint8(1)
	if c.r.E && o.crossed {
		extra++
	}
	c.r.PC = uint16(o.addr)
	return extra
}

func (c *CPU) bcc(o *operand, _ Width) uint8 { return c.branchIf(o, !c.r.getFlag(flagC)) }
func (c *CPU) bcs(o *operand, _ Width) uint8 { return c.branchIf(o, c.r.getFlag(flagC)) }
func (c *CPU) beq(o *operand, _ Width) uint8 { return c.branchIf(o, c.r.getFlag(flagZ)) }
func (c *CPU) bne(o *operand, _ Width) uint8 { return c.branchIf(o, !c.r.getFlag(flagZ)) }
func (c *CPU) bmi(o *operand, _ Width) uint8 { return c.branchIf(o, c.r.getFlag(flagN)) }
func (c *CPU) bpl(o *operand, _ Width) uint8 { return c.branchIf(o, !c.r.getFlag(flagN)) }
func (c *CPU) bvc(o *operand, _ Width) uint8 { return c.branchIf(o, !c.r.getFlag(flagV)) }
func (c *CPU) bvs(o *operand, _ Width) uint8 { return c.branchIf(o, c.r.getFlag(flagV)) }
func (c *CPU) bra(o *operand, _ Width) uint8 { return c.branchIf(o, true) }

func (c *CPU) brl(o *operand, _ Width) uint8 {
	c.r.PC = uint16(o.addr)
	return 0
}

// Jumps and subroutines

func (c *CPU) jmp(o *operand, _ Width) uint8 {
	c.r.PC = uint16(o.addr)
	return 0
}

func (c *CPU) jml(o *operand, _ Width) uint8 {
	c.r.PB = uint8(o.addr >> 16)
	c.r.PC = uint16(o.addr)
	return 0
}

func (c *CPU) jsr(o *operand, _ Width) uint8 {
	c.stackPush16(c.r.PC - 1)
	c.r.PC = uint16(o.addr)
	return 0
}

func (c *CPU) jsl(o *operand, _ Width) uint8 {
	c.stackPush8(c.r.PB)
	c.stackPush16(c.r.PC - 1)
	c.r.PB = uint8(o.addr >> 16)
	c.r.PC = uint16(o.addr)
	return 0
}

func (c *CPU) rts(_ *operand, _ Width) uint8 {
	c.r.PC = c.stackPop16() + 1
	return 0
}

func (c *CPU) rtl(_ *operand, _ Width) uint8 {
	c.r.PC = c.stackPop16() + 1
	c.r.PB = c.stackPop8()
	return 0
}

func (c *CPU) rti(_ *operand, _ Width) uint8 {
	c.r.setP(c.stackPop8())
	c.r.PC = c.stackPop16()
	if !c.r.E {
		c.r.PB = c.stackPop8()
	}
	return 0
}

// Software interrupts

func (c *CPU) brk(_ *operand, _ Width) uint8 {
	c.softwareInterrupt(InterruptBRK)
	return 0
}

func (c *CPU) cop(_ *operand, _ Width) uint8 {
	c.softwareInterrupt(InterruptCOP)
	return 0
}

// softwareInterrupt vectors like a hardware request; the cycles are already
// in the table.
func (c *CPU) softwareInterrupt(kind Interrupt) {
	_ = c.interrupt(kind)
}

// Stack

func (c *CPU) pha(_ *operand, w Width) uint8 {
	c.pushWidth(c.r.acc(w), w)
	return 0
}

func (c *CPU) phx(_ *operand, w Width) uint8 {
	c.pushWidth(c.r.X, w)
	return 0
}

func (c *CPU) phy(_ *operand, w Width) uint8 {
	c.pushWidth(c.r.Y, w)
	return 0
}

func (c *CPU) pla(_ *operand, w Width) uint8 {
	v := c.popWidth(w)
	c.r.setAcc(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) plx(_ *operand, w Width) uint8 {
	v := c.popWidth(w)
	c.r.setX(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) ply(_ *operand, w Width) uint8 {
	v := c.popWidth(w)
	c.r.setY(v)
	c.r.setNZ(v, w)
	return 0
}

func (c *CPU) php(_ *operand, _ Width) uint8 {
	c.stackPush8(uint8(c.r.P))
	return 0
}

func (c *CPU) plp(_ *operand, _ Width) uint8 {
	c.r.setP(c.stackPop8())
	return 0
}

func (c *CPU) phb(_ *operand, _ Width) uint8 {
	c.stackPush8(c.r.DB)
	return 0
}

func (c *CPU) plb(_ *operand, _ Width) uint8 {
	c.r.DB = c.stackPop8()
	c.r.setNZ(uint16(c.r.DB), Width8)
	return 0
}

func (c *CPU) phd(_ *operand, _ Width) uint8 {
	c.stackPush16(c.r.D)
	return 0
}

func (c *CPU) pld(_ *operand, _ Width) uint8 {
	c.r.D = c.stackPop16()
	c.r.setNZ(c.r.D, Width16)
	return 0
}

func (c *CPU) phk(_ *operand, _ Width) uint8 {
	c.stackPush8(c.r.PB)
	return 0
}

func (c *CPU) pea(o *operand, _ Width) uint8 {
	c.stackPush16(c.readData(o, Width16))
	return 0
}

func (c *CPU) pei(o *operand, _ Width) uint8 {
	c.stackPush16(c.readData(o, Width16))
	return 0
}

func (c *CPU) per(o *operand, _ Width) uint8 {
	c.stackPush16(uint16(o.addr))
	return 0
}

func (c *CPU) pushWidth(v uint16, w Width) {
	if w == Width16 {
		c.stackPush16(v)
		return
	}
	c.stackPush8(uint8(v))
}

func (c *CPU) popWidth(w Width) uint16 {
	if w == Width16 {
		return c.stackPop16()
	}
	return uint16(c.stackPop8())
}

// Transfers

func (c *CPU) tax(_ *operand, _ Width) uint8 {
	c.r.setX(c.r.A)
	c.r.setNZ(c.r.X, c.r.indexWidth())
	return 0
}

func (c *CPU) tay(_ *operand, _ Width) uint8 {
	c.r.setY(c.r.A)
	c.r.setNZ(c.r.Y, c.r.indexWidth())
	return 0
}

func (c *CPU) txa(_ *operand, _ Width) uint8 {
	c.r.setAcc(c.r.X)
	c.r.setNZ(c.r.A, c.r.accWidth())
	return 0
}

func (c *CPU) tya(_ *operand, _ Width) uint8 {
	c.r.setAcc(c.r.Y)
	c.r.setNZ(c.r.A, c.r.accWidth())
	return 0
}

func (c *CPU) txy(_ *operand, _ Width) uint8 {
	c.r.setY(c.r.X)
	c.r.setNZ(c.r.Y, c.r.indexWidth())
	return 0
}

func (c *CPU) tyx(_ *operand, _ Width) uint8 {
	c.r.setX(c.r.Y)
	c.r.setNZ(c.r.X, c.r.indexWidth())
	return 0
}

func (c *CPU) tsx(_ *operand, _ Width) uint8 {
	c.r.setX(c.r.S)
	c.r.setNZ(c.r.X, c.r.indexWidth())
	return 0
}

func (c *CPU) txs(_ *operand, _ Width) uint8 {
	c.r.setS(c.r.X)
	return 0
}

func (c *CPU) tcd(_ *operand, _ Width) uint8 {
	c.r.D = c.r.A
	c.r.setNZ(c.r.D, Width16)
	return 0
}

func (c *CPU) tdc(_ *operand, _ Width) uint8 {
	c.r.A = c.r.D
	c.r.setNZ(c.r.A, Width16)
	return 0
}

func (c *CPU) tcs(_ *operand, _ Width) uint8 {
	c.r.setS(c.r.A)
	return 0
}

func (c *CPU) tsc(_ *operand, _ Width) uint8 {
	c.r.A = c.r.S
	c.r.setNZ(c.r.A, Width16)
	return 0
}

// xba swaps the two accumulator bytes. Flags follow the new low byte.
func (c *CPU) xba(_ *operand, _ Width) uint8 {
	c.r.A = c.r.A<<8 | c.r.A>>8
	c.r.setNZ(c.r.A, Width8)
	return 0
}

// Status

func (c *CPU) clc(_ *operand, _ Width) uint8 { c.r.setFlag(flagC, false); return 0 }
func (c *CPU) sec(_ *operand, _ Width) uint8 { c.r.setFlag(flagC, true); return 0 }
func (c *CPU) cli(_ *operand, _ Width) uint8 { c.r.setFlag(flagI, false); return 0 }
func (c *CPU) sei(_ *operand, _ Width) uint8 { c.r.setFlag(flagI, true); return 0 }
func (c *CPU) cld(_ *operand, _ Width) uint8 { c.r.setFlag(flagD, false); return 0 }
func (c *CPU) sed(_ *operand, _ Width) uint8 { c.r.setFlag(flagD, true); return 0 }
func (c *CPU) clv(_ *operand, _ Width) uint8 { c.r.setFlag(flagV, false); return 0 }

func (c *CPU) rep(o *operand, _ Width) uint8 {
	mask := c.readData(o, Width8)
	c.r.setP(uint8(c.r.P) &^ uint8(mask))
	return 0
}

func (c *CPU) sep(o *operand, _ Width) uint8 {
	mask := c.readData(o, Width8)
	c.r.setP(uint8(c.r.P) | uint8(mask))
	return 0
}

// xce exchanges the carry and emulation flags.
func (c *CPU) xce(_ *operand, _ Width) uint8 {
	carry := c.r.getFlag(flagC)
	c.r.setFlag(flagC, c.r.E)
	c.r.setE(carry)
	return 0
}

// Block moves

// mvn copies one byte per execution and repeats the instruction until the
// accumulator wraps to 0xFFFF.
func (c *CPU) mvn(o *operand, _ Width) uint8 {
	c.blockMove(o, 1)
	return 0
}

func (c *CPU) mvp(o *operand, _ Width) uint8 {
	c.blockMove(o, 0xffff)
	return 0
}

func (c *CPU) blockMove(o *operand, step uint16) {
	c.r.DB = o.dstBank
	v := c.read8(uint32(o.srcBank)<<16 | uint32(c.r.X))
	c.write8(uint32(o.dstBank)<<16|uint32(c.r.Y), v)
	c.r.setX(c.r.X + step)
	c.r.setY(c.r.Y + step)
	c.r.A--
	if c.r.A != 0xffff {
		c.r.PC -= 3
	}
}

// Misc

func (c *CPU) nop(_ *operand, _ Width) uint8 { return 0 }

func (c *CPU) wai(_ *operand, _ Width) uint8 {
	c.waiting = true
	return 0
}

func (c *CPU) stp(_ *operand, _ Width) uint8 {
	c.stopped = true
	return 0
}
