package cpu

import "fmt"

// Disassemble renders the instruction at addr and returns it with its length
// in bytes. accWide and indexWide select the size of immediate operands, as
// M=0 and X=0 would. The bus is read through Peek when it has one; otherwise
// plain reads are issued and their side effects happen.
func (c *CPU) Disassemble(addr uint32, accWide, indexWide bool) (string, int) {
	addr &= 0xffffff
	bank := uint8(addr >> 16)
	pc := uint16(addr)

	peek := func(n uint16) uint8 {
		a := uint32(bank)<<16 | uint32(pc+n)
		if p, ok := c.bus.(Peeker); ok {
			return p.Peek(a)
		}
		data, _, _ := c.bus.Read(a)
		return data
	}
	op8 := func() uint8 { return peek(1) }
	op16 := func() uint16 { return uint16(peek(1)) | uint16(peek(2))<<8 }
	op24 := func() uint32 { return uint32(op16()) | uint32(peek(3))<<16 }

	opcode := peek(0)
	in := c.instrs[opcode]
	prefix := fmt.Sprintf("%02X:%04X: ", bank, pc)
	if in.fn == nil {
		return prefix + "???", 1
	}

	var text string
	size := 1
	switch in.mode {
	case addrModeIMP:
		text = in.name
	case addrModeACC:
		text = in.name + " A"
	case addrModeIMM:
		wide := (in.width == widthM && accWide) || (in.width == widthX && indexWide)
		if wide {
			text, size = fmt.Sprintf("%s #$%04X", in.name, op16()), 3
		} else {
			text, size = fmt.Sprintf("%s #$%02X", in.name, op8()), 2
		}
	case addrModeIMM8:
		text, size = fmt.Sprintf("%s #$%02X", in.name, op8()), 2
	case addrModeIMM16:
		text, size = fmt.Sprintf("%s $%04X", in.name, op16()), 3
	case addrModeABS:
		text, size = fmt.Sprintf("%s $%04X", in.name, op16()), 3
	case addrModeABSX:
		text, size = fmt.Sprintf("%s $%04X,X", in.name, op16()), 3
	case addrModeABSY:
		text, size = fmt.Sprintf("%s $%04X,Y", in.name, op16()), 3
	case addrModeABSL:
		text, size = fmt.Sprintf("%s $%06X", in.name, op24()), 4
	case addrModeABSLX:
		text, size = fmt.Sprintf("%s $%06X,X", in.name, op24()), 4
	case addrModeDP:
		if in.name == "PEI" {
			text, size = fmt.Sprintf("%s ($%02X)", in.name, op8()), 2
		} else {
			text, size = fmt.Sprintf("%s $%02X", in.name, op8()), 2
		}
	case addrModeDPX:
		text, size = fmt.Sprintf("%s $%02X,X", in.name, op8()), 2
	case addrModeDPY:
		text, size = fmt.Sprintf("%s $%02X,Y", in.name, op8()), 2
	case addrModeDPI:
		text, size = fmt.Sprintf("%s ($%02X)", in.name, op8()), 2
	case addrModeDPIX:
		text, size = fmt.Sprintf("%s ($%02X,X)", in.name, op8()), 2
	case addrModeDPIY:
		text, size = fmt.Sprintf("%s ($%02X),Y", in.name, op8()), 2
	case addrModeDPIL:
		text, size = fmt.Sprintf("%s [$%02X]", in.name, op8()), 2
	case addrModeDPILY:
		text, size = fmt.Sprintf("%s [$%02X],Y", in.name, op8()), 2
	case addrModeSR:
		text, size = fmt.Sprintf("%s $%02X,S", in.name, op8()), 2
	case addrModeSRIY:
		text, size = fmt.Sprintf("%s ($%02X,S),Y", in.name, op8()), 2
	case addrModeABSI:
		text, size = fmt.Sprintf("%s ($%04X)", in.name, op16()), 3
	case addrModeABSIX:
		text, size = fmt.Sprintf("%s ($%04X,X)", in.name, op16()), 3
	case addrModeABSIL:
		text, size = fmt.Sprintf("%s [$%04X]", in.name, op16()), 3
	case addrModeREL:
		target := pc + 2 + uint16(int8(op8()))
		text, size = fmt.Sprintf("%s $%04X", in.name, target), 2
	case addrModeRELL:
		target := pc + 3 + op16()
		text, size = fmt.Sprintf("%s $%04X", in.name, target), 3
	case addrModeBLK:
		// operand bytes are destination then source, syntax is src,dst
		text, size = fmt.Sprintf("%s $%02X,$%02X", in.name, peek(2), peek(1)), 3
	}

	return prefix + text, size
}
