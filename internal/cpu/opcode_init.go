package cpu

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Cycle counts follow the WDC W65C816S datasheet. The cycles column is the
// cost with 8-bit operands, D=0 and no page crossing; the width and timing
// columns say what to add on top of it.
//
//go:embed opcode_matrix.csv
var opcodeMatrixFileData []byte

// widthSource says which flag selects the operand width of an operation.
type widthSource uint8

const (
	widthNone widthSource = iota // fixed width, no width dependent cycles
	widthM                       // accumulator/memory width
	widthX                       // index width
)

func widthSourceFromString(s string) (widthSource, error) {
	switch s {
	case "-":
		return widthNone, nil
	case "m":
		return widthM, nil
	case "x":
		return widthX, nil
	}
	return 0, fmt.Errorf("unknown width %q", s)
}

type instr struct {
	name   string
	mode   addrMode
	fn     opFunc
	cycles uint8
	width  widthSource

	rmw         bool // 16-bit operand costs two cycles instead of one
	pagePenalty bool // page crossing with an 8-bit index costs a cycle
	nativeExtra bool // native mode costs a cycle (bank byte on the stack)
}

// operandWidth resolves the width of in from the current flags.
func (in *instr) operandWidth(r *Registers) Width {
	switch in.width {
	case widthM:
		return r.accWidth()
	case widthX:
		return r.indexWidth()
	}
	return Width8
}

// widthCycles is the cost of a 16-bit operand over an 8-bit one.
func (in *instr) widthCycles(w Width) uint8 {
	if in.width == widthNone || in.mode == addrModeACC || w == Width8 {
		return 0
	}
	if in.rmw {
		return 2
	}
	return 1
}

func parseOpcodeMatrix(data []byte) ([0x100]instr, error) {
	var instrs [0x100]instr

	r := csv.NewReader(bytes.NewReader(data))
	r.Comment = '#'
	r.ReuseRecord = true
	_, _ = r.Read() // skip header

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return instrs, fmt.Errorf("couldn't read data from csv: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		if len(record) != 6 {
			return instrs, fmt.Errorf("invalid format for the record: %s: must be 6 parts", strings.Join(record, string(r.Comma)))
		}

		opcodeByte, err := strconv.ParseUint(record[0], 0, 8)
		if err != nil {
			return instrs, fmt.Errorf("invalid format for opcode byte: %w", err)
		}

		fn, err := opcodeFuncFromMnemonic(record[1])
		if err != nil {
			return instrs, fmt.Errorf("invalid format for mnemonic: %w", err)
		}

		mode, err := addrModeFromString(record[2])
		if err != nil {
			return instrs, fmt.Errorf("invalid format for address mode: %w", err)
		}

		cycles, err := strconv.ParseUint(record[3], 0, 8)
		if err != nil {
			return instrs, fmt.Errorf("invalid format for opcode cycles: %w", err)
		}

		width, err := widthSourceFromString(record[4])
		if err != nil {
			return instrs, fmt.Errorf("invalid format for width: %w", err)
		}

		in := instr{
			name:   record[1],
			fn:     fn,
			mode:   mode,
			cycles: uint8(cycles),
			width:  width,
		}
		for _, t := range record[5] {
			switch t {
			case '-':
			case 'r':
				in.rmw = true
			case 'p':
				in.pagePenalty = true
			case 'n':
				in.nativeExtra = true
			default:
				return instrs, fmt.Errorf("invalid timing modifier %q for opcode %02X", t, opcodeByte)
			}
		}
		instrs[opcodeByte] = in
	}

	return instrs, nil
}
