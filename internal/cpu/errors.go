package cpu

import "fmt"

// IllegalOpcodeError is returned by Step when the byte at the program
// counter does not decode to an operation. The register file is left as it
// was before the step.
type IllegalOpcodeError struct {
	Addr   uint32 // PB:PC of the opcode byte
	Opcode uint8
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode %02X at %02X:%04X", e.Opcode, uint8(e.Addr>>16), uint16(e.Addr))
}

// BusFaultError wraps an error returned by the Bus. The step that hit it is
// abandoned.
type BusFaultError struct {
	Addr  uint32
	Write bool
	Err   error
}

func (e *BusFaultError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("bus fault on %s at %02X:%04X: %s", op, uint8(e.Addr>>16), uint16(e.Addr), e.Err)
}

func (e *BusFaultError) Unwrap() error {
	return e.Err
}

// InvariantViolationError reports a register file state the processor can
// never reach on its own, e.g. 16-bit accumulator while in emulation mode.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Reason
}
