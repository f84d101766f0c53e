package snes

import (
	"strings"

	"github.com/nevisdale/snestic/internal/cpu"
)

type DebugInfo struct {
	cpu.Registers
	Cycles  uint64
	Waiting bool
	Stopped bool
	Paused  bool
	Halted  bool
}

func (c *Console) DebugInfo() DebugInfo {
	return DebugInfo{
		Registers: c.cpu.Registers(),
		Cycles:    c.cpu.Cycles(),
		Waiting:   c.cpu.Waiting(),
		Stopped:   c.cpu.Stopped(),
		Paused:    c.paused,
		Halted:    c.halted,
	}
}

// StatusString renders P, the mode and the run state, e.g. "nvMXdIzc E WAI".
func (d DebugInfo) StatusString() string {
	var sb strings.Builder
	sb.WriteString(d.P.String())
	if d.E {
		sb.WriteString(" E")
	} else {
		sb.WriteString(" N")
	}
	switch {
	case d.Halted:
		sb.WriteString(" HALTED")
	case d.Stopped:
		sb.WriteString(" STP")
	case d.Waiting:
		sb.WriteString(" WAI")
	}
	if d.Paused {
		sb.WriteString(" PAUSED")
	}
	return sb.String()
}
