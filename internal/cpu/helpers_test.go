package cpu

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
)

type access struct {
	op   string
	addr uint32
	data uint8
}

// testBus is a sparse 24-bit memory that records every access.
type testBus struct {
	data   map[uint32]uint8
	waits  map[uint32]uint8
	faults map[uint32]error
	log    []access
}

func newTestBus() *testBus {
	return &testBus{
		data:   make(map[uint32]uint8),
		waits:  make(map[uint32]uint8),
		faults: make(map[uint32]error),
	}
}

func (b *testBus) reset() {
	maps.Clear(b.data)
	maps.Clear(b.waits)
	maps.Clear(b.faults)
	b.log = b.log[:0]
}

func (b *testBus) load(addr uint32, data ...uint8) {
	for i, d := range data {
		b.data[(addr+uint32(i))&0xffffff] = d
	}
}

func (b *testBus) get(addr uint32) uint8 {
	return b.data[addr]
}

func (b *testBus) Read(addr uint32) (uint8, uint8, error) {
	b.log = append(b.log, access{op: "read", addr: addr, data: b.data[addr]})
	if err := b.faults[addr]; err != nil {
		return 0, 0, err
	}
	return b.data[addr], b.waits[addr], nil
}

func (b *testBus) Write(addr uint32, data uint8) (uint8, error) {
	b.log = append(b.log, access{op: "write", addr: addr, data: data})
	if err := b.faults[addr]; err != nil {
		return 0, err
	}
	b.data[addr] = data
	return b.waits[addr], nil
}

func (b *testBus) writes() []access {
	var out []access
	for _, a := range b.log {
		if a.op == "write" {
			out = append(out, a)
		}
	}
	return out
}

// busMock checks exact access sequences.
type busMock struct {
	mock.Mock
}

func (m *busMock) Read(addr uint32) (uint8, uint8, error) {
	args := m.Called(addr)
	return args.Get(0).(uint8), args.Get(1).(uint8), args.Error(2)
}

func (m *busMock) Write(addr uint32, data uint8) (uint8, error) {
	args := m.Called(addr, data)
	return args.Get(0).(uint8), args.Error(1)
}

const testOrigin = uint32(0x008000)

// newTestCPU returns a core in emulation mode with PC at 00:8000.
func newTestCPU(t *testing.T, opts ...Option) (*CPU, *testBus) {
	t.Helper()
	bus := newTestBus()
	c, err := NewCPU(bus, opts...)
	require.NoError(t, err)
	c.r.PC = uint16(testOrigin)
	return c, bus
}

// setNative leaves emulation mode with the given widths.
func setNative(c *CPU, acc16, index16 bool) {
	c.r.setE(false)
	p := uint8(c.r.P) | flagM | flagX
	if acc16 {
		p &^= flagM
	}
	if index16 {
		p &^= flagX
	}
	c.r.setP(p)
}

func step(t *testing.T, c *CPU) int {
	t.Helper()
	cycles, err := c.Step()
	require.NoError(t, err)
	return cycles
}

// runOne loads code at the origin, lets setup adjust the core and runs one
// step.
func runOne(t *testing.T, setup func(c *CPU, bus *testBus), code ...uint8) (*CPU, *testBus, int) {
	t.Helper()
	c, bus := newTestCPU(t)
	bus.load(testOrigin, code...)
	if setup != nil {
		setup(c, bus)
	}
	cycles := step(t, c)
	return c, bus, cycles
}
