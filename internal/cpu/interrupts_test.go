package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterrupt_Vector(t *testing.T) {
	tests := []struct {
		kind      Interrupt
		emulation uint16
		native    uint16
	}{
		{InterruptCOP, 0xfff4, 0xffe4},
		{InterruptBRK, 0xfffe, 0xffe6},
		{InterruptAbort, 0xfff8, 0xffe8},
		{InterruptNMI, 0xfffa, 0xffea},
		{InterruptReset, 0xfffc, 0xfffc},
		{InterruptIRQ, 0xfffe, 0xffee},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.emulation, tt.kind.vector(true), "emulation vector")
			assert.Equal(t, tt.native, tt.kind.vector(false), "native vector")
		})
	}
}

func TestCPU_IRQ(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.load(testOrigin, 0xea, 0x58) // NOP; CLI
	bus.load(0x00fffe, 0x00, 0x90)
	require.NoError(t, c.Raise(InterruptIRQ))

	// masked: the next instruction runs instead
	before := c.Registers()
	assert.Equal(t, 2, step(t, c))
	assert.Equal(t, uint16(0x8001), c.r.PC, "PC register")
	assert.Equal(t, before.P, c.r.P, "P register")
	assert.Equal(t, before.S, c.r.S, "S register")
	assert.Empty(t, bus.writes())
	assert.Equal(t, []Interrupt{InterruptIRQ}, c.Pending())

	step(t, c) // CLI
	assert.False(t, c.r.getFlag(flagI), "I flag")

	assert.Equal(t, 7, step(t, c))
	assert.Equal(t, uint16(0x9000), c.r.PC, "PC register")
	assert.Equal(t, uint16(0x01fc), c.r.S, "S register")
	assert.True(t, c.r.getFlag(flagI), "I flag")
	assert.Equal(t, []access{
		{op: "write", addr: 0x0001ff, data: 0x80},
		{op: "write", addr: 0x0001fe, data: 0x02},
		{op: "write", addr: 0x0001fd, data: flagM},
	}, bus.writes())

	// level triggered: still asserted until released
	assert.Equal(t, []Interrupt{InterruptIRQ}, c.Pending())
	c.Release(InterruptIRQ)
	assert.Empty(t, c.Pending())
}

func TestCPU_IRQNative(t *testing.T) {
	c, bus := newTestCPU(t)
	setNative(c, false, false)
	c.r.setS(0x1fff)
	c.r.setFlag(flagI, false)
	c.r.setFlag(flagD, true)
	c.r.PB = 0x01
	bus.load(0x00ffee, 0x00, 0xa0)
	require.NoError(t, c.Raise(InterruptIRQ))

	assert.Equal(t, 8, step(t, c))
	assert.Equal(t, uint8(0x00), c.r.PB, "PB register")
	assert.Equal(t, uint16(0xa000), c.r.PC, "PC register")
	assert.Equal(t, uint16(0x1ffb), c.r.S, "S register")
	assert.True(t, c.r.getFlag(flagI), "I flag")
	assert.False(t, c.r.getFlag(flagD), "D flag")
	assert.Equal(t, []access{
		{op: "write", addr: 0x001fff, data: 0x01},
		{op: "write", addr: 0x001ffe, data: 0x80},
		{op: "write", addr: 0x001ffd, data: 0x00},
		{op: "write", addr: 0x001ffc, data: flagM | flagX | flagD},
	}, bus.writes())
}

func TestCPU_NMI(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.load(0x00fffa, 0x00, 0x90)
	require.NoError(t, c.Raise(InterruptNMI))

	// not masked by I
	assert.Equal(t, 7, step(t, c))
	assert.Equal(t, uint16(0x9000), c.r.PC, "PC register")
	assert.Empty(t, c.Pending(), "NMI is served once")
	assert.Equal(t, uint8(flagM|flagI), bus.get(0x0001fd))
}

func TestCPU_InterruptPriority(t *testing.T) {
	c, bus := newTestCPU(t)
	c.r.setFlag(flagI, false)
	bus.load(0x00fff8, 0x00, 0x91) // ABORT
	bus.load(0x00fffa, 0x00, 0x92) // NMI
	bus.load(0x00fffe, 0x00, 0x93) // IRQ
	bus.load(0x009200, 0xea)

	require.NoError(t, c.Raise(InterruptIRQ))
	require.NoError(t, c.Raise(InterruptNMI))
	require.NoError(t, c.Raise(InterruptAbort))
	assert.Equal(t, []Interrupt{InterruptAbort, InterruptNMI, InterruptIRQ}, c.Pending())

	step(t, c)
	assert.Equal(t, uint16(0x9100), c.r.PC, "ABORT first")
	step(t, c)
	assert.Equal(t, uint16(0x9200), c.r.PC, "NMI second")

	// I is set by the vectoring, IRQ waits
	assert.Equal(t, 2, step(t, c))
	assert.Equal(t, uint16(0x9201), c.r.PC, "PC register")
}

func TestCPU_Abort(t *testing.T) {
	c, bus := newTestCPU(t)
	setNative(c, false, false)
	bus.load(0x00ffe8, 0x34, 0x12)
	require.NoError(t, c.Raise(InterruptAbort))

	assert.Equal(t, 8, step(t, c))
	assert.Equal(t, uint16(0x1234), c.r.PC, "PC register")
}

func TestCPU_Reset(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.load(0x00fffc, 0x00, 0x80)

	// scramble the state
	setNative(c, true, false)
	c.r.A = 0x1234
	c.r.X = 0x5678
	c.r.Y = 0x9abc
	c.r.S = 0x1234
	c.r.D = 0x4321
	c.r.DB = 0x7e
	c.r.PB = 0x12
	c.r.PC = 0xdead
	c.r.setFlag(flagD, true)
	c.stopped = true
	require.NoError(t, c.Raise(InterruptNMI))
	require.NoError(t, c.Raise(InterruptIRQ))

	require.NoError(t, c.Raise(InterruptReset))

	assert.Equal(t, Registers{
		S:  0x01ff,
		PC: 0x8000,
		P:  Status(flagM | flagX | flagI),
		E:  true,
	}, c.Registers())
	assert.Empty(t, c.Pending())
	assert.False(t, c.Stopped())
	assert.Equal(t, uint64(7), c.Cycles())
	assert.Empty(t, bus.writes(), "reset pushes nothing")
}

func TestCPU_ResetFault(t *testing.T) {
	c, bus := newTestCPU(t)
	errBus := errors.New("open bus")
	bus.faults[0x00fffd] = errBus

	err := c.Reset()
	var fault *BusFaultError
	require.ErrorAs(t, err, &fault)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, uint32(0x00fffd), fault.Addr)
}

func TestCPU_RaiseSoftwareInterrupt(t *testing.T) {
	c, _ := newTestCPU(t)
	assert.Error(t, c.Raise(InterruptBRK))
	assert.Error(t, c.Raise(InterruptCOP))
	assert.Empty(t, c.Pending())
}

func TestCPU_BRK(t *testing.T) {
	t.Run("emulation pushes B set", func(t *testing.T) {
		c, bus, cycles := runOne(t, func(c *CPU, bus *testBus) {
			c.r.setFlag(flagD, true)
			bus.load(0x00fffe, 0x00, 0x90)
		}, 0x00, 0xff)
		assert.Equal(t, 7, cycles)
		assert.Equal(t, uint16(0x9000), c.r.PC, "PC register")
		assert.False(t, c.r.getFlag(flagD), "D flag")
		assert.Equal(t, []access{
			{op: "write", addr: 0x0001ff, data: 0x80},
			{op: "write", addr: 0x0001fe, data: 0x02},
			{op: "write", addr: 0x0001fd, data: flagM | flagB | flagD | flagI},
		}, bus.writes())
	})

	t.Run("native", func(t *testing.T) {
		c, bus, cycles := runOne(t, func(c *CPU, bus *testBus) {
			setNative(c, false, false)
			bus.load(0x00ffe6, 0x00, 0x90)
		}, 0x00, 0xff)
		assert.Equal(t, 8, cycles)
		assert.Equal(t, uint16(0x9000), c.r.PC, "PC register")
		assert.Len(t, bus.writes(), 4)
	})

	t.Run("COP emulation", func(t *testing.T) {
		c, _, cycles := runOne(t, func(_ *CPU, bus *testBus) {
			bus.load(0x00fff4, 0x00, 0x90)
		}, 0x02, 0x00)
		assert.Equal(t, 7, cycles)
		assert.Equal(t, uint16(0x9000), c.r.PC, "PC register")
	})

	t.Run("COP native", func(t *testing.T) {
		c, _, cycles := runOne(t, func(c *CPU, bus *testBus) {
			setNative(c, false, false)
			bus.load(0x00ffe4, 0x00, 0x90)
		}, 0x02, 0x00)
		assert.Equal(t, 8, cycles)
		assert.Equal(t, uint16(0x9000), c.r.PC, "PC register")
	})
}

func TestCPU_RTI(t *testing.T) {
	t.Run("native pops the program bank", func(t *testing.T) {
		c, _, cycles := runOne(t, func(c *CPU, bus *testBus) {
			setNative(c, false, false)
			c.r.setS(0x1ffc)
			bus.load(0x001ffd, 0x00, 0x34, 0x12, 0x05)
		}, 0x40)
		assert.Equal(t, 7, cycles)
		assert.Equal(t, uint8(0x05), c.r.PB, "PB register")
		assert.Equal(t, uint16(0x1234), c.r.PC, "PC register")
		assert.Equal(t, Width16, c.r.accWidth())
		assert.Equal(t, uint16(0x2000), c.r.S, "S register")
	})

	t.Run("emulation keeps widths forced", func(t *testing.T) {
		c, _, cycles := runOne(t, func(c *CPU, bus *testBus) {
			c.r.setS(0x01fc)
			bus.load(0x0001fd, 0x00, 0x34, 0x12)
		}, 0x40)
		assert.Equal(t, 6, cycles)
		assert.Equal(t, uint16(0x1234), c.r.PC, "PC register")
		assert.Equal(t, Status(flagM|flagX), c.r.P, "P register")
		assert.Equal(t, uint16(0x01ff), c.r.S, "S register")
	})

	t.Run("round trip", func(t *testing.T) {
		c, bus := newTestCPU(t)
		c.r.setFlag(flagI, false)
		c.r.setFlag(flagC, true)
		bus.load(testOrigin, 0xea)
		bus.load(0x00fffa, 0x00, 0x90)
		bus.load(0x009000, 0x40)
		require.NoError(t, c.Raise(InterruptNMI))

		before := c.Registers()
		step(t, c)
		step(t, c)
		assert.Equal(t, before, c.Registers())
	})
}

func TestCPU_WAI(t *testing.T) {
	t.Run("resumes on a masked IRQ", func(t *testing.T) {
		c, bus := newTestCPU(t)
		bus.load(testOrigin, 0xcb, 0xea)

		assert.Equal(t, 3, step(t, c))
		assert.True(t, c.Waiting())

		assert.Equal(t, 1, step(t, c))
		assert.Equal(t, 1, step(t, c))
		assert.Equal(t, uint16(0x8001), c.r.PC, "PC register")

		require.NoError(t, c.Raise(InterruptIRQ))
		assert.Equal(t, 2, step(t, c))
		assert.False(t, c.Waiting())
		assert.Equal(t, uint16(0x8002), c.r.PC, "PC register")
	})

	t.Run("NMI returns after WAI", func(t *testing.T) {
		c, bus := newTestCPU(t)
		bus.load(testOrigin, 0xcb)
		bus.load(0x00fffa, 0x00, 0x90)

		step(t, c)
		require.NoError(t, c.Raise(InterruptNMI))
		assert.Equal(t, 7, step(t, c))
		assert.Equal(t, uint16(0x9000), c.r.PC, "PC register")
		assert.Equal(t, uint8(0x01), bus.get(0x0001fe), "pushed PC is past WAI")
	})
}

func TestCPU_STP(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.load(testOrigin, 0xdb)
	bus.load(0x00fffc, 0x00, 0x80)

	assert.Equal(t, 3, step(t, c))
	assert.True(t, c.Stopped())

	require.NoError(t, c.Raise(InterruptNMI))
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, step(t, c))
	}
	assert.Equal(t, uint16(0x8001), c.r.PC, "PC register")

	require.NoError(t, c.Raise(InterruptReset))
	assert.False(t, c.Stopped())
	assert.Equal(t, uint16(0x8000), c.r.PC, "PC register")
}
