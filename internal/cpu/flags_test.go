package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisters_Add(t *testing.T) {
	type flags struct {
		c, z, v, n bool
	}

	testDo := func(t *testing.T, a, b uint16, w Width, p uint8, want uint16, wantFlags flags) {
		t.Helper()
		r := &Registers{P: Status(p)}
		got := r.add(a, b, w)
		assert.Equal(t, want, got, "result")
		assert.Equal(t, wantFlags.c, r.getFlag(flagC), "C flag")
		assert.Equal(t, wantFlags.z, r.getFlag(flagZ), "Z flag")
		assert.Equal(t, wantFlags.v, r.getFlag(flagV), "V flag")
		assert.Equal(t, wantFlags.n, r.getFlag(flagN), "N flag")
	}

	t.Run("signed overflow 8-bit", func(t *testing.T) {
		testDo(t, 0x7f, 0x01, Width8, 0, 0x80, flags{n: true, v: true})
	})
	t.Run("carry in 8-bit", func(t *testing.T) {
		testDo(t, 0x10, 0x20, Width8, flagC, 0x31, flags{})
	})
	t.Run("carry out 8-bit", func(t *testing.T) {
		testDo(t, 0xff, 0x01, Width8, 0, 0x00, flags{c: true, z: true})
	})
	t.Run("signed overflow 16-bit", func(t *testing.T) {
		testDo(t, 0x7fff, 0x0001, Width16, 0, 0x8000, flags{n: true, v: true})
	})
	t.Run("carry out 16-bit", func(t *testing.T) {
		testDo(t, 0xffff, 0x0001, Width16, 0, 0x0000, flags{c: true, z: true})
	})
	t.Run("decimal digit carry keeps V", func(t *testing.T) {
		testDo(t, 0x09, 0x01, Width8, flagD|flagV, 0x10, flags{v: true})
	})
	t.Run("decimal wrap", func(t *testing.T) {
		testDo(t, 0x99, 0x01, Width8, flagD, 0x00, flags{c: true, z: true})
	})
	t.Run("decimal 16-bit", func(t *testing.T) {
		testDo(t, 0x1234, 0x8766, Width16, flagD, 0x0000, flags{c: true, z: true})
	})
	t.Run("decimal 16-bit with carry in", func(t *testing.T) {
		testDo(t, 0x0199, 0x0000, Width16, flagD|flagC, 0x0200, flags{})
	})
}

func TestRegisters_Sub(t *testing.T) {
	type flags struct {
		c, z, v, n bool
	}

	testDo := func(t *testing.T, a, b uint16, w Width, p uint8, want uint16, wantFlags flags) {
		t.Helper()
		r := &Registers{P: Status(p)}
		got := r.sub(a, b, w)
		assert.Equal(t, want, got, "result")
		assert.Equal(t, wantFlags.c, r.getFlag(flagC), "C flag")
		assert.Equal(t, wantFlags.z, r.getFlag(flagZ), "Z flag")
		assert.Equal(t, wantFlags.v, r.getFlag(flagV), "V flag")
		assert.Equal(t, wantFlags.n, r.getFlag(flagN), "N flag")
	}

	t.Run("no borrow", func(t *testing.T) {
		testDo(t, 0x10, 0x01, Width8, flagC, 0x0f, flags{c: true})
	})
	t.Run("borrow in", func(t *testing.T) {
		testDo(t, 0x10, 0x01, Width8, 0, 0x0e, flags{c: true})
	})
	t.Run("borrow out", func(t *testing.T) {
		testDo(t, 0x00, 0x01, Width8, flagC, 0xff, flags{n: true})
	})
	t.Run("signed overflow 8-bit", func(t *testing.T) {
		// 127 - (-1)
		testDo(t, 0x7f, 0xff, Width8, flagC, 0x80, flags{n: true, v: true})
	})
	t.Run("signed overflow 16-bit", func(t *testing.T) {
		// -32768 - 1
		testDo(t, 0x8000, 0x0001, Width16, flagC, 0x7fff, flags{c: true, v: true})
	})
	t.Run("decimal", func(t *testing.T) {
		testDo(t, 0x10, 0x01, Width8, flagD|flagC, 0x09, flags{c: true})
	})
	t.Run("decimal borrow out", func(t *testing.T) {
		testDo(t, 0x00, 0x01, Width8, flagD|flagC, 0x99, flags{n: true})
	})
	t.Run("decimal 16-bit", func(t *testing.T) {
		testDo(t, 0x1000, 0x0001, Width16, flagD|flagC, 0x0999, flags{c: true})
	})
}

func TestRegisters_Compare(t *testing.T) {
	r := &Registers{}

	r.compare(0x10, 0x10, Width8)
	assert.True(t, r.getFlag(flagZ), "Z flag")
	assert.True(t, r.getFlag(flagC), "C flag")
	assert.False(t, r.getFlag(flagN), "N flag")

	r.compare(0x0f, 0x10, Width8)
	assert.False(t, r.getFlag(flagZ), "Z flag")
	assert.False(t, r.getFlag(flagC), "C flag")
	assert.True(t, r.getFlag(flagN), "N flag")

	// only the low byte counts at 8 bits
	r.compare(0x1220, 0x0010, Width8)
	assert.True(t, r.getFlag(flagC), "C flag")
	assert.False(t, r.getFlag(flagN), "N flag")

	r.compare(0x8000, 0x0001, Width16)
	assert.True(t, r.getFlag(flagC), "C flag")
	assert.False(t, r.getFlag(flagN), "N flag")
}
