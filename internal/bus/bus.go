package bus

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for addresses wider than 24 bits.
	ErrOutOfRange = errors.New("address out of range")
	// ErrNoDevice is returned for IO accesses when no device is attached.
	ErrNoDevice = errors.New("no device attached to the IO window")
)

// memselAddr is the offset of the MEMSEL register in banks 00-3F/80-BF.
// Bit 0 selects fast ROM access for banks 80-FF.
const memselAddr = 0x420d

// Device handles the IO window 2000-5FFF of the system banks.
type Device interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

// Detailed Memory Map (LoROM):
//
// Banks $00-$3F and $80-$BF:
//
//	$0000-$1FFF: Mirror of the first 8 KiB of WRAM
//	$2000-$5FFF: IO registers, forwarded to the attached device
//	$6000-$7FFF: Expansion, mapped to ROM
//	$8000-$FFFF: ROM, 32 KiB per bank
//
// Banks $40-$7D and $C0-$FF: ROM, the 32 KiB bank is mirrored in both halves
//
// Banks $7E-$7F: WRAM, 128 KiB
type Bus struct {
	wram *WRAM
	rom  *ROM
	io   Device

	timing Timing
	memsel uint8
}

func NewBus(rom *ROM) *Bus {
	return &Bus{
		wram:   NewWRAM(),
		rom:    rom,
		timing: DefaultTiming,
	}
}

// SetTiming replaces the wait cycles charged per speed class.
func (b *Bus) SetTiming(t Timing) {
	b.timing = t
}

// AttachIO connects the device serving the IO window.
func (b *Bus) AttachIO(d Device) {
	b.io = d
}

// FastROM reports whether MEMSEL selects fast access for banks 80-FF.
func (b *Bus) FastROM() bool {
	return b.memsel&0x1 > 0
}

func (b *Bus) Read(addr uint32) (uint8, uint8, error) {
	if addr > 0xffffff {
		return 0, 0, fmt.Errorf("read at %08X: %w", addr, ErrOutOfRange)
	}
	cycles := b.timing.wait(b.Speed(addr))

	bank, offset := uint8(addr>>16), uint16(addr)
	switch {
	case bank == 0x7e || bank == 0x7f:
		return b.wram.Read8(addr), cycles, nil
	case isSystemBank(bank) && offset < 0x2000:
		return b.wram.Read8(uint32(offset)), cycles, nil
	case isSystemBank(bank) && offset == memselAddr:
		return b.memsel, cycles, nil
	case isSystemBank(bank) && offset < 0x6000:
		if b.io == nil {
			return 0, 0, fmt.Errorf("read at %06X: %w", addr, ErrNoDevice)
		}
		return b.io.Read8(offset), cycles, nil
	}
	return b.rom.Read8(addr), cycles, nil
}

func (b *Bus) Write(addr uint32, data uint8) (uint8, error) {
	if addr > 0xffffff {
		return 0, fmt.Errorf("write at %08X: %w", addr, ErrOutOfRange)
	}
	cycles := b.timing.wait(b.Speed(addr))

	bank, offset := uint8(addr>>16), uint16(addr)
	switch {
	case bank == 0x7e || bank == 0x7f:
		b.wram.Write8(addr, data)
	case isSystemBank(bank) && offset < 0x2000:
		b.wram.Write8(uint32(offset), data)
	case isSystemBank(bank) && offset == memselAddr:
		b.memsel = data
	case isSystemBank(bank) && offset < 0x6000:
		if b.io == nil {
			return 0, fmt.Errorf("write at %06X: %w", addr, ErrNoDevice)
		}
		b.io.Write8(offset, data)
	default:
		// ROM ignores writes
	}
	return cycles, nil
}

// Peek reads memory without side effects. IO registers read as 0.
func (b *Bus) Peek(addr uint32) uint8 {
	if addr > 0xffffff {
		return 0
	}
	bank, offset := uint8(addr>>16), uint16(addr)
	switch {
	case bank == 0x7e || bank == 0x7f:
		return b.wram.Read8(addr)
	case isSystemBank(bank) && offset < 0x2000:
		return b.wram.Read8(uint32(offset))
	case isSystemBank(bank) && offset == memselAddr:
		return b.memsel
	case isSystemBank(bank) && offset < 0x6000:
		return 0
	}
	return b.rom.Read8(addr)
}

// Speed returns the access speed class of addr.
func (b *Bus) Speed(addr uint32) Speed {
	bank, offset := uint8(addr>>16), uint16(addr)

	if bank >= 0x40 && bank < 0x80 {
		return Slow
	}
	if bank >= 0xc0 {
		return b.romSpeed()
	}

	switch {
	case offset < 0x2000:
		return Slow
	case offset < 0x4000:
		return Fast
	case offset < 0x4200:
		return XSlow
	case offset < 0x6000:
		return Fast
	case offset < 0x8000:
		return Slow
	}
	if bank >= 0x80 {
		return b.romSpeed()
	}
	return Slow
}

func (b *Bus) romSpeed() Speed {
	if b.FastROM() {
		return Fast
	}
	return Slow
}

// isSystemBank reports banks 00-3F and 80-BF, which carry the WRAM mirror
// and the IO window in their lower half.
func isSystemBank(bank uint8) bool {
	return bank&0x40 == 0
}
