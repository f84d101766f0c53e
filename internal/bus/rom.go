package bus

import (
	"fmt"
	"os"
)

const (
	romBankSizeBytes = 0x8000

	// copiers prepend a 512 byte header to the image
	copierHeaderSizeBytes = 0x200
)

// ROM is a cartridge image mapped LoROM: every bank holds 32 KiB.
type ROM struct {
	mem []uint8
}

func NewROM(data []uint8) *ROM {
	return &ROM{mem: data}
}

// NewROMFromFile reads a raw .sfc/.smc image. A copier header is dropped.
func NewROMFromFile(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the file: %w", err)
	}
	if len(data)%0x400 == copierHeaderSizeBytes {
		data = data[copierHeaderSizeBytes:]
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty rom image")
	}
	return NewROM(data), nil
}

func (r *ROM) Size() int {
	if r == nil {
		return 0
	}
	return len(r.mem)
}

func (r *ROM) mapAddr(addr uint32) int {
	bank := int(addr>>16) & 0x7f
	return (bank*romBankSizeBytes + int(addr&0x7fff)) % len(r.mem)
}

// Read8 reads at a 24-bit address. Images smaller than the address space
// are mirrored.
func (r *ROM) Read8(addr uint32) uint8 {
	if r.Size() == 0 {
		return 0
	}
	return r.mem[r.mapAddr(addr)]
}
