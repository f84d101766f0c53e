package bus

const wramSizeBytes = 0x20000

// WRAM is the 128 KiB work RAM of banks 7E-7F.
type WRAM struct {
	ram [wramSizeBytes]uint8
}

func NewWRAM() *WRAM {
	return &WRAM{}
}

// Read8 reads at addr, wrapped to 17 bits.
func (w *WRAM) Read8(addr uint32) uint8 {
	return w.ram[addr&(wramSizeBytes-1)]
}

func (w *WRAM) Write8(addr uint32, data uint8) {
	w.ram[addr&(wramSizeBytes-1)] = data
}
