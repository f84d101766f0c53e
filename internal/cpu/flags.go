package cpu

// setNZ updates N and Z from value at width w.
func (r *Registers) setNZ(value uint16, w Width) {
	value &= w.mask()
	r.setFlag(flagZ, value == 0)
	r.setFlag(flagN, value&w.sign() > 0)
}

// add computes a + b + C at width w and updates N, Z, C and, in binary mode,
// V. Decimal mode leaves V as it was.
func (r *Registers) add(a, b uint16, w Width) uint16 {
	a &= w.mask()
	b &= w.mask()

	if r.getFlag(flagD) {
		result, carry := addDecimal(a, b, r.getFlag(flagC), w)
		r.setFlag(flagC, carry)
		r.setNZ(result, w)
		return result
	}

	sum := uint32(a) + uint32(b)
	if r.getFlag(flagC) {
		sum++
	}
	result := uint16(sum) & w.mask()
	r.setFlag(flagC, sum > uint32(w.mask()))
	r.setFlag(flagV, (a^result)&(b^result)&w.sign() > 0)
	r.setNZ(result, w)
	return result
}

// sub computes a - b - !C at width w. C is set when no borrow occurred.
func (r *Registers) sub(a, b uint16, w Width) uint16 {
	a &= w.mask()
	b &= w.mask()

	if r.getFlag(flagD) {
		result, carry := subDecimal(a, b, r.getFlag(flagC), w)
		r.setFlag(flagC, carry)
		r.setNZ(result, w)
		return result
	}

	// binary subtraction is addition of the one's complement
	nb := ^b & w.mask()
	sum := uint32(a) + uint32(nb)
	if r.getFlag(flagC) {
		sum++
	}
	result := uint16(sum) & w.mask()
	r.setFlag(flagC, sum > uint32(w.mask()))
	r.setFlag(flagV, (a^result)&(nb^result)&w.sign() > 0)
	r.setNZ(result, w)
	return result
}

// compare sets N, Z and C as for reg - value without storing the result.
func (r *Registers) compare(reg, value uint16, w Width) {
	reg &= w.mask()
	value &= w.mask()
	r.setFlag(flagC, reg >= value)
	r.setNZ(reg-value, w)
}

// addDecimal adds two BCD numbers one digit at a time. Each digit is
// corrected before its carry moves into the next digit.
func addDecimal(a, b uint16, carry bool, w Width) (uint16, bool) {
	var result uint16
	c := uint16(0)
	if carry {
		c = 1
	}

	for shift := uint16(0); shift < w.bytes()*8; shift += 4 {
		digit := (a>>shift)&0xf + (b>>shift)&0xf + c
		c = 0
		if digit > 9 {
			digit += 6
		}
		if digit > 0xf {
			c = 1
		}
		result |= (digit & 0xf) << shift
	}
	return result, c == 1
}

// subDecimal subtracts two BCD numbers one digit at a time. carry is the
// 65xx "no borrow" flag, both in and out.
func subDecimal(a, b uint16, carry bool, w Width) (uint16, bool) {
	var result uint16
	borrow := 0
	if !carry {
		borrow = 1
	}

	for shift := uint16(0); shift < w.bytes()*8; shift += 4 {
		digit := int((a>>shift)&0xf) - int((b>>shift)&0xf) - borrow
		borrow = 0
		if digit < 0 {
			digit += 10
			borrow = 1
		}
		result |= (uint16(digit) & 0xf) << shift
	}
	return result, borrow == 0
}
