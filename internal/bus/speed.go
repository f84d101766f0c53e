package bus

// Speed is the access speed class of a memory region.
type Speed uint8

const (
	Fast Speed = iota
	Slow
	XSlow
)

func (s Speed) String() string {
	switch s {
	case Fast:
		return "fast"
	case Slow:
		return "slow"
	case XSlow:
		return "xslow"
	}
	return "???"
}

// Timing maps each speed class to the wait cycles an access costs on top of
// the instruction's own cycles.
type Timing struct {
	Fast  uint8
	Slow  uint8
	XSlow uint8
}

var DefaultTiming = Timing{Fast: 0, Slow: 1, XSlow: 3}

func (t Timing) wait(s Speed) uint8 {
	switch s {
	case Slow:
		return t.Slow
	case XSlow:
		return t.XSlow
	}
	return t.Fast
}
