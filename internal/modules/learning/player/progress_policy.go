package player

import "math"

// progressPolicy decides which progress samples are written. It only
// de-duplicates against the last value sent; lower values after a backward
// seek are still sent and the store keeps the maximum.
type progressPolicy struct {
	lastPosted int
	reached100 bool
}

func newProgressPolicy() progressPolicy {
	return progressPolicy{lastPosted: -1}
}

// next returns the value to write for sample p, if any, and records it as sent.
func (pp *progressPolicy) next(p float64) (int, bool) {
	if pp.reached100 || math.IsNaN(p) {
		return 0, false
	}
	r := int(math.Round(p))
	if r < 0 {
		r = 0
	}
	if r%5 != 0 && r < 98 {
		return 0, false
	}
	v := r
	if r >= 98 {
		v = 100
	}
	if v == pp.lastPosted {
		return 0, false
	}
	pp.lastPosted = v
	return v, true
}

// complete returns whether the terminal 100 still needs sending.
func (pp *progressPolicy) complete() bool {
	if pp.reached100 || pp.lastPosted == 100 {
		return false
	}
	pp.lastPosted = 100
	return true
}

// failed re-arms v so the next matching sample sends it again.
func (pp *progressPolicy) failed(v int) {
	if pp.lastPosted == v {
		pp.lastPosted = -1
	}
}

func (pp *progressPolicy) confirm(v int) {
	if v == 100 {
		pp.reached100 = true
	}
}
