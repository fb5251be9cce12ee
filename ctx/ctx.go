// Package ctx provides the 8-bit adaptive probability context shared by the
// vp8, rans, and fpaq0 codec families — each a simpler alternative to
// H.264/265's 64-state machine, all converging on the same exponential
// update rule.
package ctx

import cabac "github.com/mcroomp/cabac"

// P8 holds a single 8-bit probability estimate: P is the probability,
// scaled to [1,255], that the next bit is 0.
type P8 struct {
	P uint8
}

// New returns a context initialized to the unbiased midpoint, 128/256.
func New() *P8 {
	return &P8{P: 128}
}

func (c *P8) IsContext() {}

var _ cabac.Context = (*P8)(nil)

// Update adjusts P toward the observed bit with an exponential-decay rule:
// a 0 nudges P up toward 256, a 1 nudges it down toward 0, at a rate of
// 1/32nd of the remaining distance. The update keeps P in [1,255] on its
// own: the 0 branch adds at most (256-P)>>5, which can't push P past 255,
// and the 1 branch subtracts at most P>>5, which can't push P below 1.
func (c *P8) Update(bit bool) {
	if !bit {
		c.P += uint8((256 - int(c.P)) >> 5)
	} else {
		c.P -= uint8(int(c.P) >> 5)
	}
}
