// Package h264 implements the binary arithmetic coder specified by the
// ITU-T H.264/H.265 video standards (commonly called CABAC): a 9-bit range
// register, carry/outstanding-bits bookkeeping, a bypass path for uniformly
// random bits, and a terminating-bin path used to mark end-of-slice.
package h264

import cabac "github.com/mcroomp/cabac"

// Context holds one H.264/265 CABAC context: a 6-bit state index and the
// most-probable-symbol bit for that state. A context's state never escapes
// [0,63]; NewContext starts at state 0, MPS 0, matching the standard's
// initial condition before slice-specific initialization is applied.
type Context struct {
	State uint8
	MPS   uint8
}

// NewContext returns a context in its initial state.
func NewContext() *Context {
	return &Context{State: 0, MPS: 0}
}

func (c *Context) IsContext() {}

var _ cabac.Context = (*Context)(nil)

// update mutates the context toward the observed bit, per the ITU-T
// transition tables: on the MPS branch the state advances along
// transIdxMPS; on the LPS branch it advances along transIdxLPS and, if the
// state it leaves is the all-LPS floor (state 0), the MPS bit flips.
func (c *Context) update(bit int) {
	if bit == int(c.MPS) {
		c.State = transIdxMPS[c.State]
		return
	}
	if c.State == 0 {
		c.MPS ^= 1
	}
	c.State = transIdxLPS[c.State]
}
