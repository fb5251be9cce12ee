// Package rans implements a byte-renormalized binary range variant of
// Asymmetric Numeral Systems: a 32-bit state x, 8-bit probability
// resolution, and the classic rANS trick of encoding symbols in the
// reverse of their logical order so a decoder can read the resulting
// byte stream forward and recover them in original order.
package rans

import (
	cabac "github.com/mcroomp/cabac"
	"github.com/mcroomp/cabac/ctx"
)

// ransL is the lower renormalization bound for an 8-bit-scale byte-wise
// rANS coder (state stays in [ransL, ransL*256) between symbols).
const ransL = uint32(1) << 16

type op struct {
	bit bool
	p   uint8
}

// Encoder buffers every coded bit (with the probability in effect at the
// time it was coded) and performs the actual rANS state transitions only
// at Finish, processing them in reverse order as the algorithm requires.
type Encoder struct {
	ops    []op
	chrono []byte
}

// NewEncoder returns an empty encoder. rANS has no use for an external
// sink mid-stream: nothing can be emitted until every symbol is known, so
// Finish is solely responsible for producing bytes.
func NewEncoder() *Encoder {
	return &Encoder{}
}

var _ cabac.Coder = (*Encoder)(nil)

// Put records bit against context c's current probability, then advances
// c exactly as a forward decode would.
func (e *Encoder) Put(bit bool, c cabac.Context) error {
	p := c.(*ctx.P8)
	e.ops = append(e.ops, op{bit: bit, p: p.P})
	p.Update(bit)
	return nil
}

// PutBypass records bit against the fixed bypass probability of 128.
func (e *Encoder) PutBypass(bit bool) error {
	e.ops = append(e.ops, op{bit: bit, p: 128})
	return nil
}

func (e *Encoder) push(b byte) {
	e.chrono = append(e.chrono, b)
}

// Finish runs the rANS state machine over every recorded symbol in
// reverse, then flushes the final 32-bit state. The reverse-order state
// transitions push renormalization bytes that, read back to front, form
// exactly the stream a forward decoder expects.
func (e *Encoder) Finish() ([]byte, error) {
	x := ransL
	for i := len(e.ops) - 1; i >= 0; i-- {
		o := e.ops[i]
		var start, freq uint32
		if o.bit {
			start, freq = uint32(o.p), uint32(256-int(o.p))
		} else {
			start, freq = 0, uint32(o.p)
		}
		xMax := ((ransL >> 8) << 8) * freq
		for x >= xMax {
			e.push(byte(x & 0xff))
			x >>= 8
		}
		x = (x/freq)<<8 + (x % freq) + start
	}
	// Flush the final state as 4 bytes, pushed MSB-first so that, after
	// the trailing reversal, the bytes land LSB-first at the very start
	// of the stream where NewDecoder expects them.
	e.push(byte(x >> 24))
	e.push(byte(x >> 16))
	e.push(byte(x >> 8))
	e.push(byte(x))

	out := make([]byte, len(e.chrono))
	for i, b := range e.chrono {
		out[len(e.chrono)-1-i] = b
	}
	return out, nil
}

// Decoder reads a rANS stream forward, recovering symbols in their
// original logical order.
type Decoder struct {
	data []byte
	pos  int
	x    uint32
}

// NewDecoder returns a decoder over an rANS stream produced by Encoder.
// data shorter than 4 bytes is treated as zero-padded.
func NewDecoder(data []byte) *Decoder {
	d := &Decoder{data: data}
	d.x = uint32(d.readByteAt(0)) | uint32(d.readByteAt(1))<<8 |
		uint32(d.readByteAt(2))<<16 | uint32(d.readByteAt(3))<<24
	d.pos = 4
	return d
}

var _ cabac.Decoder = (*Decoder)(nil)

func (d *Decoder) readByteAt(i int) byte {
	if i >= len(d.data) {
		return 0
	}
	return d.data[i]
}

func (d *Decoder) nextByte() byte {
	b := d.readByteAt(d.pos)
	d.pos++
	return b
}

func (d *Decoder) renorm() {
	for d.x < ransL {
		if d.x == 0 && d.pos >= len(d.data) {
			// Zero padding past the end can never lift a zero state; a
			// well-formed stream never gets here.
			return
		}
		d.x = (d.x << 8) | uint32(d.nextByte())
	}
}

// Get decodes one bit against context c and advances it.
func (d *Decoder) Get(c cabac.Context) (bool, error) {
	p := c.(*ctx.P8)
	slot := d.x & 0xff
	var bit bool
	var start, freq uint32
	if slot < uint32(p.P) {
		bit, start, freq = false, 0, uint32(p.P)
	} else {
		bit, start, freq = true, uint32(p.P), uint32(256-int(p.P))
	}
	d.x = freq*(d.x>>8) + (d.x & 0xff) - start
	d.renorm()
	p.Update(bit)
	return bit, nil
}

// GetBypass decodes one bit assuming it is uniformly random.
func (d *Decoder) GetBypass() (bool, error) {
	slot := d.x & 0xff
	var bit bool
	var start uint32
	if slot >= 128 {
		bit, start = true, 128
	}
	d.x = 128*(d.x>>8) + (d.x & 0xff) - start
	d.renorm()
	return bit, nil
}
