// Package fpaq0 implements Fpaq0, Matt Mahoney's minimal carryless binary
// arithmetic coder: 32-bit low/high registers narrowed by a single
// shift-before-multiply split per bit, renormalized a byte at a time
// whenever low and high agree on their leading byte.
package fpaq0

import (
	cabac "github.com/mcroomp/cabac"
	"github.com/mcroomp/cabac/bitio"
	"github.com/mcroomp/cabac/ctx"
)

// split computes low + ((high-low)>>8)*p: the shift comes first, so the
// multiply that follows only ever widens a value already narrowed to 24
// bits by up to 255, which never overflows a uint32.
func split(low, high uint32, p uint8) uint32 {
	return low + ((high-low)>>8)*uint32(p)
}

// Encoder implements the Fpaq0 encoder.
type Encoder struct {
	low, high uint32
	sink      *bitio.Sink
}

// NewEncoder returns an encoder writing to sink, registers initialized to
// the coder's full interval.
func NewEncoder(sink *bitio.Sink) *Encoder {
	return &Encoder{high: 0xFFFFFFFF, sink: sink}
}

var _ cabac.Coder = (*Encoder)(nil)

func (e *Encoder) renorm() error {
	for (e.low^e.high)&0xFF000000 == 0 {
		if err := e.sink.WriteByte(byte(e.high >> 24)); err != nil {
			return err
		}
		e.low <<= 8
		e.high = (e.high << 8) | 0xFF
	}
	return nil
}

// Put codes bit against context c's probability that the bit is 0.
func (e *Encoder) Put(bit bool, c cabac.Context) error {
	p := c.(*ctx.P8)
	mid := split(e.low, e.high, p.P)
	if bit {
		e.low = mid + 1
	} else {
		e.high = mid
	}
	p.Update(bit)
	return e.renorm()
}

// PutBypass codes bit assuming it is uniformly random, equivalent to Put
// with a fixed probability of 128 and no context to update.
func (e *Encoder) PutBypass(bit bool) error {
	mid := split(e.low, e.high, 128)
	if bit {
		e.low = mid + 1
	} else {
		e.high = mid
	}
	return e.renorm()
}

// Finish commits the final interval by emitting low's four bytes — any
// point inside [low, high] decodes correctly, and low always is one — and
// returns the encoded bytes.
func (e *Encoder) Finish() ([]byte, error) {
	for i := 0; i < 4; i++ {
		if err := e.sink.WriteByte(byte(e.low >> 24)); err != nil {
			return nil, err
		}
		e.low <<= 8
	}
	return e.sink.Bytes()
}

// Decoder implements the Fpaq0 decoder, mirroring Encoder.
type Decoder struct {
	low, high, value uint32
	src              *bitio.Source
}

// NewDecoder returns a decoder reading from src, priming value with the
// first 4 bytes of the stream.
func NewDecoder(src *bitio.Source) *Decoder {
	d := &Decoder{high: 0xFFFFFFFF, src: src}
	for i := 0; i < 4; i++ {
		b, _ := src.ReadByte()
		d.value = (d.value << 8) | uint32(b)
	}
	return d
}

var _ cabac.Decoder = (*Decoder)(nil)

func (d *Decoder) renorm() error {
	for (d.low^d.high)&0xFF000000 == 0 {
		b, err := d.src.ReadByte()
		if err != nil {
			return err
		}
		d.low <<= 8
		d.high = (d.high << 8) | 0xFF
		d.value = (d.value << 8) | uint32(b)
	}
	return nil
}

// Get decodes one bit against context c and advances it.
func (d *Decoder) Get(c cabac.Context) (bool, error) {
	p := c.(*ctx.P8)
	mid := split(d.low, d.high, p.P)
	bit := d.value > mid
	if bit {
		d.low = mid + 1
	} else {
		d.high = mid
	}
	p.Update(bit)
	if err := d.renorm(); err != nil {
		return false, err
	}
	return bit, nil
}

// GetBypass decodes one bit assuming it is uniformly random.
func (d *Decoder) GetBypass() (bool, error) {
	mid := split(d.low, d.high, 128)
	bit := d.value > mid
	if bit {
		d.low = mid + 1
	} else {
		d.high = mid
	}
	if err := d.renorm(); err != nil {
		return false, err
	}
	return bit, nil
}
