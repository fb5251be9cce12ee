// Package vp8 implements the VP8 boolean (arithmetic) coder: an 8-bit
// range register narrowed by one multiply-shift per bit against an
// explicit 8-bit probability, using the same carry/outstanding-bits
// discipline as package h264 but scaled to VP8's narrower register.
package vp8

import (
	cabac "github.com/mcroomp/cabac"
	"github.com/mcroomp/cabac/bitio"
	"github.com/mcroomp/cabac/ctx"
)

// Encoder implements the VP8 boolean encoder.
type Encoder struct {
	low         uint32
	range_      uint32
	outstanding int
	firstBit    bool
	sink        *bitio.Sink
}

// NewEncoder returns an encoder writing to sink, range initialized to 255
// per the VP8 bitstream spec.
func NewEncoder(sink *bitio.Sink) *Encoder {
	return &Encoder{range_: 255, firstBit: true, sink: sink}
}

var _ cabac.Coder = (*Encoder)(nil)

func (e *Encoder) putBit(bit int) error {
	var err error
	if e.firstBit {
		e.firstBit = false
	} else {
		err = e.sink.WriteBit(bit)
	}
	for ; e.outstanding > 0 && err == nil; e.outstanding-- {
		err = e.sink.WriteBit(1 - bit)
	}
	return err
}

// renorm brings range back above 128, register scale halved relative to
// h264's since VP8's range ceiling is 255 rather than 510.
func (e *Encoder) renorm() error {
	for e.range_ < 128 {
		var err error
		switch {
		case e.low < 128:
			err = e.putBit(0)
		case e.low >= 256:
			e.low -= 256
			err = e.putBit(1)
		default:
			e.low -= 128
			e.outstanding++
		}
		if err != nil {
			return err
		}
		e.range_ <<= 1
		e.low <<= 1
	}
	return nil
}

// Put codes bit against context c's probability that the bit is 0, using
// the standard VP8 split formula split = 1 + ((range-1)*P)>>8.
func (e *Encoder) Put(bit bool, c cabac.Context) error {
	p := c.(*ctx.P8)
	split := 1 + (((e.range_ - 1) * uint32(p.P)) >> 8)
	if bit {
		e.low += split
		e.range_ -= split
	} else {
		e.range_ = split
	}
	p.Update(bit)
	return e.renorm()
}

// PutBypass codes bit assuming it is uniformly random, through a dedicated
// bypass path scaled from h264's: low doubles and gains range for a 1, so
// the interval splits exactly in half with no multiply and no context. It
// does not code the bit as Put would with a p=128 context, and its output
// bytes differ from that.
func (e *Encoder) PutBypass(bit bool) error {
	e.low <<= 1
	if bit {
		e.low += e.range_
	}
	switch {
	case e.low >= 512:
		e.low -= 512
		return e.putBit(1)
	case e.low < 256:
		return e.putBit(0)
	default:
		e.low -= 256
		e.outstanding++
		return nil
	}
}

// Finish flushes all remaining low/outstanding state and returns the
// encoded bytes.
func (e *Encoder) Finish() ([]byte, error) {
	for i := 0; i < 10; i++ {
		var err error
		switch {
		case e.low < 128:
			err = e.putBit(0)
		case e.low >= 256:
			e.low -= 256
			err = e.putBit(1)
		default:
			e.low -= 128
			e.outstanding++
		}
		if err != nil {
			return nil, err
		}
		e.low = (e.low << 1) & 0x1FF
	}
	return e.sink.Bytes()
}

// Decoder implements the VP8 boolean decoder, mirroring Encoder.
type Decoder struct {
	value  uint32
	range_ uint32
	src    *bitio.Source
}

// NewDecoder returns a decoder reading from src.
func NewDecoder(src *bitio.Source) *Decoder {
	d := &Decoder{range_: 255, src: src}
	for i := 0; i < 8; i++ {
		bit, _ := src.ReadBit()
		d.value = (d.value << 1) | uint32(bit)
	}
	return d
}

var _ cabac.Decoder = (*Decoder)(nil)

func (d *Decoder) renorm() error {
	for d.range_ < 128 {
		bit, err := d.src.ReadBit()
		if err != nil {
			return err
		}
		d.range_ <<= 1
		d.value = (d.value << 1) | uint32(bit)
	}
	return nil
}

// Get decodes one bit against context c.
func (d *Decoder) Get(c cabac.Context) (bool, error) {
	p := c.(*ctx.P8)
	split := 1 + (((d.range_ - 1) * uint32(p.P)) >> 8)
	var bit bool
	if d.value >= split {
		bit = true
		d.value -= split
		d.range_ -= split
	} else {
		d.range_ = split
	}
	p.Update(bit)
	if err := d.renorm(); err != nil {
		return false, err
	}
	return bit, nil
}

// GetBypass decodes one bit assuming it is uniformly random.
func (d *Decoder) GetBypass() (bool, error) {
	bit, err := d.src.ReadBit()
	if err != nil {
		return false, err
	}
	d.value = (d.value << 1) | uint32(bit)
	if d.value >= d.range_ {
		d.value -= d.range_
		return true, nil
	}
	return false, nil
}
