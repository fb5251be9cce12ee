package h264

import (
	cabac "github.com/mcroomp/cabac"
	"github.com/mcroomp/cabac/bitio"
)

// Decoder implements the mirror image of Encoder: a range register and a
// value register filled from the source, with no carry bookkeeping of its
// own — any carry the encoder resolved is already baked into the bytes the
// source hands back.
type Decoder struct {
	value  uint32
	range_ uint32
	src    *bitio.Source
}

// NewDecoder returns a decoder reading from src, priming the value
// register with the standard's initial 9-bit read.
func NewDecoder(src *bitio.Source) *Decoder {
	d := &Decoder{range_: 510, src: src}
	for i := 0; i < 9; i++ {
		bit, _ := src.ReadBit()
		d.value = (d.value << 1) | uint32(bit)
	}
	return d
}

var _ cabac.Decoder = (*Decoder)(nil)

func (d *Decoder) renormD() error {
	for d.range_ < 256 {
		bit, err := d.src.ReadBit()
		if err != nil {
			return err
		}
		d.range_ <<= 1
		d.value = (d.value << 1) | uint32(bit)
	}
	return nil
}

// Get decodes one bit against context c and advances it, mirroring
// Encoder.Put exactly.
func (d *Decoder) Get(c cabac.Context) (bool, error) {
	ctx := c.(*Context)
	rLPS := rangeTabLPS[ctx.State][(d.range_>>6)&3]
	d.range_ -= rLPS
	var bit int
	if d.value >= d.range_ {
		bit = 1 - int(ctx.MPS)
		d.value -= d.range_
		d.range_ = rLPS
	} else {
		bit = int(ctx.MPS)
	}
	ctx.update(bit)
	if err := d.renormD(); err != nil {
		return false, err
	}
	return bit == 1, nil
}

// GetBypass decodes one bit assuming it is uniformly random, mirroring
// Encoder.PutBypass.
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

// GetTerminate decodes the terminating bin: value 1 signals end-of-stream,
// value 0 renormalizes and leaves the decoder ready for further Get calls.
func (d *Decoder) GetTerminate() (bool, error) {
	d.range_ -= 2
	if d.value >= d.range_ {
		return true, nil
	}
	if err := d.renormD(); err != nil {
		return false, err
	}
	return false, nil
}
