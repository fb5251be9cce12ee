package h264

import (
	cabac "github.com/mcroomp/cabac"
	"github.com/mcroomp/cabac/bitio"
)

// Encoder implements the H.264/265 CABAC arithmetic encoder: a 9-bit range
// register (range in [256,510] after renormalization), a low accumulator,
// and a count of outstanding bits whose value is not yet known because a
// future carry might still flip them.
type Encoder struct {
	low         uint32
	range_      uint32
	outstanding int
	firstBit    bool
	sink        *bitio.Sink
}

// NewEncoder returns an encoder writing to sink, initialized to the
// standard's starting condition: range 510, low 0.
func NewEncoder(sink *bitio.Sink) *Encoder {
	return &Encoder{range_: 510, firstBit: true, sink: sink}
}

var _ cabac.Coder = (*Encoder)(nil)

// putBit emits bit, then resolves any outstanding bits pending from prior
// carry-ambiguous renormalization steps — the carry-resolution discipline
// of spec.md §4.3: a bit of known value is always followed by the opposite
// value repeated once per outstanding bit, then the counter resets.
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

// renormE renormalizes (low, range) to bring range back above 256,
// emitting one bit (or incrementing outstanding) per doubling.
func (e *Encoder) renormE() error {
	for e.range_ < 256 {
		var err error
		switch {
		case e.low < 256:
			err = e.putBit(0)
		case e.low >= 512:
			e.low -= 512
			err = e.putBit(1)
		default:
			e.low -= 256
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

// Put codes bit against context c, per the standard's DecodeDecision
// mirror: split the range by the context's LPS probability, take the MPS
// or LPS branch, update the context, then renormalize.
func (e *Encoder) Put(bit bool, c cabac.Context) error {
	ctx := c.(*Context)
	b := 0
	if bit {
		b = 1
	}
	rLPS := rangeTabLPS[ctx.State][(e.range_>>6)&3]
	e.range_ -= rLPS
	if b != int(ctx.MPS) {
		e.low += e.range_
		e.range_ = rLPS
	}
	ctx.update(b)
	return e.renormE()
}

// PutBypass codes bit assuming it is uniformly random, using the
// standard's dedicated bypass path (no context, no table lookup): double
// low, conditionally add the current range, then resolve the same carry
// discipline used by renormE — one bit in, one bit out, no range change.
func (e *Encoder) PutBypass(bit bool) error {
	e.low <<= 1
	if bit {
		e.low += e.range_
	}
	switch {
	case e.low >= 1024:
		e.low -= 1024
		return e.putBit(1)
	case e.low < 512:
		return e.putBit(0)
	default:
		e.low -= 512
		e.outstanding++
		return nil
	}
}

// PutTerminate codes the terminating bin used to mark end-of-stream. On
// bit 0 it renormalizes normally so coding can continue; on bit 1 it
// drains all remaining low/outstanding state through the same
// carry-resolution discipline, after which the encoder must not be used
// again.
func (e *Encoder) PutTerminate(bit bool) error {
	e.range_ -= 2
	if !bit {
		return e.renormE()
	}
	e.low += e.range_
	// Drain every bit of low through the carry-safe path. low is always
	// bounded below 1024 by construction (renormE and PutBypass both keep
	// it there), so 10 iterations fully commits it to the sink.
	for i := 0; i < 10; i++ {
		var err error
		switch {
		case e.low < 256:
			err = e.putBit(0)
		case e.low >= 512:
			e.low -= 512
			err = e.putBit(1)
		default:
			e.low -= 256
			e.outstanding++
		}
		if err != nil {
			return err
		}
		e.low = (e.low << 1) & 0x3FF
	}
	return nil
}

// Finish codes the terminating bin with value 1, flushes remaining state,
// and returns the encoded bytes (any partial trailing byte is zero-padded).
func (e *Encoder) Finish() ([]byte, error) {
	if err := e.PutTerminate(true); err != nil {
		return nil, err
	}
	return e.sink.Bytes()
}
