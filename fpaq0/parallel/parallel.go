// Package parallel implements an N-way interleaved variant of fpaq0: N
// independent coder lanes run completely decoupled from one another, and
// their output bytes are striped round-robin into a single stream —
// substream i's k-th emitted byte lands at output offset k*N+i — so a
// decoder can fan the N lanes back out and drive them concurrently, the
// SIMD-style throughput case spec.md's Fpaq0 component leaves open. The
// stripe starts at offset 0 and runs for N*maxLen bytes, maxLen being the
// longest lane: shorter lanes simply leave their trailing slots
// unwritten (and unread), so no length header is needed to recover the
// stripe width, only the lane count and the total byte count.
package parallel

import (
	cabac "github.com/mcroomp/cabac"
	"github.com/mcroomp/cabac/bitio"
	"github.com/mcroomp/cabac/fpaq0"
)

// Encoder drives n independent fpaq0 lanes. Callers address a lane by
// index on every Put/PutBypass call; nothing prevents driving lanes from
// separate goroutines as long as each lane is only touched by one
// goroutine at a time.
type Encoder struct {
	lanes []*fpaq0.Encoder
}

// NewEncoder returns an encoder with n independent lanes.
func NewEncoder(n int) *Encoder {
	e := &Encoder{lanes: make([]*fpaq0.Encoder, n)}
	for i := range e.lanes {
		e.lanes[i] = fpaq0.NewEncoder(bitio.NewSink())
	}
	return e
}

// Lanes reports the number of independent lanes.
func (e *Encoder) Lanes() int { return len(e.lanes) }

// Put codes bit on the given lane against context c.
func (e *Encoder) Put(lane int, bit bool, c cabac.Context) error {
	return e.lanes[lane].Put(bit, c)
}

// PutBypass codes bit on the given lane assuming it is uniformly random.
func (e *Encoder) PutBypass(lane int, bit bool) error {
	return e.lanes[lane].PutBypass(bit)
}

// Finish flushes every lane and stripes their bytes round-robin from
// offset 0: lane i's k-th byte lands at k*len(lanes)+i. The output is
// exactly len(lanes)*maxLen bytes, maxLen being the longest lane; a
// shorter lane's trailing slots are left zeroed and are never read back,
// since a decoder only ever pulls as many bytes from a lane as that
// lane's own Get/GetBypass calls demand.
func (e *Encoder) Finish() ([]byte, error) {
	n := len(e.lanes)
	bufs := make([][]byte, n)
	maxLen := 0
	for i, enc := range e.lanes {
		b, err := enc.Finish()
		if err != nil {
			return nil, err
		}
		bufs[i] = b
		if len(b) > maxLen {
			maxLen = len(b)
		}
	}

	out := make([]byte, maxLen*n)
	for lane, b := range bufs {
		for k, by := range b {
			out[k*n+lane] = by
		}
	}
	return out, nil
}

// Decoder reads a stream produced by Encoder.Finish back into n
// independent fpaq0 decoder lanes.
type Decoder struct {
	lanes []*fpaq0.Decoder
}

// NewDecoder de-stripes data into n lanes and returns a Decoder ready to
// drive each one independently. The stripe width maxLen is recovered
// from len(data)/n alone, since Encoder.Finish never shrinks the output
// below n*maxLen; a lane's trailing reserved bytes ride along in its
// Source but are only ever read if that lane's own decode calls for them.
func NewDecoder(n int, data []byte) *Decoder {
	maxLen := len(data) / n
	bufs := make([][]byte, n)
	for lane := range bufs {
		buf := make([]byte, maxLen)
		for k := 0; k < maxLen; k++ {
			buf[k] = data[k*n+lane]
		}
		bufs[lane] = buf
	}

	d := &Decoder{lanes: make([]*fpaq0.Decoder, n)}
	for i := 0; i < n; i++ {
		d.lanes[i] = fpaq0.NewDecoder(bitio.NewSource(bufs[i]))
	}
	return d
}

// Lanes reports the number of independent lanes.
func (d *Decoder) Lanes() int { return len(d.lanes) }

// Get decodes one bit on the given lane against context c.
func (d *Decoder) Get(lane int, c cabac.Context) (bool, error) {
	return d.lanes[lane].Get(c)
}

// GetBypass decodes one bit on the given lane assuming it is uniformly
// random.
func (d *Decoder) GetBypass(lane int) (bool, error) {
	return d.lanes[lane].GetBypass()
}
