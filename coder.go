// Package cabac defines the shared context-adaptive binary coding contract
// implemented by every codec family in this module: H.264/265 CABAC
// (package h264), VP8 (package vp8), rANS (package rans), and Fpaq0
// (package fpaq0).
//
// A caller drives any coder by issuing Put/Get operations (with PutBypass/
// GetBypass for uniformly-random bits on codecs that support a dedicated
// bypass path), then Finish on the encoder to flush its state. Decoders
// need no finalization call.
package cabac

import "github.com/pkg/errors"

// Context is implemented by every codec family's context type. The marker
// method keeps dispatch static and allocation-free: no type switch, no
// reflection, just a narrow interface satisfied by a small concrete struct.
type Context interface {
	IsContext()
}

// Coder is the generic encoder contract shared by h264.Encoder, vp8.Encoder,
// rans.Encoder, and fpaq0.Encoder. The error return exists for the output
// boundary (see ErrOutputFailed below); the default in-memory sink backing
// every codec in this module never produces one.
type Coder interface {
	// Put codes bit against the probability predicted by c, then updates c.
	Put(bit bool, c Context) error
	// PutBypass codes bit assuming it is uniformly random, skipping context
	// lookup and update. h264 and vp8 use a dedicated bypass path; rans and
	// fpaq0 code the bit against a fixed p=128.
	PutBypass(bit bool) error
	// Finish flushes any pending coder state and returns the encoded bytes.
	// The encoder must not be used again afterward.
	Finish() ([]byte, error)
}

// Decoder is the generic decoder contract shared by h264.Decoder,
// vp8.Decoder, rans.Decoder, and fpaq0.Decoder.
type Decoder interface {
	// Get decodes one bit against the probability predicted by c, then
	// updates c.
	Get(c Context) (bool, error)
	// GetBypass decodes one bit assuming it is uniformly random.
	GetBypass() (bool, error)
}

// Sentinel errors surfaced at the bit-sink/bit-source boundary. These are
// the only two error kinds the library recognizes (see bitio). A coder's
// Put/Get/Finish never itself returns an error: arithmetic coding has no
// framing to reject, so a context-mismatched decode silently yields
// incorrect bits rather than failing.
var (
	// ErrOutputFailed reports that a Sink backed by an external io.Writer
	// refused a byte. The default in-memory Sink never returns this.
	ErrOutputFailed = errors.New("cabac: output sink refused a byte")

	// ErrInputExhausted reports that a strict-EOF Source ran out of input.
	// The default in-memory Source never returns this; it silently yields
	// zero bits past end, which CABAC's termination logic relies on.
	ErrInputExhausted = errors.New("cabac: input source exhausted")
)
