// Package bitio provides the byte-granular bit sink and bit source that
// every codec family in this module emits to and consumes from.
//
// Sink accumulates a growable byte sequence (doubling its backing buffer
// as it grows, never erroring) unless it is explicitly backed by an
// external io.Writer, in which case a write failure surfaces as
// cabac.ErrOutputFailed. Source reads sequentially from an immutable
// byte slice; reading past the end yields zero bits forever, which is
// relied upon by CABAC's termination logic — unless the caller asks for
// strict end-of-stream detection via NewStrictSource, in which case
// reading past the end surfaces cabac.ErrInputExhausted.
package bitio

import (
	"io"

	cabac "github.com/mcroomp/cabac"
	"github.com/pkg/errors"
)

// byteWriter is the minimal backing a Sink needs; the default in-memory
// implementation never fails.
type byteWriter interface {
	WriteByte(b byte) error
}

type memWriter struct{ buf []byte }

func (m *memWriter) WriteByte(b byte) error {
	m.buf = append(m.buf, b)
	return nil
}

type ioWriter struct{ w io.Writer }

func (e *ioWriter) WriteByte(b byte) error {
	var tmp [1]byte
	tmp[0] = b
	if _, err := e.w.Write(tmp[:]); err != nil {
		return errors.Wrap(cabac.ErrOutputFailed, err.Error())
	}
	return nil
}

// Sink is an append-only growable byte sequence with a bit-position
// cursor inside the last partially-filled byte.
type Sink struct {
	dst byteWriter
	mem *memWriter // non-nil only for the default in-memory backing
	cur byte
	cnt uint8 // valid bits accumulated in cur, 0-7
}

// NewSink returns a Sink backed by an internal growable buffer. Writes to
// it never fail.
func NewSink() *Sink {
	m := &memWriter{buf: make([]byte, 0, 64)}
	return &Sink{dst: m, mem: m}
}

// NewSinkTo returns a Sink that flushes each completed byte to w. A write
// failure on w is reported as cabac.ErrOutputFailed from WriteBit,
// WriteByte, or Bytes.
func NewSinkTo(w io.Writer) *Sink {
	return &Sink{dst: &ioWriter{w: w}}
}

// WriteBit appends a single bit.
func (s *Sink) WriteBit(b int) error {
	s.cur = (s.cur << 1) | byte(b&1)
	s.cnt++
	if s.cnt == 8 {
		err := s.dst.WriteByte(s.cur)
		s.cur, s.cnt = 0, 0
		return err
	}
	return nil
}

// WriteByte appends a full byte, bypassing the bit cursor. The cursor must
// be empty (byte-aligned) when this is called; callers that mix WriteBit
// and WriteByte are responsible for alignment.
func (s *Sink) WriteByte(b byte) error {
	return s.dst.WriteByte(b)
}

// Bytes flushes any partial byte with zero padding and returns the
// accumulated sequence. Only meaningful for the default in-memory Sink;
// an io.Writer-backed Sink returns nil since its bytes were already
// streamed out.
func (s *Sink) Bytes() ([]byte, error) {
	if s.cnt > 0 {
		pad := s.cur << (8 - s.cnt)
		if err := s.dst.WriteByte(pad); err != nil {
			return nil, err
		}
		s.cur, s.cnt = 0, 0
	}
	if s.mem != nil {
		return s.mem.buf, nil
	}
	return nil, nil
}

// Source reads sequentially from an immutable byte slice, returning zero
// bits/bytes once exhausted.
type Source struct {
	data   []byte
	bytePos int
	cur    byte
	cnt    uint8 // valid unread bits remaining in cur, 0-8
	strict bool
}

// NewSource returns a Source over data. Reading past the end of data
// yields zero bits forever, matching the arithmetic-decoder termination
// semantics the CABAC/VP8/Fpaq0 families depend on.
func NewSource(data []byte) *Source {
	return &Source{data: data}
}

// NewStrictSource returns a Source that reports cabac.ErrInputExhausted
// from ReadBit/ReadByte once data is consumed, instead of yielding zeros.
func NewStrictSource(data []byte) *Source {
	return &Source{data: data, strict: true}
}

// ReadBit reads a single bit.
func (s *Source) ReadBit() (int, error) {
	if s.cnt == 0 {
		if s.bytePos >= len(s.data) {
			if s.strict {
				return 0, cabac.ErrInputExhausted
			}
			return 0, nil
		}
		s.cur = s.data[s.bytePos]
		s.bytePos++
		s.cnt = 8
	}
	s.cnt--
	return int((s.cur >> s.cnt) & 1), nil
}

// ReadByte reads a full byte, bypassing the bit cursor.
func (s *Source) ReadByte() (byte, error) {
	if s.cnt != 0 {
		// Not byte-aligned: assemble from the remaining cursor bits plus
		// the next byte, mirroring ReadBit's zero-past-end behavior.
		var b byte
		for i := 0; i < 8; i++ {
			bit, err := s.ReadBit()
			if err != nil {
				return 0, err
			}
			b = (b << 1) | byte(bit)
		}
		return b, nil
	}
	if s.bytePos >= len(s.data) {
		if s.strict {
			return 0, cabac.ErrInputExhausted
		}
		return 0, nil
	}
	b := s.data[s.bytePos]
	s.bytePos++
	return b, nil
}

// AtEnd reports whether every byte of the backing slice has been
// consumed. A Source that is AtEnd still serves ReadBit/ReadByte
// successfully (returning zeros) unless it is strict.
func (s *Source) AtEnd() bool {
	return s.bytePos >= len(s.data) && s.cnt == 0
}
