// Package binarize provides bin-string mappings for multi-valued symbols
// on top of the generic cabac.Coder/cabac.Decoder contract: unary,
// truncated unary, and exponential-Golomb. Every codec family in this
// module (h264, vp8, rans, fpaq0) codes single bits; binarize is how a
// caller built atop any of them codes unsigned integers without each
// codec family needing its own symbol layer.
package binarize

import cabac "github.com/mcroomp/cabac"

// PutUnary codes v as v ones followed by a terminating zero, each bin
// against ctxs[min(i, len(ctxs)-1)] so a caller can share one context
// across every bin or taper to a handful as v grows. ctxs must be
// non-empty.
func PutUnary(c cabac.Coder, v uint32, ctxs []cabac.Context) error {
	var i uint32
	for ; i < v; i++ {
		if err := c.Put(true, ctxs[binIdx(i, len(ctxs))]); err != nil {
			return err
		}
	}
	return c.Put(false, ctxs[binIdx(i, len(ctxs))])
}

// GetUnary decodes a value coded by PutUnary.
func GetUnary(d cabac.Decoder, ctxs []cabac.Context) (uint32, error) {
	var v uint32
	for {
		bit, err := d.Get(ctxs[binIdx(v, len(ctxs))])
		if err != nil {
			return 0, err
		}
		if !bit {
			return v, nil
		}
		v++
	}
}

// PutTruncatedUnary codes v as for PutUnary, but omits the terminating
// zero once v reaches max: a decoder that has read max ones already knows
// the value without a further bin. v must be <= max.
func PutTruncatedUnary(c cabac.Coder, v, max uint32, ctxs []cabac.Context) error {
	var i uint32
	for ; i < v; i++ {
		if err := c.Put(true, ctxs[binIdx(i, len(ctxs))]); err != nil {
			return err
		}
	}
	if v == max {
		return nil
	}
	return c.Put(false, ctxs[binIdx(i, len(ctxs))])
}

// GetTruncatedUnary decodes a value coded by PutTruncatedUnary.
func GetTruncatedUnary(d cabac.Decoder, max uint32, ctxs []cabac.Context) (uint32, error) {
	var v uint32
	for v < max {
		bit, err := d.Get(ctxs[binIdx(v, len(ctxs))])
		if err != nil {
			return 0, err
		}
		if !bit {
			return v, nil
		}
		v++
	}
	return v, nil
}

// binIdx clamps i into [0, n) so a caller can supply fewer contexts than
// the longest bin string this call will ever produce.
func binIdx(i uint32, n int) int {
	if int(i) >= n {
		return n - 1
	}
	return int(i)
}

// PutExpGolomb codes v as order-k exponential-Golomb: v is split into a
// quotient v>>k, coded as classic order-0 Exp-Golomb (a unary prefix over
// ctxs, or bypass when ctxs is nil, giving the suffix length, then that
// many uniformly-coded suffix bits), followed by the k literal low bits
// of v, uniformly coded.
func PutExpGolomb(c cabac.Coder, v uint32, k uint, ctxs []cabac.Context) error {
	q := v >> k
	r := v & ((1 << k) - 1)
	x := q + 1
	b := bitLen(x) - 1
	for i := 0; i < b; i++ {
		if err := putPrefixBit(c, true, ctxs, i); err != nil {
			return err
		}
	}
	if err := putPrefixBit(c, false, ctxs, b); err != nil {
		return err
	}
	for i := b - 1; i >= 0; i-- {
		if err := c.PutBypass((x>>uint(i))&1 == 1); err != nil {
			return err
		}
	}
	for i := int(k) - 1; i >= 0; i-- {
		if err := c.PutBypass((r>>uint(i))&1 == 1); err != nil {
			return err
		}
	}
	return nil
}

// GetExpGolomb decodes a value coded by PutExpGolomb.
func GetExpGolomb(d cabac.Decoder, k uint, ctxs []cabac.Context) (uint32, error) {
	b := 0
	for {
		bit, err := getPrefixBit(d, ctxs, b)
		if err != nil {
			return 0, err
		}
		if !bit {
			break
		}
		b++
	}
	x := uint32(1)
	for i := 0; i < b; i++ {
		bit, err := d.GetBypass()
		if err != nil {
			return 0, err
		}
		x <<= 1
		if bit {
			x |= 1
		}
	}
	q := x - 1
	var r uint32
	for i := 0; i < int(k); i++ {
		bit, err := d.GetBypass()
		if err != nil {
			return 0, err
		}
		r <<= 1
		if bit {
			r |= 1
		}
	}
	return (q << k) | r, nil
}

func putPrefixBit(c cabac.Coder, bit bool, ctxs []cabac.Context, i int) error {
	if ctxs == nil {
		return c.PutBypass(bit)
	}
	return c.Put(bit, ctxs[binIdx(uint32(i), len(ctxs))])
}

func getPrefixBit(d cabac.Decoder, ctxs []cabac.Context, i int) (bool, error) {
	if ctxs == nil {
		return d.GetBypass()
	}
	return d.Get(ctxs[binIdx(uint32(i), len(ctxs))])
}

// bitLen returns floor(log2(v))+1 for v>=1.
func bitLen(v uint32) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}
