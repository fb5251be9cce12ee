package rans

import (
	"math/rand"
	"testing"

	"github.com/mcroomp/cabac/ctx"
	"github.com/stretchr/testify/require"
)

func TestRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		bits []bool
	}{
		{"single_zero", []bool{false}},
		{"single_one", []bool{true}},
		{"alternating", []bool{false, true, false, true, false, true}},
		{"all_zeros", []bool{false, false, false, false, false, false, false, false}},
		{"all_ones", []bool{true, true, true, true, true, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder()
			c := ctx.New()
			for _, b := range tt.bits {
				require.NoError(t, enc.Put(b, c))
			}
			out, err := enc.Finish()
			require.NoError(t, err)

			dec := NewDecoder(out)
			c2 := ctx.New()
			for i, want := range tt.bits {
				got, err := dec.Get(c2)
				require.NoError(t, err)
				require.Equal(t, want, got, "bit %d", i)
			}
		})
	}
}

func TestSkewedContextStaysCompact(t *testing.T) {
	enc := NewEncoder()
	c := ctx.New()
	for i := 0; i < 1000; i++ {
		require.NoError(t, enc.Put(false, c))
	}
	out, err := enc.Finish()
	require.NoError(t, err)
	require.Less(t, len(out), 64)

	dec := NewDecoder(out)
	c2 := ctx.New()
	for i := 0; i < 1000; i++ {
		got, err := dec.Get(c2)
		require.NoError(t, err)
		require.False(t, got, "bit %d", i)
	}
}

func TestBypassUniformRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const n = 10000
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
	}

	enc := NewEncoder()
	for _, b := range bits {
		require.NoError(t, enc.PutBypass(b))
	}
	out, err := enc.Finish()
	require.NoError(t, err)

	dec := NewDecoder(out)
	for i, want := range bits {
		got, err := dec.GetBypass()
		require.NoError(t, err)
		require.Equal(t, want, got, "bit %d", i)
	}
}

func TestMultiContextInterleave(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	const numCtx = 256
	const n = 4096

	bits := make([]bool, n)
	ctxIdx := make([]int, n)
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
		ctxIdx[i] = i % numCtx
	}

	encCtxs := make([]*ctx.P8, numCtx)
	for i := range encCtxs {
		encCtxs[i] = ctx.New()
	}
	enc := NewEncoder()
	for i, b := range bits {
		require.NoError(t, enc.Put(b, encCtxs[ctxIdx[i]]))
	}
	out, err := enc.Finish()
	require.NoError(t, err)

	decCtxs := make([]*ctx.P8, numCtx)
	for i := range decCtxs {
		decCtxs[i] = ctx.New()
	}
	dec := NewDecoder(out)
	for i, want := range bits {
		got, err := dec.Get(decCtxs[ctxIdx[i]])
		require.NoError(t, err)
		require.Equal(t, want, got, "bit %d", i)
	}
	for i := range encCtxs {
		require.Equal(t, encCtxs[i].P, decCtxs[i].P, "context %d", i)
	}
}

func TestEmptyInput(t *testing.T) {
	enc := NewEncoder()
	out, err := enc.Finish()
	require.NoError(t, err)
	_ = NewDecoder(out)
}

func FuzzDecoderNeverPanics(f *testing.F) {
	f.Add([]byte{0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		dec := NewDecoder(data)
		c := ctx.New()
		for i := 0; i < 200; i++ {
			_, _ = dec.Get(c)
		}
	})
}
