package binarize

import (
	"testing"

	cabac "github.com/mcroomp/cabac"
	"github.com/mcroomp/cabac/bitio"
	"github.com/mcroomp/cabac/h264"
)

func newCtxs(n int) []cabac.Context {
	ctxs := make([]cabac.Context, n)
	for i := range ctxs {
		ctxs[i] = h264.NewContext()
	}
	return ctxs
}

func TestUnaryRoundtrip(t *testing.T) {
	values := []uint32{0, 1, 2, 5, 20}

	sink := bitio.NewSink()
	enc := h264.NewEncoder(sink)
	ctxs := newCtxs(4)
	for _, v := range values {
		if err := PutUnary(enc, v, ctxs); err != nil {
			t.Fatal(err)
		}
	}
	out, err := enc.Finish()
	if err != nil {
		t.Fatal(err)
	}

	src := bitio.NewSource(out)
	dec := h264.NewDecoder(src)
	decCtxs := newCtxs(4)
	for i, want := range values {
		got, err := GetUnary(dec, decCtxs)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestTruncatedUnaryRoundtrip(t *testing.T) {
	const max = 7
	values := []uint32{0, 1, 3, 7}

	sink := bitio.NewSink()
	enc := h264.NewEncoder(sink)
	ctxs := newCtxs(max)
	for _, v := range values {
		if err := PutTruncatedUnary(enc, v, max, ctxs); err != nil {
			t.Fatal(err)
		}
	}
	out, err := enc.Finish()
	if err != nil {
		t.Fatal(err)
	}

	src := bitio.NewSource(out)
	dec := h264.NewDecoder(src)
	decCtxs := newCtxs(max)
	for i, want := range values {
		got, err := GetTruncatedUnary(dec, max, decCtxs)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestExpGolombRoundtrip(t *testing.T) {
	tests := []struct {
		name   string
		k      uint
		values []uint32
	}{
		{"order0", 0, []uint32{0, 1, 2, 3, 7, 8, 255, 1000}},
		{"order2", 2, []uint32{0, 1, 4, 15, 16, 1023}},
		{"order0_bypass_only", 0, []uint32{0, 5, 1 << 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := bitio.NewSink()
			enc := h264.NewEncoder(sink)
			var ctxs []cabac.Context
			if tt.name != "order0_bypass_only" {
				ctxs = newCtxs(8)
			}
			for _, v := range tt.values {
				if err := PutExpGolomb(enc, v, tt.k, ctxs); err != nil {
					t.Fatal(err)
				}
			}
			out, err := enc.Finish()
			if err != nil {
				t.Fatal(err)
			}

			src := bitio.NewSource(out)
			dec := h264.NewDecoder(src)
			var decCtxs []cabac.Context
			if tt.name != "order0_bypass_only" {
				decCtxs = newCtxs(8)
			}
			for i, want := range tt.values {
				got, err := GetExpGolomb(dec, tt.k, decCtxs)
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Errorf("value %d: got %d, want %d", i, got, want)
				}
			}
		})
	}
}

func FuzzExpGolombRoundtrip(f *testing.F) {
	f.Add(uint32(0), uint(0))
	f.Add(uint32(12345), uint(3))
	f.Add(uint32(0xFFFFFF), uint(1))

	f.Fuzz(func(t *testing.T, v uint32, k uint) {
		k = k % 8
		v = v % (1 << 24)

		sink := bitio.NewSink()
		enc := h264.NewEncoder(sink)
		ctxs := newCtxs(8)
		if err := PutExpGolomb(enc, v, k, ctxs); err != nil {
			t.Fatal(err)
		}
		out, err := enc.Finish()
		if err != nil {
			t.Fatal(err)
		}

		src := bitio.NewSource(out)
		dec := h264.NewDecoder(src)
		decCtxs := newCtxs(8)
		got, err := GetExpGolomb(dec, k, decCtxs)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("got %d, want %d (k=%d)", got, v, k)
		}
	})
}
