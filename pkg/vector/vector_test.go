package vector

import (
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e7}
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("element %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestEncodeLittleEndian(t *testing.T) {
	b := Encode([]float32{1.0})
	// IEEE 754 for 1.0 is 0x3f800000, little-endian on the wire.
	want := []byte{0x00, 0x00, 0x80, 0x3f}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, b[i], want[i])
		}
	}
}

func TestDecodeBadLength(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for blob not divisible by 4")
	}
}
