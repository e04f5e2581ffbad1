package keyschedule

import (
	"bytes"
	"testing"
)

func testSalt() [SaltSize]byte {
	return [SaltSize]byte{0x1A, 0x2B, 0x3C, 0x4D, 0x5E, 0x6F, 0x70, 0x81, 0x92, 0xA3, 0xB4, 0xC5}
}

func TestDeterministic(t *testing.T) {
	a := New([]byte("my password"), testSalt(), nil)
	b := New([]byte("my password"), testSalt(), nil)
	if !bytes.Equal(a.Bytes(0, 64), b.Bytes(0, 64)) {
		t.Fatal("identical inputs produced different streams")
	}
}

func TestZoneChangesStream(t *testing.T) {
	a := New([]byte("my password"), testSalt(), nil)
	b := New([]byte("my password"), testSalt(), []byte("zone"))
	if bytes.Equal(a.Bytes(0, 32), b.Bytes(0, 32)) {
		t.Fatal("zone label had no effect on the stream")
	}
}

func TestWindowOffsetsDistinctWithinOneEncryption(t *testing.T) {
	seen := map[int]bool{}
	for r := 0; r < 4; r++ {
		for pos := 0; pos < 4; pos++ {
			for tt := 0; tt < 3; tt++ {
				off := r*RStride + pos*SStride + tt*perTransformStride
				if seen[off] {
					t.Fatalf("offset collision at r=%d pos=%d t=%d", r, pos, tt)
				}
				seen[off] = true
			}
		}
	}
}

func TestBytesSpanningMultipleChunks(t *testing.T) {
	ks := New([]byte("pw"), testSalt(), nil)
	whole := ks.Bytes(0, 100)
	a := ks.Bytes(0, 40)
	b := ks.Bytes(40, 60)
	if !bytes.Equal(whole[:40], a) || !bytes.Equal(whole[40:], b) {
		t.Fatal("Bytes is not a consistent view of one continuous stream")
	}
}

func TestWithIVChangesStream(t *testing.T) {
	ks := New([]byte("pw"), testSalt(), nil)
	a := ks.WithIV([]byte("iv-one-.........")).Bytes(0, 16)
	b := ks.WithIV([]byte("iv-two-.........")).Bytes(0, 16)
	if bytes.Equal(a, b) {
		t.Fatal("different IVs produced the same stream")
	}
}
