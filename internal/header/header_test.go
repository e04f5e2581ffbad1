package header

import (
	"bytes"
	"errors"
	"testing"

	"github.com/redeaux-corp/mango/internal/mangoerr"
	"github.com/redeaux-corp/mango/internal/sequence"
)

func sampleHeader() Header {
	var iv [IVSize]byte
	var tag [PlaintextHash]byte
	for i := range iv {
		iv[i] = byte(i + 1)
	}
	for i := range tag {
		tag[i] = byte(255 - i)
	}
	return Header{
		Version:         Version,
		Sequence:        sequence.Sequence{{ID: 1, TR: 1}, {ID: 9, TR: 2}},
		GlobalRounds:    4,
		IV:              iv,
		PlaintextSHA256: tag,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := sampleHeader()
	encoded, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) != Size(len(h.Sequence), 0) {
		t.Fatalf("encoded length %d != Size() %d", len(encoded), Size(len(h.Sequence), 0))
	}
	decoded, n, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(encoded) {
		t.Fatalf("Decode consumed %d bytes, want %d", n, len(encoded))
	}
	if decoded.GlobalRounds != h.GlobalRounds || decoded.IV != h.IV || decoded.PlaintextSHA256 != h.PlaintextSHA256 {
		t.Fatalf("round-trip mismatch: got %+v", decoded)
	}
	if len(decoded.Sequence) != len(h.Sequence) {
		t.Fatalf("sequence length mismatch: got %d want %d", len(decoded.Sequence), len(h.Sequence))
	}
	for i := range h.Sequence {
		if decoded.Sequence[i] != h.Sequence[i] {
			t.Fatalf("sequence[%d] mismatch: got %+v want %+v", i, decoded.Sequence[i], h.Sequence[i])
		}
	}
}

// S2: zone_info round-trips and zone_len matches UTF-8 byte length.
func TestZoneInfoRoundTrip(t *testing.T) {
	h := sampleHeader()
	h.ZoneInfo = []byte("XYZ Corp. Marketing")
	encoded, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	zoneLenOffset := fixedPrefix + 2*len(h.Sequence) + 1 + IVSize + PlaintextHash
	if int(encoded[zoneLenOffset]) != len(h.ZoneInfo) {
		t.Fatalf("zone_len byte = %d, want %d", encoded[zoneLenOffset], len(h.ZoneInfo))
	}
	decoded, _, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded.ZoneInfo, h.ZoneInfo) {
		t.Fatalf("zone_info mismatch: got %q want %q", decoded.ZoneInfo, h.ZoneInfo)
	}
}

// S5: a header with a corrupted magic must surface BadHeader.
func TestDecodeBadMagic(t *testing.T) {
	h := sampleHeader()
	encoded, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	encoded[3] = 'X' // "MNGO" -> "MNGX"
	_, _, err = Decode(encoded)
	if !errors.Is(err, mangoerr.ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	h := sampleHeader()
	encoded, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	encoded[4] = 99
	if _, _, err := Decode(encoded); !errors.Is(err, mangoerr.ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	h := sampleHeader()
	encoded, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, cut := range []int{0, 1, 4, 5, 10, len(encoded) - 1} {
		if _, _, err := Decode(encoded[:cut]); !errors.Is(err, mangoerr.ErrBadHeader) {
			t.Fatalf("truncated at %d: expected ErrBadHeader, got %v", cut, err)
		}
	}
}

func TestEncodeRejectsZeroGlobalRounds(t *testing.T) {
	h := sampleHeader()
	h.GlobalRounds = 0
	if _, err := Encode(h); !errors.Is(err, mangoerr.ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestEncodeRejectsEmptySequence(t *testing.T) {
	h := sampleHeader()
	h.Sequence = nil
	if _, err := Encode(h); !errors.Is(err, mangoerr.ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestDecodeConsumesOnlyOwnBytesLeavingPayload(t *testing.T) {
	h := sampleHeader()
	encoded, err := Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	payload := []byte("trailing payload bytes")
	blob := append(encoded, payload...)
	_, n, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(blob[n:], payload) {
		t.Fatalf("payload bytes after header corrupted: got %q", blob[n:])
	}
}
