// Package header encodes and parses MANGO's self-describing ciphertext
// preamble (SPEC_FULL.md §6). The layout is byte-exact and
// little-endian; changing field widths or order breaks every ciphertext
// already in the wild, so this file is the one place that format is
// allowed to live.
package header

import (
	"fmt"

	"github.com/redeaux-corp/mango/internal/mangoerr"
	"github.com/redeaux-corp/mango/internal/sequence"
)

const (
	Magic         = "MNGO"
	Version       = 1
	IVSize        = 16
	PlaintextHash = 32
	fixedPrefix   = len(Magic) + 1 + 1 // magic + version + seq_len
	fixedSuffix   = 1 + IVSize + PlaintextHash + 1
)

// Header is the parsed form of the preamble.
type Header struct {
	Version         byte
	Sequence        sequence.Sequence
	GlobalRounds    byte
	IV              [IVSize]byte
	PlaintextSHA256 [PlaintextHash]byte
	ZoneInfo        []byte
}

// Size returns the total encoded header size for a sequence of length N
// and the given zone_info length: 56 + 2N + zone_len.
func Size(seqLen, zoneLen int) int {
	return fixedPrefix + 2*seqLen + fixedSuffix + zoneLen
}

// Encode serializes h per the layout in SPEC_FULL.md §6.
func Encode(h Header) ([]byte, error) {
	if err := h.Sequence.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", mangoerr.ErrBadHeader, err)
	}
	if h.GlobalRounds == 0 {
		return nil, fmt.Errorf("%w: global_rounds must be >= 1", mangoerr.ErrBadHeader)
	}
	if len(h.ZoneInfo) > 255 {
		return nil, fmt.Errorf("%w: zone_info too long (%d bytes)", mangoerr.ErrBadHeader, len(h.ZoneInfo))
	}

	n := len(h.Sequence)
	buf := make([]byte, 0, Size(n, len(h.ZoneInfo)))
	buf = append(buf, Magic...)
	buf = append(buf, Version)
	buf = append(buf, byte(n))
	for _, ref := range h.Sequence {
		buf = append(buf, ref.ID, ref.TR)
	}
	buf = append(buf, h.GlobalRounds)
	buf = append(buf, h.IV[:]...)
	buf = append(buf, h.PlaintextSHA256[:]...)
	buf = append(buf, byte(len(h.ZoneInfo)))
	buf = append(buf, h.ZoneInfo...)
	return buf, nil
}

// Decode parses a header from the front of data and returns the header
// plus the number of bytes it consumed. Any structural defect — short
// magic, unknown version, truncation, out-of-range seq_len/global_rounds
// — is reported as ErrBadHeader.
func Decode(data []byte) (Header, int, error) {
	if len(data) < fixedPrefix {
		return Header{}, 0, fmt.Errorf("%w: truncated before sequence length", mangoerr.ErrBadHeader)
	}
	if string(data[0:4]) != Magic {
		return Header{}, 0, fmt.Errorf("%w: bad magic", mangoerr.ErrBadHeader)
	}
	version := data[4]
	if version != Version {
		return Header{}, 0, fmt.Errorf("%w: unsupported version %d", mangoerr.ErrBadHeader, version)
	}
	n := int(data[5])
	if n < 1 {
		return Header{}, 0, fmt.Errorf("%w: seq_len must be >= 1", mangoerr.ErrBadHeader)
	}

	need := fixedPrefix + 2*n + fixedSuffix
	if len(data) < need {
		return Header{}, 0, fmt.Errorf("%w: truncated before fixed suffix", mangoerr.ErrBadHeader)
	}

	seq := make(sequence.Sequence, n)
	cursor := fixedPrefix
	for i := 0; i < n; i++ {
		seq[i] = sequence.TransformRef{ID: data[cursor], TR: data[cursor+1]}
		cursor += 2
	}
	if err := seq.Validate(); err != nil {
		return Header{}, 0, fmt.Errorf("%w: %v", mangoerr.ErrBadHeader, err)
	}

	globalRounds := data[cursor]
	cursor++
	if globalRounds == 0 {
		return Header{}, 0, fmt.Errorf("%w: global_rounds must be >= 1", mangoerr.ErrBadHeader)
	}

	var iv [IVSize]byte
	copy(iv[:], data[cursor:cursor+IVSize])
	cursor += IVSize

	var tag [PlaintextHash]byte
	copy(tag[:], data[cursor:cursor+PlaintextHash])
	cursor += PlaintextHash

	zoneLen := int(data[cursor])
	cursor++
	if len(data) < cursor+zoneLen {
		return Header{}, 0, fmt.Errorf("%w: truncated zone_info", mangoerr.ErrBadHeader)
	}
	var zone []byte
	if zoneLen > 0 {
		zone = append([]byte(nil), data[cursor:cursor+zoneLen]...)
	}
	cursor += zoneLen

	return Header{
		Version:         version,
		Sequence:        seq,
		GlobalRounds:    globalRounds,
		IV:              iv,
		PlaintextSHA256: tag,
		ZoneInfo:        zone,
	}, cursor, nil
}
