// Package catalog loads the read-only, process-wide profile catalog: a
// mapping from input-class name to (sequence, global_rounds, score).
// It is populated once at facade construction and never mutated after,
// so concurrent readers need no locking (SPEC_FULL.md §5).
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/redeaux-corp/mango/internal/sequence"
)

// Profile is an immutable (name, sequence, global_rounds, score) tuple.
type Profile struct {
	Name           string
	Sequence       sequence.Sequence
	GlobalRounds   int
	AggregateScore float64
}

type profileDTO struct {
	Sequence       [][2]int `json:"Sequence"`
	GlobalRounds   int      `json:"GlobalRounds"`
	AggregateScore float64  `json:"AggregateScore"`
}

// Catalog is the loaded, read-only mapping. Lookups are case-insensitive.
type Catalog struct {
	profiles map[string]Profile
	checksum [32]byte
}

// Load parses a catalog document: {"<name>": {"Sequence": [[id,tr],...],
// "GlobalRounds": n, "AggregateScore": x}, ...}. Unknown fields within an
// entry are ignored by encoding/json's default decoding; a duplicate top
// -level key is last-wins, which is also encoding/json's default
// behavior when unmarshaling a JSON object into a Go map. Parse failures
// are fatal — the caller (facade construction) should treat a non-nil
// error here as a startup failure, not a recoverable runtime one.
func Load(data []byte) (*Catalog, error) {
	var raw map[string]profileDTO
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	profiles := make(map[string]Profile, len(raw))
	for name, dto := range raw {
		seq := make(sequence.Sequence, len(dto.Sequence))
		for i, pair := range dto.Sequence {
			seq[i] = sequence.TransformRef{ID: byte(pair[0]), TR: byte(pair[1])}
		}
		if err := seq.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: entry %q: %w", name, err)
		}
		if dto.GlobalRounds < 1 || dto.GlobalRounds > 255 {
			return nil, fmt.Errorf("catalog: entry %q: global_rounds %d out of range [1,255]", name, dto.GlobalRounds)
		}
		profiles[strings.ToLower(name)] = Profile{
			Name:           name,
			Sequence:       seq,
			GlobalRounds:   dto.GlobalRounds,
			AggregateScore: dto.AggregateScore,
		}
	}

	h := blake3.New()
	h.Write(data)
	var sum [32]byte
	h.Digest().Read(sum[:])

	return &Catalog{profiles: profiles, checksum: sum}, nil
}

// Lookup returns the profile for class name, case-insensitively.
func (c *Catalog) Lookup(name string) (Profile, bool) {
	p, ok := c.profiles[strings.ToLower(name)]
	return p, ok
}

// Checksum returns the blake3-256 fingerprint of the raw bytes Load was
// given, for operational correlation (SPEC_FULL.md §4.G).
func (c *Catalog) Checksum() [32]byte {
	return c.checksum
}

// Names returns the loaded profile names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for _, p := range c.profiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
