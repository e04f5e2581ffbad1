// Package profiler classifies an input buffer into an InputClass using
// the heuristics from SPEC_FULL.md §4.D (monotonic-sequence detection,
// Shannon entropy, printable-ASCII fraction) and resolves that class to
// a catalog.Profile, falling back to Combined and finally surfacing
// ErrNoProfileAvailable when neither is loaded.
package profiler

import (
	"crypto/sha256"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/redeaux-corp/mango/internal/catalog"
	"github.com/redeaux-corp/mango/internal/mangoerr"
)

// InputClass names one of the five classification buckets.
type InputClass string

const (
	ClassNatural  InputClass = "Natural"
	ClassRandom   InputClass = "Random"
	ClassSequence InputClass = "Sequence"
	ClassCombined InputClass = "Combined"
	ClassUserData InputClass = "UserData"
)

// Thresholds holds the tunable cutoffs behind Classify. DefaultThresholds
// returns the values spec.md §4.D names as defaults; callers needing the
// resolved Open-Question values should start from that and override only
// what they mean to tune.
type Thresholds struct {
	MonotonicMinDistinct int     // distinct byte values required before a non-decreasing run counts as Sequence
	RandomEntropy        float64 // >= this many bits/byte => Random
	NaturalEntropyMin    float64 // entropy floor for Natural
	NaturalPrintableMin  float64 // required printable-ASCII fraction for Natural
	UserDataEntropyMax   float64 // < this many bits/byte => UserData
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MonotonicMinDistinct: 64,
		RandomEntropy:        7.90,
		NaturalEntropyMin:    4.0,
		NaturalPrintableMin:  0.85,
		UserDataEntropyMax:   4.0,
	}
}

// Classify buckets buf into one of the five InputClass values. Empty
// input is rejected with ErrEmptyInput rather than silently classified.
func Classify(buf []byte, th Thresholds) (InputClass, error) {
	if len(buf) == 0 {
		return "", mangoerr.ErrEmptyInput
	}
	if isMonotonicRun(buf) && distinctValues(buf) >= th.MonotonicMinDistinct {
		return ClassSequence, nil
	}

	h := shannonEntropy(buf)
	switch {
	case h >= th.RandomEntropy:
		return ClassRandom, nil
	case h >= th.NaturalEntropyMin && printableFraction(buf) >= th.NaturalPrintableMin:
		return ClassNatural, nil
	case h < th.UserDataEntropyMax:
		return ClassUserData, nil
	default:
		return ClassCombined, nil
	}
}

func isMonotonicRun(buf []byte) bool {
	for i := 1; i < len(buf); i++ {
		if buf[i] < buf[i-1] {
			return false
		}
	}
	return true
}

func distinctValues(buf []byte) int {
	var seen [256]bool
	n := 0
	for _, b := range buf {
		if !seen[b] {
			seen[b] = true
			n++
		}
	}
	return n
}

func shannonEntropy(buf []byte) float64 {
	var freq [256]int
	for _, b := range buf {
		freq[b]++
	}
	total := float64(len(buf))
	var h float64
	for _, c := range freq {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

func printableFraction(buf []byte) float64 {
	n := 0
	for _, b := range buf {
		if b >= 0x20 && b < 0x7F {
			n++
		}
	}
	return float64(n) / float64(len(buf))
}

// Profiler wraps Classify with an LRU memo of classification results
// keyed by the SHA-256 of the buffer — the same cache-on-digest pattern
// the key schedule and header tag already use SHA-256 for, just applied
// to a different concern (SPEC_FULL.md §4.D "(+) Classification cache").
type Profiler struct {
	thresholds Thresholds
	cache      *lru.Cache[[32]byte, InputClass]
}

// New builds a Profiler with the given thresholds and LRU cache capacity
// (number of distinct digests remembered).
func New(th Thresholds, cacheSize int) (*Profiler, error) {
	c, err := lru.New[[32]byte, InputClass](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Profiler{thresholds: th, cache: c}, nil
}

// Resolve classifies buf (consulting and updating the cache) and looks
// the resulting class up in cat, falling back to Combined and then to
// ErrNoProfileAvailable if neither class is present in the catalog. A
// cache hit still re-validates against the current catalog, so swapping
// cat between calls on the same Profiler cannot return a stale profile.
// The returned InputClass is always buf's classification, also when the
// Combined profile is used as the fallback.
func (p *Profiler) Resolve(buf []byte, cat *catalog.Catalog) (catalog.Profile, InputClass, error) {
	if len(buf) == 0 {
		return catalog.Profile{}, "", mangoerr.ErrEmptyInput
	}

	digest := sha256.Sum256(buf)
	class, cached := p.lookupCache(digest)
	if !cached {
		var err error
		class, err = Classify(buf, p.thresholds)
		if err != nil {
			return catalog.Profile{}, "", err
		}
		p.cache.Add(digest, class)
	}

	if prof, ok := cat.Lookup(string(class)); ok {
		return prof, class, nil
	}
	if prof, ok := cat.Lookup(string(ClassCombined)); ok {
		return prof, class, nil
	}
	return catalog.Profile{}, "", mangoerr.ErrNoProfileAvailable
}

func (p *Profiler) lookupCache(digest [32]byte) (InputClass, bool) {
	return p.cache.Get(digest)
}
