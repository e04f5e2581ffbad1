// Package analysis is the offline scoring collaborator from
// SPEC_FULL.md §4.H: nine statistical metrics over a candidate payload
// plus an aggregate score. It is never called from the encrypt/decrypt
// path — only by offline tuning tooling outside this module's scope.
package analysis

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// avalancheMutationSeed fixes the bit flipped when producing an
// avalanche/key-dependency comparison buffer. Historically this seed
// was derived from the reversed sequence, which caused archived scores
// to drift whenever a sequence changed; it is now these four constant
// bytes, and any reimplementation must preserve them exactly to
// reproduce archived scores.
var avalancheMutationSeed = [4]byte{0x1D, 0x13, 0x28, 0x12}

// MutationSeed exposes avalancheMutationSeed to callers that need to
// reproduce or audit the exact mutation this package applies.
func MutationSeed() [4]byte {
	return avalancheMutationSeed
}

// MutateForAvalanche flips one deterministic bit of original, chosen by
// avalancheMutationSeed, and returns the result. Callers run the
// candidate pipeline over both original and this mutated copy, then
// pass the two ciphertexts to Analyze as payload/avalanchePayload.
func MutateForAvalanche(original []byte) []byte {
	mutated := append([]byte(nil), original...)
	if len(mutated) == 0 {
		return mutated
	}
	offset := int(binary.BigEndian.Uint32(avalancheMutationSeed[:])) % len(mutated)
	bit := avalancheMutationSeed[3] % 8
	mutated[offset] ^= 1 << bit
	return mutated
}

// Metric indexes the nine positions of Scores.
type Metric int

const (
	Entropy Metric = iota
	BitVariance
	SlidingWindow
	FrequencyDistribution
	Periodicity
	Correlation
	PositionalMapping
	Avalanche
	KeyDependency
	metricCount
)

// Scores holds one value per Metric, in Metric order.
type Scores [int(metricCount)]float64

// Analyze computes the nine metrics over payload. avalanchePayload and
// keyDepPayload are the candidate pipeline's output on, respectively, a
// one-bit-mutated copy of originalInput (see MutateForAvalanche) and the
// same originalInput re-encrypted under a different key/IV; both are
// compared against payload by Hamming distance.
func Analyze(payload, avalanchePayload, keyDepPayload, originalInput []byte) (Scores, error) {
	var s Scores
	if len(payload) == 0 {
		return s, fmt.Errorf("analysis: empty payload")
	}

	s[Entropy] = byteEntropy(payload)
	s[BitVariance] = bitVariance(payload)
	s[SlidingWindow] = slidingWindowUniformity(payload, 64)
	s[FrequencyDistribution] = frequencyDistributionScore(payload)
	s[Periodicity] = periodicityScore(payload, 32)
	s[Correlation] = serialCorrelation(payload)
	s[PositionalMapping] = positionalMappingScore(payload)
	s[Avalanche] = hammingFractionScore(payload, avalanchePayload)
	s[KeyDependency] = hammingFractionScore(payload, keyDepPayload)

	return s, nil
}

// byteEntropy reports Shannon entropy in bits/byte via gonum's
// stat.Entropy over the byte-value probability distribution (gonum works
// in nats, so the result is divided by ln 2).
func byteEntropy(buf []byte) float64 {
	var freq [256]int
	for _, b := range buf {
		freq[b]++
	}
	p := make([]float64, 0, 256)
	total := float64(len(buf))
	for _, c := range freq {
		if c == 0 {
			continue
		}
		p = append(p, float64(c)/total)
	}
	return stat.Entropy(p) / math.Ln2
}

// bitVariance is the gonum-computed variance, across the eight bit
// positions, of each position's fraction of set bits. Uniform random
// data drives every position toward 0.5, so variance near zero is ideal.
func bitVariance(buf []byte) float64 {
	var setCount [8]float64
	for _, b := range buf {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				setCount[bit]++
			}
		}
	}
	fractions := make([]float64, 8)
	for i, c := range setCount {
		fractions[i] = c / float64(len(buf))
	}
	return stat.Variance(fractions, nil)
}

// slidingWindowUniformity splits buf into windows of size w, computes
// entropy per window, and returns 1 - normalized variance of those
// per-window entropies: values near 1 mean the payload looks uniformly
// random across its whole length, not just in aggregate.
func slidingWindowUniformity(buf []byte, w int) float64 {
	if len(buf) < w {
		w = len(buf)
	}
	if w == 0 {
		return 0
	}
	var entropies []float64
	for i := 0; i+w <= len(buf); i += w {
		entropies = append(entropies, byteEntropy(buf[i:i+w]))
	}
	if len(entropies) < 2 {
		return 1
	}
	variance := stat.Variance(entropies, nil)
	const maxEntropy = 8.0
	normalized := variance / (maxEntropy * maxEntropy)
	return 1 - math.Min(normalized, 1)
}

// frequencyDistributionScore reports how close the byte-value histogram
// is to uniform: 1 - normalized variance of per-value frequencies.
func frequencyDistributionScore(buf []byte) float64 {
	var freq [256]float64
	for _, b := range buf {
		freq[b]++
	}
	total := float64(len(buf))
	for i := range freq {
		freq[i] /= total
	}
	ideal := 1.0 / 256.0
	variance := stat.Variance(freq[:], nil)
	normalized := variance / (ideal * ideal)
	return 1 - math.Min(normalized, 1)
}

// periodicityScore scans autocorrelation at lags 1..maxLag and returns
// 1 - the strongest lag's normalized correlation magnitude: values near
// 1 mean no detectable short-period repetition.
func periodicityScore(buf []byte, maxLag int) float64 {
	if len(buf) < 2 {
		return 1
	}
	if maxLag >= len(buf) {
		maxLag = len(buf) - 1
	}
	maxCorr := 0.0
	for lag := 1; lag <= maxLag; lag++ {
		c := math.Abs(lagCorrelation(buf, lag))
		if c > maxCorr {
			maxCorr = c
		}
	}
	return 1 - math.Min(maxCorr, 1)
}

func lagCorrelation(buf []byte, lag int) float64 {
	n := len(buf) - lag
	if n < 2 {
		return 0
	}
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(buf[i])
		y[i] = float64(buf[i+lag])
	}
	return stat.Correlation(x, y, nil)
}

// serialCorrelation is lagCorrelation at lag 1, expressed as a score
// where 1 means no adjacent-byte correlation.
func serialCorrelation(buf []byte) float64 {
	if len(buf) < 2 {
		return 1
	}
	return 1 - math.Min(math.Abs(lagCorrelation(buf, 1)), 1)
}

// positionalMappingScore reports 1 - |correlation| between byte value
// and byte position: near 1 means a byte's value carries no information
// about where it sits in the buffer.
func positionalMappingScore(buf []byte) float64 {
	if len(buf) < 2 {
		return 1
	}
	positions := make([]float64, len(buf))
	values := make([]float64, len(buf))
	for i, b := range buf {
		positions[i] = float64(i)
		values[i] = float64(b)
	}
	return 1 - math.Min(math.Abs(stat.Correlation(positions, values, nil)), 1)
}

// hammingFractionScore compares a and b bit-by-bit and scores how close
// the fraction of differing bits is to the ideal 0.5 (full avalanche).
func hammingFractionScore(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	diffBits := 0
	totalBits := n * 8
	for i := 0; i < n; i++ {
		diffBits += popcount(a[i] ^ b[i])
	}
	frac := float64(diffBits) / float64(totalBits)
	return 1 - 2*math.Abs(frac-0.5)
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

// AggregateMode selects how Aggregate combines the nine scores.
type AggregateMode int

const (
	AggregateMean AggregateMode = iota
	AggregateMin
	AggregateWeightedMean
)

// weights favor entropy, avalanche and key-dependency; the remaining six
// metrics split the rest evenly.
var weights = Scores{
	Entropy:               0.20,
	BitVariance:           0.08,
	SlidingWindow:         0.08,
	FrequencyDistribution: 0.08,
	Periodicity:           0.08,
	Correlation:           0.08,
	PositionalMapping:     0.08,
	Avalanche:             0.16,
	KeyDependency:         0.16,
}

// Aggregate combines scores into a single figure per mode.
func Aggregate(scores Scores, mode AggregateMode) float64 {
	switch mode {
	case AggregateMin:
		min := scores[0]
		for _, v := range scores[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case AggregateWeightedMean:
		var sum float64
		for i, v := range scores {
			sum += v * weights[i]
		}
		return sum
	default: // AggregateMean
		var sum float64
		for _, v := range scores {
			sum += v
		}
		return sum / float64(len(scores))
	}
}
