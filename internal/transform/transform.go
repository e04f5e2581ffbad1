// Package transform implements the MANGO transform library: ~34 small,
// reversible byte-level primitives dispatched by an 8-bit id. Each
// transform is a pair of functions, not a type hierarchy — new transforms
// are added as table entries, never subclasses, so dispatch stays O(1)
// and wire-compatible ids never need a runtime lookup beyond an array
// index.
package transform

import "fmt"

// Func mutates buf in place given a key window of equal length.
type Func func(buf, window []byte)

type entry struct {
	name    string
	forward Func
	inverse Func
}

// ErrUnknownTransform is returned by Lookup for an id with no registered
// entry. Ids 1..34 are assigned below; the remaining ids up to 255 are
// reserved for future transforms and must never be reused once retired,
// per the append-only id space documented in SPEC_FULL.md §4.A.
type ErrUnknownTransform struct{ ID byte }

func (e ErrUnknownTransform) Error() string {
	return fmt.Sprintf("transform: unknown id %d", e.ID)
}

var table [256]*entry

func register(id byte, name string, fwd, inv Func) {
	if table[id] != nil {
		panic(fmt.Sprintf("transform: id %d already registered", id))
	}
	table[id] = &entry{name: name, forward: fwd, inverse: inv}
}

// Lookup returns the forward and inverse functions for id.
func Lookup(id byte) (fwd, inv Func, err error) {
	e := table[id]
	if e == nil {
		return nil, nil, ErrUnknownTransform{ID: id}
	}
	return e.forward, e.inverse, nil
}

// Name returns the registered name of id, or "" if unregistered.
func Name(id byte) string {
	if e := table[id]; e != nil {
		return e.name
	}
	return ""
}

// IDs returns the sorted list of registered transform ids.
func IDs() []byte {
	ids := make([]byte, 0, 34)
	for i := 0; i < 256; i++ {
		if table[i] != nil {
			ids = append(ids, byte(i))
		}
	}
	return ids
}

func init() {
	register(1, "XORTx", xorStride(1), xorStride(1))
	register(2, "XORStride2", xorStride(2), xorStride(2))
	register(3, "XORStride4", xorStride(4), xorStride(4))
	register(4, "SubBytesXorMask", subBytesXorMaskFwd, subBytesXorMaskInv)
	register(5, "MaskBasedSBox", maskBasedSBoxFwd, maskBasedSBoxInv)
	register(6, "MaskedDoubleSub", maskedDoubleSubFwd, maskedDoubleSubInv)
	register(7, "MaskedCascadeSubFb", maskedCascadeSubFbFwd, maskedCascadeSubFbInv)
	register(8, "ShuffleNibbles", shuffleNibblesFwd, shuffleNibblesInv)
	register(9, "ShuffleBits", shuffleBitsFwd, shuffleBitsInv)
	register(10, "ShuffleBytes", shuffleBytesFwd, shuffleBytesInv)
	register(11, "FrequencyEqualizer", frequencyEqualizerFwd, frequencyEqualizerInv)
	register(12, "ChunkedFb", chunkedFbFwd, chunkedFbInv)
	register(13, "ButterflyWithPairs", butterflyFwd(32), butterflyInv(32))
	register(14, "AdditiveScatter", additiveScatterKeyedFwd, additiveScatterKeyedInv)
	register(15, "RotateBitsKeyed", rotateBitsKeyedFwd, rotateBitsKeyedInv)
	register(16, "ByteSwapPairsKeyed", byteSwapPairsKeyed, byteSwapPairsKeyed)
	register(17, "DiffusionChainXor", diffusionChainXorFwd, diffusionChainXorInv)
	register(18, "MaskedRotateSBox", maskedRotateSBoxFwd, maskedRotateSBoxInv)
	register(19, "XorThenRotate", xorThenRotateFwd, xorThenRotateInv)
	register(20, "RotateThenXor", rotateThenXorFwd, rotateThenXorInv)
	register(21, "ComplementMask", complementMaskFwd, complementMaskInv)
	register(22, "AdditiveScatterStride3", additiveScatterFixedFwd(3), additiveScatterFixedInv(3))
	register(23, "XorStride8", xorStride(8), xorStride(8))
	register(24, "XorStride16", xorStride(16), xorStride(16))
	register(25, "ShuffleBytesBlock", shuffleBytesBlockFwd, shuffleBytesBlockInv)
	register(26, "FrequencyEqualizerBlock", frequencyEqualizerBlockFwd, frequencyEqualizerBlockInv)
	register(27, "BitPlaneXor", bitPlaneXor, bitPlaneXor)
	register(28, "CascadeAdditionFb", cascadeAdditionFbFwd, cascadeAdditionFbInv)
	register(29, "XorStride32", xorStride(32), xorStride(32))
	register(30, "AdditiveScatterStride5", additiveScatterFixedFwd(5), additiveScatterFixedInv(5))
	register(31, "RotateBitsReverseKeyed", rotateBitsReverseKeyedFwd, rotateBitsReverseKeyedInv)
	register(32, "ComplementXorStride", complementXorStride, complementXorStride)
	register(33, "MaskedCascadeSubFbReverse", maskedCascadeSubFbReverseFwd, maskedCascadeSubFbReverseInv)
	register(34, "ButterflyWithPairsBlock64", butterflyFwd(64), butterflyInv(64))
}

// --- XOR family ---

func xorStride(stride int) Func {
	return func(buf, window []byte) {
		for i := 0; i < len(buf); i += stride {
			buf[i] ^= window[i]
		}
	}
}

// --- Substitution family ---

func subBytesXorMaskFwd(buf, window []byte) {
	sbox := buildSBox(window)
	for i := range buf {
		buf[i] = sbox[buf[i]] ^ window[i]
	}
}

func subBytesXorMaskInv(buf, window []byte) {
	sbox := invertSBox(buildSBox(window))
	for i := range buf {
		buf[i] = sbox[buf[i]^window[i]]
	}
}

func maskBasedSBoxFwd(buf, window []byte) {
	sbox := buildSBox(window)
	for i := range buf {
		buf[i] = sbox[buf[i]^window[i]]
	}
}

func maskBasedSBoxInv(buf, window []byte) {
	sbox := invertSBox(buildSBox(window))
	for i := range buf {
		buf[i] = sbox[buf[i]] ^ window[i]
	}
}

func maskedDoubleSubFwd(buf, window []byte) {
	sbox1 := buildSBox(window)
	sbox2 := buildSBox(deriveWindow(window, 0xA5))
	for i := range buf {
		buf[i] = sbox2[sbox1[buf[i]]]
	}
}

func maskedDoubleSubInv(buf, window []byte) {
	invSbox1 := invertSBox(buildSBox(window))
	invSbox2 := invertSBox(buildSBox(deriveWindow(window, 0xA5)))
	for i := range buf {
		buf[i] = invSbox1[invSbox2[buf[i]]]
	}
}

func maskedCascadeSubFbFwd(buf, window []byte) {
	sbox := buildSBox(window)
	var prev byte
	for i := range buf {
		y := sbox[buf[i]^prev]
		buf[i] = y
		prev = y
	}
}

func maskedCascadeSubFbInv(buf, window []byte) {
	invSbox := invertSBox(buildSBox(window))
	var prev byte
	for i := range buf {
		y := buf[i]
		buf[i] = invSbox[y] ^ prev
		prev = y
	}
}

func maskedCascadeSubFbReverseFwd(buf, window []byte) {
	sbox := buildSBox(deriveWindow(window, 0x5A))
	var prev byte
	for i := len(buf) - 1; i >= 0; i-- {
		y := sbox[buf[i]^prev]
		buf[i] = y
		prev = y
	}
}

func maskedCascadeSubFbReverseInv(buf, window []byte) {
	invSbox := invertSBox(buildSBox(deriveWindow(window, 0x5A)))
	var prev byte
	for i := len(buf) - 1; i >= 0; i-- {
		y := buf[i]
		buf[i] = invSbox[y] ^ prev
		prev = y
	}
}

func frequencyEqualizerFwd(buf, window []byte) {
	sbox := buildSBox(window)
	for i := range buf {
		buf[i] = sbox[buf[i]]
	}
}

func frequencyEqualizerInv(buf, window []byte) {
	sbox := invertSBox(buildSBox(window))
	for i := range buf {
		buf[i] = sbox[buf[i]]
	}
}

const frequencyEqualizerBlockSize = 64

func frequencyEqualizerBlockFwd(buf, window []byte) {
	for start := 0; start < len(buf); start += frequencyEqualizerBlockSize {
		end := min(start+frequencyEqualizerBlockSize, len(buf))
		sbox := buildSBox(window[start:end])
		for i := start; i < end; i++ {
			buf[i] = sbox[buf[i]]
		}
	}
}

func frequencyEqualizerBlockInv(buf, window []byte) {
	for start := 0; start < len(buf); start += frequencyEqualizerBlockSize {
		end := min(start+frequencyEqualizerBlockSize, len(buf))
		sbox := invertSBox(buildSBox(window[start:end]))
		for i := start; i < end; i++ {
			buf[i] = sbox[buf[i]]
		}
	}
}

func maskedRotateSBoxFwd(buf, window []byte) {
	sbox := buildSBox(window)
	for i := range buf {
		n := uint(window[i] % 8)
		buf[i] = rotateLeft8(sbox[buf[i]], n)
	}
}

func maskedRotateSBoxInv(buf, window []byte) {
	invSbox := invertSBox(buildSBox(window))
	for i := range buf {
		n := uint(window[i] % 8)
		buf[i] = invSbox[rotateRight8(buf[i], n)]
	}
}

// --- Shuffle family ---

func shuffleNibblesFwd(buf, window []byte) {
	for i := range buf {
		if window[i]&1 == 1 {
			buf[i] = swapNibbles(buf[i])
		}
	}
}

// ShuffleNibbles is its own inverse: swapping the same byte's nibbles
// twice under the same keyed decision restores it.
var shuffleNibblesInv = shuffleNibblesFwd

func shuffleBitsFwd(buf, window []byte) {
	perm := buildBitPermutation(window)
	for i := range buf {
		buf[i] = permuteBits(buf[i], perm)
	}
}

func shuffleBitsInv(buf, window []byte) {
	perm := invertBitPermutation(buildBitPermutation(window))
	for i := range buf {
		buf[i] = permuteBits(buf[i], perm)
	}
}

func shuffleBytesFwd(buf, window []byte) {
	perm := buildBytePermutation(window, len(buf))
	out := make([]byte, len(buf))
	for i := range out {
		out[i] = buf[perm[i]]
	}
	copy(buf, out)
}

func shuffleBytesInv(buf, window []byte) {
	perm := invertIntPermutation(buildBytePermutation(window, len(buf)))
	out := make([]byte, len(buf))
	for i := range out {
		out[i] = buf[perm[i]]
	}
	copy(buf, out)
}

const shuffleBytesBlockSize = 16

func shuffleBytesBlockFwd(buf, window []byte) {
	for start := 0; start < len(buf); start += shuffleBytesBlockSize {
		end := min(start+shuffleBytesBlockSize, len(buf))
		n := end - start
		perm := buildBytePermutation(window[start:end], n)
		out := make([]byte, n)
		for i := range out {
			out[i] = buf[start+perm[i]]
		}
		copy(buf[start:end], out)
	}
}

func shuffleBytesBlockInv(buf, window []byte) {
	for start := 0; start < len(buf); start += shuffleBytesBlockSize {
		end := min(start+shuffleBytesBlockSize, len(buf))
		n := end - start
		perm := invertIntPermutation(buildBytePermutation(window[start:end], n))
		out := make([]byte, n)
		for i := range out {
			out[i] = buf[start+perm[i]]
		}
		copy(buf[start:end], out)
	}
}

// --- Feedback / chunked family ---

const chunkedFbChunkSize = 16

func chunkedFbFwd(buf, window []byte) {
	prev := make([]byte, chunkedFbChunkSize)
	for start := 0; start < len(buf); start += chunkedFbChunkSize {
		end := min(start+chunkedFbChunkSize, len(buf))
		for i := start; i < end; i++ {
			buf[i] = buf[i] ^ window[i] ^ prev[i-start]
		}
		copy(prev, buf[start:end])
	}
}

func chunkedFbInv(buf, window []byte) {
	prev := make([]byte, chunkedFbChunkSize)
	cur := make([]byte, chunkedFbChunkSize)
	for start := 0; start < len(buf); start += chunkedFbChunkSize {
		end := min(start+chunkedFbChunkSize, len(buf))
		copy(cur, buf[start:end])
		for i := start; i < end; i++ {
			buf[i] = buf[i] ^ window[i] ^ prev[i-start]
		}
		copy(prev, cur[:end-start])
	}
}

func diffusionChainXorFwd(buf, window []byte) {
	var prev byte
	for i := range buf {
		c := buf[i] ^ prev ^ window[i]
		buf[i] = c
		prev = c
	}
}

func diffusionChainXorInv(buf, window []byte) {
	var prev byte
	for i := range buf {
		c := buf[i]
		buf[i] = c ^ prev ^ window[i]
		prev = c
	}
}

func cascadeAdditionFbFwd(buf, window []byte) {
	var prev byte
	for i := range buf {
		c := byte(buf[i] + prev + window[i])
		buf[i] = c
		prev = c
	}
}

func cascadeAdditionFbInv(buf, window []byte) {
	var prev byte
	for i := range buf {
		c := buf[i]
		buf[i] = byte(c - prev - window[i])
		prev = c
	}
}

func butterflyFwd(blockSize int) Func {
	return func(buf, window []byte) { butterflyBlock(buf, window, blockSize, true) }
}

func butterflyInv(blockSize int) Func {
	return func(buf, window []byte) { butterflyBlock(buf, window, blockSize, false) }
}

// --- Additive scatter family ---

func additiveScatterKeyedFwd(buf, window []byte) {
	stride := computeStride(window, 7)
	for i := 0; i < len(buf); i += stride {
		buf[i] = byte(buf[i] + window[i])
	}
}

func additiveScatterKeyedInv(buf, window []byte) {
	stride := computeStride(window, 7)
	for i := 0; i < len(buf); i += stride {
		buf[i] = byte(buf[i] - window[i])
	}
}

func additiveScatterFixedFwd(stride int) Func {
	return func(buf, window []byte) {
		for i := 0; i < len(buf); i += stride {
			buf[i] = byte(buf[i] + window[i])
		}
	}
}

func additiveScatterFixedInv(stride int) Func {
	return func(buf, window []byte) {
		for i := 0; i < len(buf); i += stride {
			buf[i] = byte(buf[i] - window[i])
		}
	}
}

// --- Rotate / bit-level family ---

func rotateBitsKeyedFwd(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateLeft8(buf[i], uint(window[i]%8))
	}
}

func rotateBitsKeyedInv(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateRight8(buf[i], uint(window[i]%8))
	}
}

func rotateBitsReverseKeyedFwd(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateRight8(buf[i], uint(window[i]%8))
	}
}

func rotateBitsReverseKeyedInv(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateLeft8(buf[i], uint(window[i]%8))
	}
}

func byteSwapPairsKeyed(buf, window []byte) {
	for i := 0; i+1 < len(buf); i += 2 {
		if window[i]&1 == 1 {
			buf[i], buf[i+1] = buf[i+1], buf[i]
		}
	}
}

func bitPlaneXor(buf, window []byte) {
	if len(window) == 0 {
		return
	}
	mask := byte(1) << uint(window[0]%8)
	for i := range buf {
		if window[i]&1 == 1 {
			buf[i] ^= mask
		}
	}
}

func xorThenRotateFwd(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateLeft8(buf[i]^window[i], uint(window[i]%8))
	}
}

func xorThenRotateInv(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateRight8(buf[i], uint(window[i]%8)) ^ window[i]
	}
}

func rotateThenXorFwd(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateLeft8(buf[i], uint(window[i]%8)) ^ window[i]
	}
}

func rotateThenXorInv(buf, window []byte) {
	for i := range buf {
		buf[i] = rotateRight8(buf[i]^window[i], uint(window[i]%8))
	}
}

func complementMaskFwd(buf, window []byte) {
	for i := range buf {
		buf[i] = ^buf[i] ^ window[i]
	}
}

func complementMaskInv(buf, window []byte) {
	for i := range buf {
		buf[i] = ^(buf[i] ^ window[i])
	}
}

func complementXorStride(buf, window []byte) {
	for i := 0; i < len(buf); i += 2 {
		if window[i]&1 == 1 {
			buf[i] = ^buf[i]
		}
	}
}
