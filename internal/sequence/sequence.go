// Package sequence runs an ordered TransformRef sequence forward and
// inverse across a number of global rounds, interleaving key-stream
// material from internal/keyschedule. The nested round -> position ->
// repetition loop order is strict in both directions; any deviation
// breaks decryption (SPEC_FULL.md §5).
package sequence

import (
	"fmt"

	"github.com/redeaux-corp/mango/internal/keyschedule"
	"github.com/redeaux-corp/mango/internal/transform"
)

// TransformRef pairs a transform id with its per-round repetition count.
type TransformRef struct {
	ID byte
	TR byte // repetition count within one global-round pass, >= 1
}

// Sequence is an ordered list of TransformRef, length 1..255.
type Sequence []TransformRef

// Validate checks the structural constraints from spec.md §3: length in
// [1,255] and every repetition count >= 1. It does not check that every
// id is registered — that is surfaced lazily as UnknownTransform when
// the runner looks the id up, so a sequence referencing a retired or
// not-yet-assigned id still round-trips the BadHeader/UnknownTransform
// error path instead of failing validation early.
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("sequence: must contain at least one transform")
	}
	if len(s) > 255 {
		return fmt.Errorf("sequence: length %d exceeds 255", len(s))
	}
	for i, ref := range s {
		if ref.TR == 0 {
			return fmt.Errorf("sequence: position %d has repetition count 0", i)
		}
	}
	return nil
}

// RunForward applies sequence forward over globalRounds rounds, mutating
// payload in place. Empty payload and globalRounds == 0 are no-ops.
func RunForward(payload []byte, seq Sequence, globalRounds int, ks *keyschedule.KeyStream) error {
	if len(payload) == 0 || globalRounds == 0 {
		return nil
	}
	if err := seq.Validate(); err != nil {
		return err
	}
	for r := 0; r < globalRounds; r++ {
		for pos, ref := range seq {
			fwd, _, err := transform.Lookup(ref.ID)
			if err != nil {
				return err
			}
			for t := 0; t < int(ref.TR); t++ {
				window := ks.Window(r, pos, t, len(payload))
				fwd(payload, window)
			}
		}
	}
	return nil
}

// RunInverse undoes RunForward: rounds in reverse, positions in reverse,
// repetitions in reverse key-window order, using each transform's
// inverse function.
func RunInverse(payload []byte, seq Sequence, globalRounds int, ks *keyschedule.KeyStream) error {
	if len(payload) == 0 || globalRounds == 0 {
		return nil
	}
	if err := seq.Validate(); err != nil {
		return err
	}
	for r := globalRounds - 1; r >= 0; r-- {
		for pos := len(seq) - 1; pos >= 0; pos-- {
			ref := seq[pos]
			_, inv, err := transform.Lookup(ref.ID)
			if err != nil {
				return err
			}
			for t := int(ref.TR) - 1; t >= 0; t-- {
				window := ks.Window(r, pos, t, len(payload))
				inv(payload, window)
			}
		}
	}
	return nil
}
