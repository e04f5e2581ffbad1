package mango

import (
	"github.com/redeaux-corp/mango/internal/audit"
	"github.com/redeaux-corp/mango/internal/catalog"
	"github.com/redeaux-corp/mango/internal/header"
	"github.com/redeaux-corp/mango/internal/sequence"
)

// blockSession is CryptoLib's per-instance mutable state for block mode
// (spec.md §3). It is strictly single-owner: concurrent EncryptBlock /
// DecryptBlock calls on the same CryptoLib are forbidden and detected
// via the busy flag below, rather than left silently undefined.
type blockSession struct {
	initialized bool
	busy        bool
	profile     catalog.Profile
	ivCounter   uint64
}

func ivFromCounter(counter uint64) [header.IVSize]byte {
	var iv [header.IVSize]byte
	for i := 0; i < 8; i++ {
		iv[i] = byte(counter >> (8 * i))
	}
	return iv
}

// EncryptBlock behaves like Encrypt on the first call, caching the
// resolved profile and emitting a full header; subsequent calls emit a
// headerless payload keyed by the session's monotonic IV counter.
// Mixing Encrypt and EncryptBlock on the same CryptoLib is undefined
// per spec.md §4.F; callers must present blocks in order.
func (c *CryptoLib) EncryptBlock(block []byte) ([]byte, error) {
	if len(block) == 0 {
		return nil, ErrEmptyInput
	}
	if c.block == nil {
		c.block = &blockSession{}
	}
	if c.block.busy {
		return nil, ErrBlockSessionMisuse
	}
	c.block.busy = true
	defer func() { c.block.busy = false }()

	if !c.block.initialized {
		prof, _, err := c.profiler.Resolve(block, c.catalog)
		if err != nil {
			return nil, err
		}
		c.block.profile = prof
		c.block.initialized = true
		c.block.ivCounter = 0

		iv := ivFromCounter(c.block.ivCounter)
		c.block.ivCounter++

		out, err := c.encryptWithProfileAndIV(block, prof, iv)
		if err != nil {
			return nil, err
		}
		if c.audit != nil {
			c.audit.Append(audit.Event{
				Kind:        audit.BlockSessionStarted,
				Zone:        string(c.zone),
				ProfileName: prof.Name,
				PayloadLen:  len(block),
			})
		}
		return out, nil
	}

	iv := ivFromCounter(c.block.ivCounter)
	c.block.ivCounter++

	payload := append([]byte(nil), block...)
	ks := c.keyStream(iv)
	if err := sequence.RunForward(payload, c.block.profile.Sequence, c.block.profile.GlobalRounds, ks); err != nil {
		return nil, err
	}
	return payload, nil
}

// DecryptBlock mirrors EncryptBlock: the first call parses a full
// header and caches its profile; subsequent calls treat the input as a
// headerless payload under the cached profile and the session's next
// IV-counter value.
func (c *CryptoLib) DecryptBlock(block []byte) ([]byte, error) {
	if len(block) == 0 {
		return nil, ErrEmptyInput
	}
	if c.block == nil {
		c.block = &blockSession{}
	}
	if c.block.busy {
		return nil, ErrBlockSessionMisuse
	}
	c.block.busy = true
	defer func() { c.block.busy = false }()

	if !c.block.initialized {
		h, n, err := header.Decode(block)
		if err != nil {
			return nil, err
		}
		prof := catalog.Profile{
			Name:         "", // block mode carries no class name, only the sequence/GR pair
			Sequence:     h.Sequence,
			GlobalRounds: int(h.GlobalRounds),
		}
		c.block.profile = prof
		c.block.initialized = true
		c.block.ivCounter = 1 // the header's own IV was counter 0

		payload := append([]byte(nil), block[n:]...)
		ks := c.keyStream(h.IV)
		if err := sequence.RunInverse(payload, h.Sequence, int(h.GlobalRounds), ks); err != nil {
			return nil, err
		}

		if c.audit != nil {
			c.audit.Append(audit.Event{
				Kind:       audit.BlockSessionStarted,
				Zone:       string(c.zone),
				PayloadLen: len(payload),
			})
		}
		return payload, nil
	}

	iv := ivFromCounter(c.block.ivCounter)
	c.block.ivCounter++

	payload := append([]byte(nil), block...)
	ks := c.keyStream(iv)
	if err := sequence.RunInverse(payload, c.block.profile.Sequence, c.block.profile.GlobalRounds, ks); err != nil {
		return nil, err
	}
	return payload, nil
}
