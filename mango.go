// Package mango is the cipher facade: the one entry point a caller
// needs to turn a plaintext buffer into a self-describing ciphertext and
// back, wiring together the key schedule, input profiler, sequence
// runner and header codec underneath (SPEC_FULL.md §4.F).
package mango

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/redeaux-corp/mango/internal/audit"
	"github.com/redeaux-corp/mango/internal/catalog"
	"github.com/redeaux-corp/mango/internal/config"
	"github.com/redeaux-corp/mango/internal/header"
	"github.com/redeaux-corp/mango/internal/keyschedule"
	"github.com/redeaux-corp/mango/internal/mangoerr"
	"github.com/redeaux-corp/mango/internal/profiler"
	"github.com/redeaux-corp/mango/internal/sequence"
)

// Re-exported sentinel errors so callers can do errors.Is(err,
// mango.ErrIntegrityFailure) without reaching into an internal package.
var (
	ErrEmptyInput         = mangoerr.ErrEmptyInput
	ErrBadHeader          = mangoerr.ErrBadHeader
	ErrIntegrityFailure   = mangoerr.ErrIntegrityFailure
	ErrNoProfileAvailable = mangoerr.ErrNoProfileAvailable
	ErrBlockSessionMisuse = mangoerr.ErrBlockSessionMisuse
)

// CryptoLib is one password/salt/zone-bound cipher instance. It holds
// the password, salt and zone from which each call derives its
// KeyStream, and, lazily, a BlockSession. Per SPEC_FULL.md §5 a CryptoLib
// must be used by at most one goroutine at a time; the profile catalog
// it references is immutable and safely shared across instances.
type CryptoLib struct {
	password []byte
	salt     [keyschedule.SaltSize]byte
	zone     []byte

	catalog  *catalog.Catalog
	profiler *profiler.Profiler
	audit    *audit.Log

	block *blockSession
}

// Options mirrors spec.md §3's CryptoLibOptions: a fixed-size salt and
// an optional zone label bound into the key schedule.
type Options struct {
	Salt     [keyschedule.SaltSize]byte
	ZoneInfo []byte
}

// New constructs a CryptoLib from a password, options, and an
// EngineConfig describing the profile catalog and (optional) audit log.
// The catalog is loaded once here; a parse failure is a construction
// failure, not a runtime one.
func New(password []byte, opts Options, cfg config.EngineConfig) (*CryptoLib, error) {
	raw, err := cfg.Catalog.Load()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(raw)
	if err != nil {
		return nil, err
	}

	p, err := profiler.New(cfg.ProfilerThresholds, cfg.ResolvedCacheSize())
	if err != nil {
		return nil, fmt.Errorf("mango: constructing profiler: %w", err)
	}

	lib := &CryptoLib{
		password: append([]byte(nil), password...),
		salt:     opts.Salt,
		zone:     append([]byte(nil), opts.ZoneInfo...),
		catalog:  cat,
		profiler: p,
		audit:    cfg.Audit,
	}

	if lib.audit != nil {
		lib.audit.Append(audit.Event{
			Kind: audit.CatalogLoaded,
			Zone: string(lib.zone),
		})
	}

	return lib, nil
}

func (c *CryptoLib) keyStream(iv [header.IVSize]byte) *keyschedule.KeyStream {
	return keyschedule.New(c.password, c.salt, c.zone).WithIV(iv[:])
}

// Encrypt builds a header from the profile resolved for plaintext, a
// fresh random IV, and SHA-256(plaintext); runs the forward pipeline;
// and returns header || ciphertext payload.
func (c *CryptoLib) Encrypt(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyInput
	}

	prof, _, err := c.profiler.Resolve(plaintext, c.catalog)
	if err != nil {
		return nil, err
	}

	var iv [header.IVSize]byte
	if _, err := rand.Read(iv[:]); err != nil {
		return nil, fmt.Errorf("mango: generating IV: %w", err)
	}

	ciphertext, err := c.encryptWithProfileAndIV(plaintext, prof, iv)
	if err != nil {
		return nil, err
	}

	if c.audit != nil {
		c.audit.Append(audit.Event{
			Kind:        audit.EncryptCalled,
			Zone:        string(c.zone),
			ProfileName: prof.Name,
			PayloadLen:  len(plaintext),
		})
	}

	return ciphertext, nil
}

func (c *CryptoLib) encryptWithProfileAndIV(plaintext []byte, prof catalog.Profile, iv [header.IVSize]byte) ([]byte, error) {
	tag := sha256.Sum256(plaintext)
	h := header.Header{
		Version:         header.Version,
		Sequence:        prof.Sequence,
		GlobalRounds:    byte(prof.GlobalRounds),
		IV:              iv,
		PlaintextSHA256: tag,
		ZoneInfo:        c.zone,
	}
	encodedHeader, err := header.Encode(h)
	if err != nil {
		return nil, err
	}

	payload := append([]byte(nil), plaintext...)
	ks := c.keyStream(iv)
	if err := sequence.RunForward(payload, prof.Sequence, prof.GlobalRounds, ks); err != nil {
		return nil, err
	}

	return append(encodedHeader, payload...), nil
}

// Decrypt parses the header, reconstructs the key stream with the
// embedded IV, runs the inverse pipeline, and verifies the plaintext
// hash. On IntegrityFailure the partially-decrypted buffer is never
// returned to the caller.
func (c *CryptoLib) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, ErrEmptyInput
	}

	h, n, err := header.Decode(ciphertext)
	if err != nil {
		return nil, err
	}
	payload := append([]byte(nil), ciphertext[n:]...)

	ks := c.keyStream(h.IV)
	if err := sequence.RunInverse(payload, h.Sequence, int(h.GlobalRounds), ks); err != nil {
		return nil, err
	}

	got := sha256.Sum256(payload)
	if subtle.ConstantTimeCompare(got[:], h.PlaintextSHA256[:]) != 1 {
		if c.audit != nil {
			c.audit.Append(audit.Event{
				Kind: audit.IntegrityFailed,
				Zone: string(c.zone),
			})
		}
		return nil, ErrIntegrityFailure
	}

	if c.audit != nil {
		c.audit.Append(audit.Event{
			Kind:       audit.DecryptCalled,
			Zone:       string(c.zone),
			PayloadLen: len(payload),
		})
	}

	return payload, nil
}

// GetPayloadOnly returns the portion of ciphertext after its header,
// without decrypting it — used by offline analysis tooling that wants
// the raw encrypted bytes.
func GetPayloadOnly(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, ErrEmptyInput
	}
	_, n, err := header.Decode(ciphertext)
	if err != nil {
		return nil, err
	}
	return ciphertext[n:], nil
}
