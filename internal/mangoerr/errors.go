// Package mangoerr holds the sentinel errors that make up MANGO's error
// taxonomy (SPEC_FULL.md §7), shared across internal packages and
// re-exported by the top-level mango package so callers never need to
// import an internal path to do an errors.Is check.
package mangoerr

import "errors"

var (
	// ErrEmptyInput: plaintext or ciphertext is zero-length where
	// disallowed.
	ErrEmptyInput = errors.New("mango: empty input")

	// ErrBadHeader: magic mismatch, truncated header, unknown version,
	// or out-of-range seq_len/global_rounds.
	ErrBadHeader = errors.New("mango: bad header")

	// ErrIntegrityFailure: post-decrypt SHA-256 of recovered plaintext
	// does not match the header's tag.
	ErrIntegrityFailure = errors.New("mango: integrity check failed")

	// ErrNoProfileAvailable: the profiler found no usable profile, even
	// after falling back to Combined.
	ErrNoProfileAvailable = errors.New("mango: no profile available")

	// ErrBlockSessionMisuse: an EncryptBlock/DecryptBlock call started
	// while another block-mode call on the same instance was still in
	// progress. Out-of-order blocks and mixing block mode with
	// whole-buffer Encrypt/Decrypt are not detected.
	ErrBlockSessionMisuse = errors.New("mango: block session misuse")
)
