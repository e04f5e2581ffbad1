// Package audit implements an in-process, append-only, hash-chained log
// of cipher-facade operations, generalized from the teacher's
// mutex-guarded RBAC/HSM/key-lifecycle event ledgers to MANGO's own
// operations. It is an operational trail for operators, not a
// cryptographic commitment over ciphertext — IntegrityFailure is a
// separate, unrelated concern handled entirely in the facade.
package audit

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"
)

// ErrChainBroken is the error value for an event whose chain hash does
// not match what Append would have computed for it. Verify does not
// return it; Verify reports a break as the index of the first bad event.
var ErrChainBroken = errors.New("audit: hash chain broken")

// EventKind enumerates the facade operations the log records.
type EventKind string

const (
	EncryptCalled       EventKind = "EncryptCalled"
	DecryptCalled       EventKind = "DecryptCalled"
	CatalogLoaded       EventKind = "CatalogLoaded"
	IntegrityFailed     EventKind = "IntegrityFailed"
	BlockSessionStarted EventKind = "BlockSessionStarted"
)

// Event is one hash-chained log record. It never carries plaintext or
// key material — only lengths, the zone label, and the resolved profile
// name, so the log is safe to export for operational correlation.
type Event struct {
	Timestamp   time.Time
	Kind        EventKind
	Zone        string
	ProfileName string
	PayloadLen  int
	ChainHash   [64]byte
}

// Log is safe for concurrent use by multiple cipher instances — the one
// deliberate exception to this codebase's "no shared mutable state
// without single ownership" rule (SPEC_FULL.md §5).
type Log struct {
	mu     sync.RWMutex
	events []Event
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Append fills in Timestamp and ChainHash and adds ev to the log.
func (l *Log) Append(ev Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev.Timestamp = time.Now()
	prev := l.lastChainHashLocked()
	ev.ChainHash = chainHash(prev, ev)
	l.events = append(l.events, ev)
	return ev
}

// Events returns a copy of the logged events in append order.
func (l *Log) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Verify walks the chain and returns the index of the first event whose
// chain hash does not match, or -1 if the whole chain is intact.
func (l *Log) Verify() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var prev [64]byte
	for i, ev := range l.events {
		want := chainHash(prev, ev)
		if want != ev.ChainHash {
			return i
		}
		prev = ev.ChainHash
	}
	return -1
}

func (l *Log) lastChainHashLocked() [64]byte {
	if len(l.events) == 0 {
		return [64]byte{} // genesis: all-zero previous hash
	}
	return l.events[len(l.events)-1].ChainHash
}

// chainHash = SHA3-512(prevChainHash || encode(event-without-chainHash)).
func chainHash(prev [64]byte, ev Event) [64]byte {
	h := sha3.New512()
	h.Write(prev[:])
	h.Write(encodeForChain(ev))
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

func encodeForChain(ev Event) []byte {
	buf := make([]byte, 0, 64+len(ev.Zone)+len(ev.ProfileName)+16)
	tsBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(tsBytes, uint64(ev.Timestamp.UnixNano()))
	buf = append(buf, tsBytes...)
	buf = append(buf, ev.Kind...)
	buf = append(buf, 0)
	buf = append(buf, ev.Zone...)
	buf = append(buf, 0)
	buf = append(buf, ev.ProfileName...)
	buf = append(buf, 0)
	lenBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(lenBytes, uint64(ev.PayloadLen))
	buf = append(buf, lenBytes...)
	return buf
}
