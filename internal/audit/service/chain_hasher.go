package service

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

// genesisLabel is hashed once to produce the fixed genesis constant. The
// constant is not secret; it only anchors the first link of every chain.
const genesisLabel = "ledgerlock-audit-genesis-v1"

// chainHasher implements ChainHasher using BLAKE3-256. BLAKE3 is chosen for
// throughput: every mutation in the system appends an event, so the hash sits
// on the write path of all tenant content changes.
type chainHasher struct {
	genesis []byte
}

// NewChainHasher creates a new BLAKE3-based chain hasher.
func NewChainHasher() ChainHasher {
	sum := blake3.Sum256([]byte(genesisLabel))
	return &chainHasher{genesis: sum[:]}
}

// Genesis returns the fixed genesis constant (BLAKE3 of a version label).
func (c *chainHasher) Genesis() []byte {
	genesis := make([]byte, len(c.genesis))
	copy(genesis, c.genesis)
	return genesis
}

// EventHash computes the chain hash over the previous hash and the event's
// canonical representation. Every variable-length component is
// length-prefixed so the concatenation is unambiguous.
//
// Input layout: prev_hash || canonical(event_data) || event_type || actor || unix_nano(created_at)
func (c *chainHasher) EventHash(prevHash []byte, event *auditDomain.AuditEvent) []byte {
	h := blake3.New()

	// Writes to blake3.Hasher never fail.
	_, _ = h.Write(prevHash)
	writeLengthPrefixed(h, event.Data.CanonicalBytes())
	writeLengthPrefixed(h, []byte(event.EventType))
	writeLengthPrefixed(h, []byte(event.Actor))

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(event.CreatedAt.UnixNano()))
	_, _ = h.Write(ts[:])

	return h.Sum(nil)
}

// writeLengthPrefixed writes a 4-byte big-endian length followed by data.
func writeLengthPrefixed(h *blake3.Hasher, data []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	_, _ = h.Write(length[:])
	_, _ = h.Write(data)
}
