// Package domain defines the tamper-evident audit chain domain models.
//
// Every mutating operation appends an AuditEvent to its tenant's chain. Each
// event carries the hash of its predecessor, so inserting, altering, or
// removing any historical event breaks every hash from that point forward.
// Events are immutable once written; corrections are new events.
package domain

import (
	"encoding/binary"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// HashSize is the size in bytes of chain hashes (BLAKE3-256).
const HashSize = 32

// Well-known event types appended by this core. Consumers may append their
// own types; unknown types hash and verify exactly like known ones.
const (
	EventTenantCreated     = "tenant.created"
	EventPassphraseRotated = "passphrase.rotated"
	EventFieldEncrypted    = "field.encrypted"
	EventSessionUnlocked   = "session.unlocked"
	EventSessionLocked     = "session.locked"
	EventUnlockFailed      = "unlock.failed"
	EventChainPurged       = "chain.purged"
)

// AuditEvent is one link in a tenant's append-only chain. Sequence is the
// strict per-tenant total order; PrevHash is the stored CurrentHash of the
// previous event (the genesis constant for sequence 1).
type AuditEvent struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Sequence    uint64
	EventType   string
	Actor       string
	Data        EventData
	PrevHash    []byte
	CurrentHash []byte
	CreatedAt   time.Time
}

// EventData is the structured payload of an audit event: a set of known
// string attributes for the recognized event kinds, plus an opaque-bytes
// fallback for payloads this core does not model. Both parts participate in
// the canonical serialization, so semantically identical payloads always
// hash identically.
type EventData struct {
	Attrs  map[string]string `json:"attrs,omitempty"`
	Opaque []byte            `json:"opaque,omitempty"`
}

// CanonicalBytes returns the deterministic byte representation used for
// chain hashing: attributes sorted by key, every element length-prefixed
// with a 4-byte big-endian length, followed by the opaque payload. Map
// iteration order never leaks into the encoding.
func (d EventData) CanonicalBytes() []byte {
	keys := make([]string, 0, len(d.Attrs))
	for k := range d.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, 0, 256)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(keys)))
	for _, k := range keys {
		buf = appendLengthPrefixed(buf, []byte(k))
		buf = appendLengthPrefixed(buf, []byte(d.Attrs[k]))
	}
	buf = appendLengthPrefixed(buf, d.Opaque)
	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// FieldEncryptedData builds the payload for a field.encrypted event.
func FieldEncryptedData(entityID uuid.UUID, fieldName string) EventData {
	return EventData{Attrs: map[string]string{
		"entity_id":  entityID.String(),
		"field_name": fieldName,
	}}
}

// PassphraseRotatedData builds the payload for a passphrase.rotated event.
// Method is "passphrase" or "recovery_code".
func PassphraseRotatedData(method string) EventData {
	return EventData{Attrs: map[string]string{"method": method}}
}

// SessionData builds the payload for session lifecycle events.
func SessionData(sessionID string) EventData {
	return EventData{Attrs: map[string]string{"session_id": sessionID}}
}

// ChainPurgedData builds the payload for a chain.purged event, recording the
// truncated prefix and the hash of the last purged event so the new genesis
// stays anchored to the removed history.
func ChainPurgedData(throughSequence uint64, lastPurgedHash []byte) EventData {
	return EventData{
		Attrs: map[string]string{
			"through_sequence": strconv.FormatUint(throughSequence, 10),
		},
		Opaque: lastPurgedHash,
	}
}
