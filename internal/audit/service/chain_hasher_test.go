package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

func sampleEvent() *auditDomain.AuditEvent {
	return &auditDomain.AuditEvent{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  uuid.Must(uuid.NewV7()),
		Sequence:  1,
		EventType: auditDomain.EventFieldEncrypted,
		Actor:     "svc-ingest",
		Data: auditDomain.EventData{Attrs: map[string]string{
			"entity_id":  "e-1",
			"field_name": "body",
		}},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestChainHasher_Genesis(t *testing.T) {
	hasher := NewChainHasher()

	genesis := hasher.Genesis()
	require.Len(t, genesis, auditDomain.HashSize)

	// Genesis is a fixed constant
	assert.Equal(t, genesis, hasher.Genesis())

	// Callers must not be able to corrupt the shared constant
	genesis[0] ^= 0xFF
	assert.NotEqual(t, genesis, hasher.Genesis())
}

func TestChainHasher_EventHash(t *testing.T) {
	hasher := NewChainHasher()

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		event := sampleEvent()
		prev := hasher.Genesis()

		first := hasher.EventHash(prev, event)
		second := hasher.EventHash(prev, event)

		require.Len(t, first, auditDomain.HashSize)
		assert.Equal(t, first, second)
	})

	t.Run("attribute order does not change the hash", func(t *testing.T) {
		event := sampleEvent()
		prev := hasher.Genesis()
		base := hasher.EventHash(prev, event)

		// Rebuild the map so iteration order differs
		reordered := sampleEvent()
		reordered.CreatedAt = event.CreatedAt
		reordered.Data = auditDomain.EventData{Attrs: map[string]string{
			"field_name": "body",
			"entity_id":  "e-1",
		}}

		assert.Equal(t, base, hasher.EventHash(prev, reordered))
	})

	t.Run("any input change changes the hash", func(t *testing.T) {
		prev := hasher.Genesis()
		base := hasher.EventHash(prev, sampleEvent())

		tests := []struct {
			name   string
			mutate func(e *auditDomain.AuditEvent)
		}{
			{"event type", func(e *auditDomain.AuditEvent) { e.EventType = auditDomain.EventSessionLocked }},
			{"actor", func(e *auditDomain.AuditEvent) { e.Actor = "svc-other" }},
			{"payload attribute", func(e *auditDomain.AuditEvent) { e.Data.Attrs["field_name"] = "title" }},
			{"timestamp", func(e *auditDomain.AuditEvent) { e.CreatedAt = e.CreatedAt.Add(time.Nanosecond) }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				event := sampleEvent()
				tt.mutate(event)
				assert.NotEqual(t, base, hasher.EventHash(prev, event))
			})
		}
	})

	t.Run("different prev hash changes the hash", func(t *testing.T) {
		event := sampleEvent()
		first := hasher.EventHash(hasher.Genesis(), event)

		other := make([]byte, auditDomain.HashSize)
		other[0] = 0x01
		assert.NotEqual(t, first, hasher.EventHash(other, event))
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		prev := hasher.Genesis()

		a := sampleEvent()
		a.EventType = "ab"
		a.Actor = "c"

		b := sampleEvent()
		b.EventType = "a"
		b.Actor = "bc"

		assert.NotEqual(t, hasher.EventHash(prev, a), hasher.EventHash(prev, b))
	})
}
