package domain

import (
	"encoding/binary"
)

// Envelope is the persistent representation of an encrypted blob: the
// ciphertext, the per-seal random nonce, and the authentication tag.
// The triple is created and consumed atomically; a partially written
// envelope is invalid by definition.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte
	Tag        []byte
}

// Valid reports whether the envelope carries all three parts of the triple.
// The nonce size is algorithm-dependent and checked by the cipher on open.
func (e Envelope) Valid() bool {
	return len(e.Ciphertext) > 0 && len(e.Nonce) > 0 && len(e.Tag) == TagSize
}

// AssociatedIdentity builds the canonical associated-data value that binds a
// ciphertext to its context (tenant id + entity id + field name). It is
// authenticated but not encrypted, so an envelope copied into a different
// field or entity fails authentication on open.
//
// Each part is length-prefixed with a 4-byte big-endian length so the
// encoding is unambiguous regardless of part contents.
func AssociatedIdentity(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += 4 + len(p)
	}

	buf := make([]byte, 0, size)
	for _, p := range parts {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(p)))
		buf = append(buf, p...)
	}
	return buf
}
