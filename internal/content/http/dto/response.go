package dto

import (
	"time"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
)

// EncryptedFieldResponse represents an encrypted field in API responses.
// Only metadata is returned; ciphertext never leaves storage through the API.
type EncryptedFieldResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	EntityID  string    `json:"entity_id"`
	FieldName string    `json:"field_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapFieldToEncryptResponse converts a domain encrypted field to an API response.
func MapFieldToEncryptResponse(field *contentDomain.EncryptedField) EncryptedFieldResponse {
	return EncryptedFieldResponse{
		ID:        field.ID.String(),
		TenantID:  field.TenantID.String(),
		EntityID:  field.EntityID.String(),
		FieldName: field.FieldName,
		CreatedAt: field.CreatedAt,
		UpdatedAt: field.UpdatedAt,
	}
}

// DecryptFieldResponse carries a decrypted field value. Value is base64 in
// the JSON encoding. SECURITY: Caller must zero the plaintext after the
// response is written.
type DecryptFieldResponse struct {
	Value []byte `json:"value"`
}
