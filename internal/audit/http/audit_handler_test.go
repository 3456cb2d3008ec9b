package http

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	"github.com/ledgerlock/ledgerlock/internal/audit/http/dto"
	"github.com/ledgerlock/ledgerlock/internal/audit/usecase/mocks"
)

// setupTestHandler creates a test handler with a mocked audit use case.
func setupTestHandler(t *testing.T) (*AuditHandler, *mocks.MockAuditUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockAuditUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewAuditHandler(mockUseCase, logger)

	return handler, mockUseCase
}

// createTestContext builds a gin test context with a tenant id URL parameter.
func createTestContext(url, tenantID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, url, nil)
	c.Params = gin.Params{{Key: "id", Value: tenantID}}

	return c, w
}

func TestAuditHandler_VerifyHandler(t *testing.T) {
	t.Run("valid chain", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())
		tailHash := []byte{0xde, 0xad, 0xbe, 0xef}

		mockUseCase.On("Verify", mock.Anything, tenantID).Return(&auditDomain.VerifyResult{
			TenantID:       tenantID,
			EventsVerified: 42,
			TailSequence:   42,
			TailHash:       tailHash,
		}, nil).Once()

		c, w := createTestContext(
			"/v1/tenants/"+tenantID.String()+"/audit/verify", tenantID.String())

		handler.VerifyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.VerifyChainResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.True(t, response.Valid)
		assert.Equal(t, uint64(42), response.EventsVerified)
		assert.Equal(t, hex.EncodeToString(tailHash), response.TailHash)
	})

	t.Run("broken chain reports the first broken link", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())
		eventID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Verify", mock.Anything, tenantID).
			Return(nil, &auditDomain.ChainBrokenError{
				TenantID:     tenantID,
				Sequence:     7,
				EventID:      eventID,
				ExpectedHash: []byte{0x01},
				ActualHash:   []byte{0x02},
				Reason:       "hash mismatch",
			}).Once()

		c, w := createTestContext(
			"/v1/tenants/"+tenantID.String()+"/audit/verify", tenantID.String())

		handler.VerifyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.VerifyChainResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.False(t, response.Valid)
		assert.Equal(t, uint64(7), response.BrokenSequence)
		assert.Equal(t, eventID.String(), response.BrokenEventID)
		assert.Equal(t, "hash mismatch", response.Reason)
	})

	t.Run("unknown tenant returns 404", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Verify", mock.Anything, tenantID).
			Return(nil, auditDomain.ErrChainNotFound).Once()

		c, w := createTestContext(
			"/v1/tenants/"+tenantID.String()+"/audit/verify", tenantID.String())

		handler.VerifyHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid tenant id returns 422", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext("/v1/tenants/not-a-uuid/audit/verify", "not-a-uuid")

		handler.VerifyHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})
}

func TestAuditHandler_EventsHandler(t *testing.T) {
	t.Run("success with defaults", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())
		eventID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		events := []*auditDomain.AuditEvent{
			{
				ID:          eventID,
				TenantID:    tenantID,
				Sequence:    3,
				EventType:   auditDomain.EventFieldEncrypted,
				Actor:       "api",
				Data:        auditDomain.FieldEncryptedData(uuid.Must(uuid.NewV7()), "document_body"),
				PrevHash:    []byte{0x01},
				CurrentHash: []byte{0x02},
				CreatedAt:   now,
			},
		}

		mockUseCase.On("List", mock.Anything, tenantID, 0, 50, (*time.Time)(nil), (*time.Time)(nil)).
			Return(events, nil).Once()

		c, w := createTestContext(
			"/v1/tenants/"+tenantID.String()+"/audit/events", tenantID.String())

		handler.EventsHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListAuditEventsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		require.Len(t, response.Data, 1)
		assert.Equal(t, eventID.String(), response.Data[0].ID)
		assert.Equal(t, uint64(3), response.Data[0].Sequence)
		assert.Equal(t, auditDomain.EventFieldEncrypted, response.Data[0].EventType)
		assert.Equal(t, "document_body", response.Data[0].Attrs["field_name"])
		assert.Equal(t, hex.EncodeToString([]byte{0x02}), response.Data[0].CurrentHash)
	})

	t.Run("time bounds are passed through", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		mockUseCase.On("List", mock.Anything, tenantID, 10, 20,
			mock.MatchedBy(func(ts *time.Time) bool { return ts != nil && ts.Equal(from) }),
			mock.MatchedBy(func(ts *time.Time) bool { return ts != nil && ts.Equal(to) }),
		).Return([]*auditDomain.AuditEvent{}, nil).Once()

		url := "/v1/tenants/" + tenantID.String() + "/audit/events" +
			"?offset=10&limit=20" +
			"&created_at_from=2026-01-01T00:00:00Z&created_at_to=2026-02-01T00:00:00Z"
		c, w := createTestContext(url, tenantID.String())

		handler.EventsHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid time bound returns 422", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(
			"/v1/tenants/"+tenantID.String()+"/audit/events?created_at_from=yesterday",
			tenantID.String())

		handler.EventsHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid pagination returns 422", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(
			"/v1/tenants/"+tenantID.String()+"/audit/events?limit=5000", tenantID.String())

		handler.EventsHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
