package http

import (
	"bytes"
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

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
	"github.com/ledgerlock/ledgerlock/internal/tenant/http/dto"
	tenantUsecase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
	"github.com/ledgerlock/ledgerlock/internal/tenant/usecase/mocks"
)

const testPassphrase = "correct horse battery staple"

// setupTestHandler creates a test handler with a mocked tenant use case.
func setupTestHandler(t *testing.T) (*TenantHandler, *mocks.MockTenantUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockTenantUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewTenantHandler(mockUseCase, logger)

	return handler, mockUseCase
}

// createTestContext builds a gin test context with an optional JSON body.
func createTestContext(method, url string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	c.Request = httptest.NewRequest(method, url, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func TestTenantHandler_CreateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		tenantID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mockUseCase.On("Create", mock.Anything, tenantUsecase.CreateTenantInput{
			Name:       "acme",
			Passphrase: testPassphrase,
			Actor:      "api",
		}).Return(&tenantUsecase.CreateTenantOutput{
			Tenant: &tenantDomain.Tenant{
				ID:        tenantID,
				Name:      "acme",
				Algorithm: cryptoDomain.XChaCha20,
				CreatedAt: now,
			},
			RecoveryCode: "one-time-recovery-code",
		}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/tenants", dto.CreateTenantRequest{
			Name:       "acme",
			Passphrase: testPassphrase,
			Actor:      "api",
		})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CreateTenantResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, tenantID.String(), response.ID)
		assert.Equal(t, "acme", response.Name)
		assert.Equal(t, "xchacha20-poly1305", response.Algorithm)
		assert.Equal(t, "one-time-recovery-code", response.RecoveryCode)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("short passphrase rejected before use case", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/tenants", dto.CreateTenantRequest{
			Name:       "acme",
			Passphrase: "too short",
		})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name returns 409", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Create", mock.Anything, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrConflict, "tenant already exists")).Once()

		c, w := createTestContext(http.MethodPost, "/v1/tenants", dto.CreateTenantRequest{
			Name:       "acme",
			Passphrase: testPassphrase,
		})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "conflict")
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(
			http.MethodPost, "/v1/tenants", bytes.NewReader([]byte("{not json")))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
