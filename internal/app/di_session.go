package app

import (
	"fmt"

	sessionHTTP "github.com/ledgerlock/ledgerlock/internal/session/http"
	sessionService "github.com/ledgerlock/ledgerlock/internal/session/service"
	sessionUsecase "github.com/ledgerlock/ledgerlock/internal/session/usecase"
)

// KeyCache returns the in-memory session key cache.
func (c *Container) KeyCache() sessionService.KeyCache {
	c.keyCacheInit.Do(func() {
		c.keyCache = sessionService.NewKeyCache(
			c.config.SessionKekTTL,
			c.config.SessionDekTTL,
		)
	})
	return c.keyCache
}

// SessionUseCase returns the session use case instance.
func (c *Container) SessionUseCase() (sessionUsecase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// SessionHandler returns the session HTTP handler instance.
func (c *Container) SessionHandler() (*sessionHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		c.sessionHandler, err = c.initSessionHandler()
		if err != nil {
			c.initErrors["sessionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// initSessionUseCase creates the session use case with all its dependencies.
func (c *Container) initSessionUseCase() (sessionUsecase.SessionUseCase, error) {
	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for session use case: %w", err)
	}

	keyDeriver, err := c.KeyDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key deriver for session use case: %w", err)
	}

	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager for session use case: %w", err)
	}

	envelopeWrapper, err := c.EnvelopeWrapper()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope wrapper for session use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for session use case: %w", err)
	}

	baseUseCase := sessionUsecase.NewSessionUseCase(
		tenantRepo,
		keyDeriver,
		keyManager,
		envelopeWrapper,
		c.KeyCache(),
		auditUseCase,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return sessionUsecase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initSessionHandler creates the session HTTP handler with all its dependencies.
func (c *Container) initSessionHandler() (*sessionHTTP.SessionHandler, error) {
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for session handler: %w", err)
	}

	logger := c.Logger()

	return sessionHTTP.NewSessionHandler(sessionUseCase, logger), nil
}
