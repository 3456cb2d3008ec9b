package app

import (
	"fmt"

	contentHTTP "github.com/ledgerlock/ledgerlock/internal/content/http"
	contentRepository "github.com/ledgerlock/ledgerlock/internal/content/repository"
	contentUsecase "github.com/ledgerlock/ledgerlock/internal/content/usecase"
)

// FieldRepository returns the encrypted field repository based on the database driver.
func (c *Container) FieldRepository() (contentUsecase.FieldRepository, error) {
	var err error
	c.fieldRepoInit.Do(func() {
		c.fieldRepo, err = c.initFieldRepository()
		if err != nil {
			c.initErrors["fieldRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldRepo"]; exists {
		return nil, storedErr
	}
	return c.fieldRepo, nil
}

// ContentUseCase returns the content use case instance.
func (c *Container) ContentUseCase() (contentUsecase.ContentUseCase, error) {
	var err error
	c.contentUseCaseInit.Do(func() {
		c.contentUseCase, err = c.initContentUseCase()
		if err != nil {
			c.initErrors["contentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentUseCase"]; exists {
		return nil, storedErr
	}
	return c.contentUseCase, nil
}

// FieldHandler returns the field HTTP handler instance.
func (c *Container) FieldHandler() (*contentHTTP.FieldHandler, error) {
	var err error
	c.fieldHandlerInit.Do(func() {
		c.fieldHandler, err = c.initFieldHandler()
		if err != nil {
			c.initErrors["fieldHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldHandler"]; exists {
		return nil, storedErr
	}
	return c.fieldHandler, nil
}

// initFieldRepository creates the encrypted field repository based on the database driver.
func (c *Container) initFieldRepository() (contentUsecase.FieldRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for field repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return contentRepository.NewMySQLFieldRepository(db), nil
	case "postgres":
		return contentRepository.NewPostgreSQLFieldRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initContentUseCase creates the content use case with all its dependencies.
// The session use case serves as the key source: every field operation
// resolves its DEK through the unlocked session.
func (c *Container) initContentUseCase() (contentUsecase.ContentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for content use case: %w", err)
	}

	fieldRepo, err := c.FieldRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get field repository for content use case: %w", err)
	}

	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for content use case: %w", err)
	}

	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager for content use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for content use case: %w", err)
	}

	baseUseCase := contentUsecase.NewContentUseCase(
		txManager,
		fieldRepo,
		sessionUseCase,
		keyManager,
		auditUseCase,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for content use case: %w", err)
		}
		return contentUsecase.NewContentUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initFieldHandler creates the field HTTP handler with all its dependencies.
func (c *Container) initFieldHandler() (*contentHTTP.FieldHandler, error) {
	contentUseCase, err := c.ContentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get content use case for field handler: %w", err)
	}

	logger := c.Logger()

	return contentHTTP.NewFieldHandler(contentUseCase, logger), nil
}
