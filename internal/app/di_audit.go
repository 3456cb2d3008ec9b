package app

import (
	"fmt"

	auditHTTP "github.com/ledgerlock/ledgerlock/internal/audit/http"
	auditRepository "github.com/ledgerlock/ledgerlock/internal/audit/repository"
	auditService "github.com/ledgerlock/ledgerlock/internal/audit/service"
	auditUsecase "github.com/ledgerlock/ledgerlock/internal/audit/usecase"
)

// AuditEventRepository returns the audit event repository based on the database driver.
func (c *Container) AuditEventRepository() (auditUsecase.AuditEventRepository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditEventRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// ChainHasher returns the audit chain hasher service.
func (c *Container) ChainHasher() auditService.ChainHasher {
	c.chainHasherInit.Do(func() {
		c.chainHasher = auditService.NewChainHasher()
	})
	return c.chainHasher
}

// AuditUseCase returns the audit use case instance.
func (c *Container) AuditUseCase() (auditUsecase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// AuditHandler returns the audit HTTP handler instance.
func (c *Container) AuditHandler() (*auditHTTP.AuditHandler, error) {
	var err error
	c.auditHandlerInit.Do(func() {
		c.auditHandler, err = c.initAuditHandler()
		if err != nil {
			c.initErrors["auditHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.auditHandler, nil
}

// initAuditEventRepository creates the audit event repository based on the database driver.
func (c *Container) initAuditEventRepository() (auditUsecase.AuditEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditEventRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditUseCase creates the audit use case with all its dependencies.
func (c *Container) initAuditUseCase() (auditUsecase.AuditUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for audit use case: %w", err)
	}

	auditRepo, err := c.AuditEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	hasher := c.ChainHasher()

	return auditUsecase.NewAuditUseCase(txManager, auditRepo, hasher), nil
}

// initAuditHandler creates the audit HTTP handler with all its dependencies.
func (c *Container) initAuditHandler() (*auditHTTP.AuditHandler, error) {
	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for audit handler: %w", err)
	}

	logger := c.Logger()

	return auditHTTP.NewAuditHandler(auditUseCase, logger), nil
}
