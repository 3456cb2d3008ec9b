package app

import (
	"fmt"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	tenantHTTP "github.com/ledgerlock/ledgerlock/internal/tenant/http"
	tenantRepository "github.com/ledgerlock/ledgerlock/internal/tenant/repository"
	tenantService "github.com/ledgerlock/ledgerlock/internal/tenant/service"
	tenantUsecase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
)

// TenantRepository returns the tenant repository based on the database driver.
func (c *Container) TenantRepository() (tenantUsecase.TenantRepository, error) {
	var err error
	c.tenantRepoInit.Do(func() {
		c.tenantRepo, err = c.initTenantRepository()
		if err != nil {
			c.initErrors["tenantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantRepo"]; exists {
		return nil, storedErr
	}
	return c.tenantRepo, nil
}

// RecoveryCodeService returns the recovery code service.
func (c *Container) RecoveryCodeService() tenantService.RecoveryCodeService {
	c.recoveryCodesInit.Do(func() {
		c.recoveryCodes = tenantService.NewRecoveryCodeService()
	})
	return c.recoveryCodes
}

// TenantUseCase returns the tenant use case instance.
func (c *Container) TenantUseCase() (tenantUsecase.TenantUseCase, error) {
	var err error
	c.tenantUseCaseInit.Do(func() {
		c.tenantUseCase, err = c.initTenantUseCase()
		if err != nil {
			c.initErrors["tenantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantUseCase"]; exists {
		return nil, storedErr
	}
	return c.tenantUseCase, nil
}

// TenantHandler returns the tenant HTTP handler instance.
func (c *Container) TenantHandler() (*tenantHTTP.TenantHandler, error) {
	var err error
	c.tenantHandlerInit.Do(func() {
		c.tenantHandler, err = c.initTenantHandler()
		if err != nil {
			c.initErrors["tenantHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantHandler"]; exists {
		return nil, storedErr
	}
	return c.tenantHandler, nil
}

// initTenantRepository creates the tenant repository based on the database driver.
func (c *Container) initTenantRepository() (tenantUsecase.TenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return tenantRepository.NewMySQLTenantRepository(db), nil
	case "postgres":
		return tenantRepository.NewPostgreSQLTenantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTenantUseCase creates the tenant use case with all its dependencies.
// The session key cache doubles as the DEK evictor so that rotation drops any
// cached plaintext DEK wrapped under the old passphrase.
func (c *Container) initTenantUseCase() (tenantUsecase.TenantUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for tenant use case: %w", err)
	}

	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for tenant use case: %w", err)
	}

	keyDeriver, err := c.KeyDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key deriver for tenant use case: %w", err)
	}

	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager for tenant use case: %w", err)
	}

	envelopeWrapper, err := c.EnvelopeWrapper()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope wrapper for tenant use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for tenant use case: %w", err)
	}

	algorithm, err := c.algorithm()
	if err != nil {
		return nil, err
	}

	baseUseCase := tenantUsecase.NewTenantUseCase(
		txManager,
		tenantRepo,
		keyDeriver,
		keyManager,
		envelopeWrapper,
		c.RecoveryCodeService(),
		auditUseCase,
		c.KeyCache(),
		algorithm,
		cryptoDomain.DefaultCostParams(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for tenant use case: %w", err)
		}
		return tenantUsecase.NewTenantUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTenantHandler creates the tenant HTTP handler with all its dependencies.
func (c *Container) initTenantHandler() (*tenantHTTP.TenantHandler, error) {
	tenantUseCase, err := c.TenantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant use case for tenant handler: %w", err)
	}

	logger := c.Logger()

	return tenantHTTP.NewTenantHandler(tenantUseCase, logger), nil
}
