package domain

import (
	"github.com/ledgerlock/ledgerlock/internal/errors"
)

var (
	// ErrTenantNotFound indicates no tenant exists with the given id.
	ErrTenantNotFound = errors.Wrap(errors.ErrNotFound, "tenant not found")

	// ErrTenantExists indicates a tenant with the given id already exists.
	ErrTenantExists = errors.Wrap(errors.ErrConflict, "tenant already exists")
)
