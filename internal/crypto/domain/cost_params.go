package domain

// CostParams holds the Argon2id cost parameters for passphrase-based key
// derivation. The parameters are fixed per deployment and versioned: a
// version bump is the only supported way to change costs, so a stored salt
// plus the deployment's versioned parameters always reproduce the same KEK.
type CostParams struct {
	// Version identifies the parameter set. Unsupported versions are a
	// configuration error, rejected before any derivation is attempted.
	Version uint8
	// Time is the number of Argon2id passes.
	Time uint32
	// MemoryKiB is the memory cost in KiB per derivation.
	MemoryKiB uint32
	// Parallelism is the number of Argon2id lanes.
	Parallelism uint8
}

// CostParamsVersion1 is the only parameter version currently supported:
// 3 passes over 64 MiB with 2 lanes, tuned for a few hundred milliseconds
// per derivation on current server hardware.
const CostParamsVersion1 uint8 = 1

// DefaultCostParams returns the version 1 parameter set.
func DefaultCostParams() CostParams {
	return CostParams{
		Version:     CostParamsVersion1,
		Time:        3,
		MemoryKiB:   64 * 1024,
		Parallelism: 2,
	}
}

// Validate checks the parameter set against the supported versions.
// Returns ErrUnsupportedCostVersion for unknown versions and
// ErrInvalidCostParams for zeroed costs; both are configuration errors,
// not authentication signals.
func (p CostParams) Validate() error {
	if p.Version != CostParamsVersion1 {
		return ErrUnsupportedCostVersion
	}
	if p.Time == 0 || p.MemoryKiB == 0 || p.Parallelism == 0 {
		return ErrInvalidCostParams
	}
	return nil
}
