// Package repository implements audit chain persistence for PostgreSQL and
// MySQL. Events are append-only: there is no update or single-event delete,
// and the only destructive operation is the retention purge, which removes a
// chain prefix as a whole.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// PostgreSQLAuditEventRepository implements audit chain persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLAuditEventRepository struct {
	db *sql.DB
}

// CreateHead inserts the chain head row for a new tenant. The head starts at
// sequence 0 with the genesis hash as its tail hash. Called once, inside the
// tenant creation transaction.
func (p *PostgreSQLAuditEventRepository) CreateHead(
	ctx context.Context,
	tenantID uuid.UUID,
	genesisHash []byte,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_chain_heads (tenant_id, tail_sequence, tail_hash)
			  VALUES ($1, 0, $2)`

	_, err := querier.ExecContext(ctx, query, tenantID, genesisHash)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "audit chain head already exists")
		}
		return apperrors.Wrap(err, "failed to create audit chain head")
	}

	return nil
}

// GetTailForUpdate reads the tenant's chain head and locks the row until the
// surrounding transaction ends. Must be called inside a transaction; outside
// one the lock is released immediately and provides no serialization.
func (p *PostgreSQLAuditEventRepository) GetTailForUpdate(
	ctx context.Context,
	tenantID uuid.UUID,
) (*auditDomain.ChainTail, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT tenant_id, tail_sequence, tail_hash
			  FROM audit_chain_heads
			  WHERE tenant_id = $1
			  FOR UPDATE`

	var tail auditDomain.ChainTail
	err := querier.QueryRowContext(ctx, query, tenantID).Scan(
		&tail.TenantID,
		&tail.Sequence,
		&tail.Hash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auditDomain.ErrChainNotFound
		}
		return nil, apperrors.Wrap(err, "failed to lock audit chain head")
	}

	return &tail, nil
}

// Append inserts a new audit event. A unique violation on
// (tenant_id, sequence) means another writer appended at the same position
// despite the head lock and is reported as a fork.
func (p *PostgreSQLAuditEventRepository) Append(
	ctx context.Context,
	event *auditDomain.AuditEvent,
) error {
	querier := database.GetTx(ctx, p.db)

	dataJSON, err := json.Marshal(event.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event data")
	}

	query := `INSERT INTO audit_events (id, tenant_id, sequence, event_type, actor, data, prev_hash, current_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.TenantID,
		event.Sequence,
		event.EventType,
		event.Actor,
		dataJSON,
		event.PrevHash,
		event.CurrentHash,
		event.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return auditDomain.ErrChainForked
		}
		return apperrors.Wrap(err, "failed to append audit event")
	}

	return nil
}

// UpdateTail advances the tenant's chain head to the newly appended event.
func (p *PostgreSQLAuditEventRepository) UpdateTail(
	ctx context.Context,
	tenantID uuid.UUID,
	sequence uint64,
	hash []byte,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE audit_chain_heads
			  SET tail_sequence = $1, tail_hash = $2
			  WHERE tenant_id = $3`

	_, err := querier.ExecContext(ctx, query, sequence, hash, tenantID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update audit chain head")
	}

	return nil
}

// ListAsc retrieves events with sequence greater than afterSequence in
// ascending order. Used by the verifier to walk the chain in pages.
func (p *PostgreSQLAuditEventRepository) ListAsc(
	ctx context.Context,
	tenantID uuid.UUID,
	afterSequence uint64,
	limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, sequence, event_type, actor, data, prev_hash, current_hash, created_at
			  FROM audit_events
			  WHERE tenant_id = $1 AND sequence > $2
			  ORDER BY sequence ASC
			  LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, tenantID, afterSequence, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanPostgresEvents(rows)
}

// List retrieves events ordered by sequence descending (newest first) with
// pagination and optional time-based filtering. Both boundaries are inclusive
// and expected in UTC; nil means no filter. Returns empty slice if no events
// found.
func (p *PostgreSQLAuditEventRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	// Build dynamic WHERE clause based on provided filters
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}

	if createdAtFrom != nil {
		args = append(args, *createdAtFrom)
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(len(args)))
	}

	if createdAtTo != nil {
		args = append(args, *createdAtTo)
		conditions = append(conditions, "created_at <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT id, tenant_id, sequence, event_type, actor, data, prev_hash, current_hash, created_at
			  FROM audit_events
			  WHERE ` + strings.Join(conditions, " AND ")

	args = append(args, limit)
	query += " ORDER BY sequence DESC LIMIT $" + strconv.Itoa(len(args))

	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanPostgresEvents(rows)
}

// DeleteThrough removes all events with sequence less than or equal to
// throughSequence. Returns the number of removed events. Part of the
// retention purge; the caller records the purge summary event first so the
// removed prefix stays anchored.
func (p *PostgreSQLAuditEventRepository) DeleteThrough(
	ctx context.Context,
	tenantID uuid.UUID,
	throughSequence uint64,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM audit_events
			  WHERE tenant_id = $1 AND sequence <= $2`

	result, err := querier.ExecContext(ctx, query, tenantID, throughSequence)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to purge audit events")
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count purged audit events")
	}

	return removed, nil
}

// scanPostgresEvents scans event rows into domain objects.
func scanPostgresEvents(rows *sql.Rows) ([]*auditDomain.AuditEvent, error) {
	// Initialize empty slice to avoid returning nil for empty results
	events := make([]*auditDomain.AuditEvent, 0)
	for rows.Next() {
		var event auditDomain.AuditEvent
		var dataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.Sequence,
			&event.EventType,
			&event.Actor,
			&dataJSON,
			&event.PrevHash,
			&event.CurrentHash,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}

		if dataJSON != nil {
			if err := json.Unmarshal(dataJSON, &event.Data); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit event data")
			}
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}

	return events, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLAuditEventRepository creates a new PostgreSQL audit event repository.
func NewPostgreSQLAuditEventRepository(db *sql.DB) *PostgreSQLAuditEventRepository {
	return &PostgreSQLAuditEventRepository{db: db}
}
