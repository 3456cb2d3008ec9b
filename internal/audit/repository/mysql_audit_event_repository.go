package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// MySQLAuditEventRepository implements audit chain persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditEventRepository struct {
	db *sql.DB
}

// CreateHead inserts the chain head row for a new tenant. The head starts at
// sequence 0 with the genesis hash as its tail hash.
func (m *MySQLAuditEventRepository) CreateHead(
	ctx context.Context,
	tenantID uuid.UUID,
	genesisHash []byte,
) error {
	querier := database.GetTx(ctx, m.db)

	tenantIDBinary, err := tenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `INSERT INTO audit_chain_heads (tenant_id, tail_sequence, tail_hash)
			  VALUES (?, 0, ?)`

	_, err = querier.ExecContext(ctx, query, tenantIDBinary, genesisHash)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "audit chain head already exists")
		}
		return apperrors.Wrap(err, "failed to create audit chain head")
	}

	return nil
}

// GetTailForUpdate reads the tenant's chain head and locks the row until the
// surrounding transaction ends. Must be called inside a transaction.
func (m *MySQLAuditEventRepository) GetTailForUpdate(
	ctx context.Context,
	tenantID uuid.UUID,
) (*auditDomain.ChainTail, error) {
	querier := database.GetTx(ctx, m.db)

	tenantIDBinary, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `SELECT tenant_id, tail_sequence, tail_hash
			  FROM audit_chain_heads
			  WHERE tenant_id = ?
			  FOR UPDATE`

	var tail auditDomain.ChainTail
	var idBinary []byte
	err = querier.QueryRowContext(ctx, query, tenantIDBinary).Scan(
		&idBinary,
		&tail.Sequence,
		&tail.Hash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auditDomain.ErrChainNotFound
		}
		return nil, apperrors.Wrap(err, "failed to lock audit chain head")
	}

	if err := tail.TenantID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	return &tail, nil
}

// Append inserts a new audit event using BINARY(16) for UUIDs. A unique
// violation on (tenant_id, sequence) is reported as a fork.
func (m *MySQLAuditEventRepository) Append(
	ctx context.Context,
	event *auditDomain.AuditEvent,
) error {
	querier := database.GetTx(ctx, m.db)

	dataJSON, err := json.Marshal(event.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event data")
	}

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event id")
	}

	tenantID, err := event.TenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event tenant_id")
	}

	query := `INSERT INTO audit_events (id, tenant_id, sequence, event_type, actor, data, prev_hash, current_hash, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
		event.Sequence,
		event.EventType,
		event.Actor,
		dataJSON,
		event.PrevHash,
		event.CurrentHash,
		event.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return auditDomain.ErrChainForked
		}
		return apperrors.Wrap(err, "failed to append audit event")
	}

	return nil
}

// UpdateTail advances the tenant's chain head to the newly appended event.
func (m *MySQLAuditEventRepository) UpdateTail(
	ctx context.Context,
	tenantID uuid.UUID,
	sequence uint64,
	hash []byte,
) error {
	querier := database.GetTx(ctx, m.db)

	tenantIDBinary, err := tenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `UPDATE audit_chain_heads
			  SET tail_sequence = ?, tail_hash = ?
			  WHERE tenant_id = ?`

	_, err = querier.ExecContext(ctx, query, sequence, hash, tenantIDBinary)
	if err != nil {
		return apperrors.Wrap(err, "failed to update audit chain head")
	}

	return nil
}

// ListAsc retrieves events with sequence greater than afterSequence in
// ascending order. Used by the verifier to walk the chain in pages.
func (m *MySQLAuditEventRepository) ListAsc(
	ctx context.Context,
	tenantID uuid.UUID,
	afterSequence uint64,
	limit int,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	tenantIDBinary, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `SELECT id, tenant_id, sequence, event_type, actor, data, prev_hash, current_hash, created_at
			  FROM audit_events
			  WHERE tenant_id = ? AND sequence > ?
			  ORDER BY sequence ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, tenantIDBinary, afterSequence, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanMySQLEvents(rows)
}

// List retrieves events ordered by sequence descending (newest first) with
// pagination and optional time-based filtering. Both boundaries are inclusive
// and expected in UTC; nil means no filter.
func (m *MySQLAuditEventRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	tenantIDBinary, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	// Build dynamic WHERE clause based on provided filters
	conditions := []string{"tenant_id = ?"}
	args := []interface{}{tenantIDBinary}

	if createdAtFrom != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *createdAtFrom)
	}

	if createdAtTo != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *createdAtTo)
	}

	query := `SELECT id, tenant_id, sequence, event_type, actor, data, prev_hash, current_hash, created_at
			  FROM audit_events
			  WHERE ` + strings.Join(conditions, " AND ")

	query += " ORDER BY sequence DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanMySQLEvents(rows)
}

// DeleteThrough removes all events with sequence less than or equal to
// throughSequence. Returns the number of removed events.
func (m *MySQLAuditEventRepository) DeleteThrough(
	ctx context.Context,
	tenantID uuid.UUID,
	throughSequence uint64,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	tenantIDBinary, err := tenantID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `DELETE FROM audit_events
			  WHERE tenant_id = ? AND sequence <= ?`

	result, err := querier.ExecContext(ctx, query, tenantIDBinary, throughSequence)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to purge audit events")
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count purged audit events")
	}

	return removed, nil
}

// scanMySQLEvents scans event rows into domain objects, unmarshaling
// BINARY(16) UUIDs.
func scanMySQLEvents(rows *sql.Rows) ([]*auditDomain.AuditEvent, error) {
	// Initialize empty slice to avoid returning nil for empty results
	events := make([]*auditDomain.AuditEvent, 0)
	for rows.Next() {
		var event auditDomain.AuditEvent
		var idBinary, tenantIDBinary []byte
		var dataJSON []byte

		err := rows.Scan(
			&idBinary,
			&tenantIDBinary,
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

		if err := event.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event id")
		}

		if err := event.TenantID.UnmarshalBinary(tenantIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event tenant_id")
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

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// NewMySQLAuditEventRepository creates a new MySQL audit event repository.
func NewMySQLAuditEventRepository(db *sql.DB) *MySQLAuditEventRepository {
	return &MySQLAuditEventRepository{db: db}
}
