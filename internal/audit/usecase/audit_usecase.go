// Package usecase implements the audit chain business logic. Appends are
// serialized per tenant through the chain head row lock, so every event gets
// a unique, gap-free sequence and an unambiguous predecessor hash.
package usecase

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditService "github.com/ledgerlock/ledgerlock/internal/audit/service"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// verifyPageSize is the number of events loaded per page while walking a
// chain during verification.
const verifyPageSize = 500

// auditUseCase implements the AuditUseCase interface.
type auditUseCase struct {
	txManager database.TxManager
	repo      AuditEventRepository
	hasher    auditService.ChainHasher

	// haltedMu guards halted, the set of tenants whose appends are refused
	// after a fork was detected in this process. Cleared by a successful
	// verification.
	haltedMu sync.RWMutex
	halted   map[uuid.UUID]struct{}
}

// InitChain creates the chain head for a new tenant at sequence 0 with the
// genesis hash.
func (a *auditUseCase) InitChain(ctx context.Context, tenantID uuid.UUID) error {
	return a.repo.CreateHead(ctx, tenantID, a.hasher.Genesis())
}

// Record appends an event to the tenant's chain.
func (a *auditUseCase) Record(
	ctx context.Context,
	tenantID uuid.UUID,
	eventType, actor string,
	data auditDomain.EventData,
) (*auditDomain.AuditEvent, error) {
	if a.isHalted(tenantID) {
		return nil, auditDomain.ErrChainHalted
	}

	var event *auditDomain.AuditEvent
	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		event, txErr = a.append(txCtx, tenantID, eventType, actor, data)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// append builds, hashes, and persists one event. Must run inside a
// transaction so the tail lock holds until commit.
func (a *auditUseCase) append(
	ctx context.Context,
	tenantID uuid.UUID,
	eventType, actor string,
	data auditDomain.EventData,
) (*auditDomain.AuditEvent, error) {
	tail, err := a.repo.GetTailForUpdate(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	event := &auditDomain.AuditEvent{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		Sequence:  tail.Sequence + 1,
		EventType: eventType,
		Actor:     actor,
		Data:      data,
		PrevHash:  tail.Hash,
		// Both backends persist created_at at microsecond precision, and the
		// timestamp is part of the hash input. Truncate before hashing so the
		// event verifies identically after a storage round trip.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	event.CurrentHash = a.hasher.EventHash(tail.Hash, event)

	if err := a.repo.Append(ctx, event); err != nil {
		if apperrors.Is(err, auditDomain.ErrChainForked) {
			a.markHalted(tenantID)
		}
		return nil, err
	}

	if err := a.repo.UpdateTail(ctx, tenantID, event.Sequence, event.CurrentHash); err != nil {
		return nil, err
	}

	return event, nil
}

// Verify walks the tenant's chain recomputing every hash link.
func (a *auditUseCase) Verify(
	ctx context.Context,
	tenantID uuid.UUID,
) (*auditDomain.VerifyResult, error) {
	var result *auditDomain.VerifyResult

	// The whole walk runs inside one transaction with the head locked, so
	// appends cannot move the tail mid-verification.
	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		tail, err := a.repo.GetTailForUpdate(txCtx, tenantID)
		if err != nil {
			return err
		}

		verified, lastEvent, err := a.walkChain(txCtx, tenantID)
		if err != nil {
			return err
		}

		// The head row must agree with the last stored event.
		if lastEvent == nil {
			if tail.Sequence != 0 || !bytes.Equal(tail.Hash, a.hasher.Genesis()) {
				return &auditDomain.ChainBrokenError{
					TenantID:     tenantID,
					Sequence:     tail.Sequence,
					ExpectedHash: a.hasher.Genesis(),
					ActualHash:   tail.Hash,
					Reason:       "chain head references missing events",
				}
			}
		} else if tail.Sequence != lastEvent.Sequence || !bytes.Equal(tail.Hash, lastEvent.CurrentHash) {
			return &auditDomain.ChainBrokenError{
				TenantID:     tenantID,
				Sequence:     lastEvent.Sequence,
				EventID:      lastEvent.ID,
				ExpectedHash: lastEvent.CurrentHash,
				ActualHash:   tail.Hash,
				Reason:       "chain head does not match last event",
			}
		}

		result = &auditDomain.VerifyResult{
			TenantID:       tenantID,
			EventsVerified: verified,
			TailSequence:   tail.Sequence,
			TailHash:       tail.Hash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.clearHalted(tenantID)
	return result, nil
}

// walkChain pages through the tenant's events in ascending order and checks
// every link. Returns the number of verified events and the last event seen.
func (a *auditUseCase) walkChain(
	ctx context.Context,
	tenantID uuid.UUID,
) (uint64, *auditDomain.AuditEvent, error) {
	var (
		verified uint64
		prev     *auditDomain.AuditEvent
		after    uint64
	)

	for {
		events, err := a.repo.ListAsc(ctx, tenantID, after, verifyPageSize)
		if err != nil {
			return 0, nil, err
		}
		if len(events) == 0 {
			return verified, prev, nil
		}

		for _, event := range events {
			if err := a.checkLink(tenantID, prev, event); err != nil {
				return 0, nil, err
			}
			prev = event
			verified++
		}

		after = prev.Sequence
	}
}

// checkLink validates one event against its predecessor. The first stored
// event after a retention purge anchors to removed history through its
// stored PrevHash, so only a sequence-1 event is required to start at the
// genesis constant.
func (a *auditUseCase) checkLink(
	tenantID uuid.UUID,
	prev, event *auditDomain.AuditEvent,
) error {
	switch {
	case prev == nil:
		if event.Sequence == 1 && !bytes.Equal(event.PrevHash, a.hasher.Genesis()) {
			return &auditDomain.ChainBrokenError{
				TenantID:     tenantID,
				Sequence:     event.Sequence,
				EventID:      event.ID,
				ExpectedHash: a.hasher.Genesis(),
				ActualHash:   event.PrevHash,
				Reason:       "first event does not anchor to genesis",
			}
		}
	case event.Sequence != prev.Sequence+1:
		return &auditDomain.ChainBrokenError{
			TenantID:     tenantID,
			Sequence:     event.Sequence,
			EventID:      event.ID,
			ExpectedHash: prev.CurrentHash,
			ActualHash:   event.PrevHash,
			Reason:       "sequence gap",
		}
	case !bytes.Equal(event.PrevHash, prev.CurrentHash):
		return &auditDomain.ChainBrokenError{
			TenantID:     tenantID,
			Sequence:     event.Sequence,
			EventID:      event.ID,
			ExpectedHash: prev.CurrentHash,
			ActualHash:   event.PrevHash,
			Reason:       "prev hash mismatch",
		}
	}

	recomputed := a.hasher.EventHash(event.PrevHash, event)
	if !bytes.Equal(recomputed, event.CurrentHash) {
		return &auditDomain.ChainBrokenError{
			TenantID:     tenantID,
			Sequence:     event.Sequence,
			EventID:      event.ID,
			ExpectedHash: recomputed,
			ActualHash:   event.CurrentHash,
			Reason:       "event hash mismatch",
		}
	}

	return nil
}

// Purge removes all events up to and including throughSequence.
func (a *auditUseCase) Purge(
	ctx context.Context,
	tenantID uuid.UUID,
	throughSequence uint64,
	actor string,
) (*auditDomain.PurgeResult, error) {
	if a.isHalted(tenantID) {
		return nil, auditDomain.ErrChainHalted
	}

	var result *auditDomain.PurgeResult
	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		tail, err := a.repo.GetTailForUpdate(txCtx, tenantID)
		if err != nil {
			return err
		}

		if throughSequence == 0 || throughSequence >= tail.Sequence {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "purge must keep the chain tail")
		}

		// Hash of the last removed event, recorded in the summary event so
		// the surviving suffix stays anchored to the removed prefix.
		boundary, err := a.repo.ListAsc(txCtx, tenantID, throughSequence-1, 1)
		if err != nil {
			return err
		}
		if len(boundary) == 0 || boundary[0].Sequence != throughSequence {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "purge boundary event not found")
		}

		data := auditDomain.ChainPurgedData(throughSequence, boundary[0].CurrentHash)
		summary, err := a.append(txCtx, tenantID, auditDomain.EventChainPurged, actor, data)
		if err != nil {
			return err
		}

		removed, err := a.repo.DeleteThrough(txCtx, tenantID, throughSequence)
		if err != nil {
			return err
		}

		result = &auditDomain.PurgeResult{
			TenantID:        tenantID,
			EventsRemoved:   removed,
			ThroughSequence: throughSequence,
			TailSequence:    summary.Sequence,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// List retrieves events newest first with pagination and optional time bounds.
func (a *auditUseCase) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	return a.repo.List(ctx, tenantID, offset, limit, createdAtFrom, createdAtTo)
}

func (a *auditUseCase) isHalted(tenantID uuid.UUID) bool {
	a.haltedMu.RLock()
	defer a.haltedMu.RUnlock()
	_, ok := a.halted[tenantID]
	return ok
}

func (a *auditUseCase) markHalted(tenantID uuid.UUID) {
	a.haltedMu.Lock()
	defer a.haltedMu.Unlock()
	a.halted[tenantID] = struct{}{}
}

func (a *auditUseCase) clearHalted(tenantID uuid.UUID) {
	a.haltedMu.Lock()
	defer a.haltedMu.Unlock()
	delete(a.halted, tenantID)
}

// NewAuditUseCase creates a new audit use case instance with the provided dependencies.
func NewAuditUseCase(
	txManager database.TxManager,
	repo AuditEventRepository,
	hasher auditService.ChainHasher,
) AuditUseCase {
	return &auditUseCase{
		txManager: txManager,
		repo:      repo,
		hasher:    hasher,
		halted:    make(map[uuid.UUID]struct{}),
	}
}
