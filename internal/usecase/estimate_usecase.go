package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/invoice"
	"agency_estimate/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrEstimateNotFound        = errors.New("estimate not found")
	ErrInvalidEstimateID       = errors.New("invalid estimate id")
	ErrInvalidUserID           = errors.New("invalid user id")
	ErrInvalidSelections       = errors.New("invalid selections")
	ErrEstimateLocked          = errors.New("estimate is not editable")
	ErrInvalidStatusTransition = errors.New("invalid estimate status transition")
	ErrInvalidExpiryWindow     = errors.New("invalid expiry window")
)

// SaveEstimateCommand is the "save my estimate" request.
type SaveEstimateCommand struct {
	UserID     string
	Selections entities.Selections
	Groups     []entities.InvoiceGroup
	Customer   entities.Customer
}

// IEstimateUseCase exposes the persistence boundary for saved estimates.
//
// Lifecycle: pending -> approved | rejected | cancelled | expired. Only pending
// estimates accept item toggles or decisions. Every lookup is scoped to userID;
// an estimate owned by someone else is reported as ErrEstimateNotFound.
type IEstimateUseCase interface {
	SaveEstimate(ctx context.Context, cmd SaveEstimateCommand) (entities.Estimate, error)
	GetByID(ctx context.Context, userID, id string) (entities.Estimate, error)
	ListByUserID(ctx context.Context, userID string) ([]entities.Estimate, error)
	ToggleItem(ctx context.Context, userID, estimateID, itemID string) (entities.Estimate, error)
	Approve(ctx context.Context, userID, estimateID string) (entities.Estimate, error)
	Reject(ctx context.Context, userID, estimateID string) (entities.Estimate, error)
	Cancel(ctx context.Context, userID, estimateID string) (entities.Estimate, error)
	ExpirePending(ctx context.Context, olderThan time.Duration) (int, error)
}

type EstimateUseCase struct {
	repo      interfaces.IEstimateRepository
	publisher interfaces.IEstimateEventPublisher
	now       func() time.Time
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

// NewEstimateUseCase wires the repository. publisher may be nil.
func NewEstimateUseCase(repo interfaces.IEstimateRepository, publisher interfaces.IEstimateEventPublisher) *EstimateUseCase {
	return &EstimateUseCase{repo: repo, publisher: publisher, now: func() time.Time { return time.Now().UTC() }}
}

func (u *EstimateUseCase) SaveEstimate(ctx context.Context, cmd SaveEstimateCommand) (entities.Estimate, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return entities.Estimate{}, ErrInvalidUserID
	}
	if cmd.Selections.IsEmpty() && len(invoice.Flatten(cmd.Groups)) == 0 {
		return entities.Estimate{}, ErrInvalidSelections
	}
	if dups := invoice.DuplicateItemIDs(cmd.Groups); len(dups) > 0 {
		slog.WarnContext(ctx, "estimate rejected", "user_id", userID, "duplicate_ids", dups)
		return entities.Estimate{}, ErrDuplicateItemID
	}

	now := u.now()
	e := entities.Estimate{
		ID:         uuid.NewString(),
		UserID:     userID,
		Selections: cmd.Selections.Clone(),
		Groups:     invoice.Normalize(cmd.Groups),
		Customer:   cmd.Customer,
		Status:     entities.EstimateStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if e.Selections == nil {
		e.Selections = entities.Selections{}
	}

	created, err := u.repo.Create(ctx, e)
	if err != nil {
		slog.ErrorContext(ctx, "estimate create failed", "user_id", userID, "err", err)
		return entities.Estimate{}, err
	}
	slog.InfoContext(ctx, "estimate saved", "estimate_id", created.ID, "user_id", userID)

	if u.publisher != nil {
		if err := u.publisher.PublishEstimateSaved(ctx, created); err != nil {
			slog.WarnContext(ctx, "estimate.saved publish failed", "estimate_id", created.ID, "err", err)
		}
	}
	return created, nil
}

func (u *EstimateUseCase) GetByID(ctx context.Context, userID, id string) (entities.Estimate, error) {
	return loadOwnedEstimate(ctx, u.repo, userID, id)
}

func loadOwnedEstimate(ctx context.Context, repo interfaces.IEstimateRepository, userID, id string) (entities.Estimate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.Estimate{}, ErrInvalidUserID
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	if e.UserID != userID {
		slog.WarnContext(ctx, "estimate owned by another user", "estimate_id", id, "user_id", userID)
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

// ListByUserID returns the user's estimates, newest first.
func (u *EstimateUseCase) ListByUserID(ctx context.Context, userID string) ([]entities.Estimate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	list, err := u.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (u *EstimateUseCase) ToggleItem(ctx context.Context, userID, estimateID, itemID string) (entities.Estimate, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return entities.Estimate{}, ErrInvalidItemID
	}
	e, err := u.GetByID(ctx, userID, estimateID)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.Status != entities.EstimateStatusPending {
		return entities.Estimate{}, ErrEstimateLocked
	}

	groups, ok := invoice.ToggleItem(e.Groups, itemID)
	if !ok {
		return entities.Estimate{}, ErrItemNotFound
	}
	updated, err := u.repo.UpdateGroupsByID(ctx, e.ID, groups)
	if errors.Is(err, interfaces.ErrEstimateNotPending) {
		return entities.Estimate{}, ErrEstimateLocked
	}
	if err != nil {
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return updated, nil
}

func (u *EstimateUseCase) Approve(ctx context.Context, userID, estimateID string) (entities.Estimate, error) {
	return u.decide(ctx, userID, estimateID, entities.EstimateStatusApproved)
}

func (u *EstimateUseCase) Reject(ctx context.Context, userID, estimateID string) (entities.Estimate, error) {
	return u.decide(ctx, userID, estimateID, entities.EstimateStatusRejected)
}

func (u *EstimateUseCase) Cancel(ctx context.Context, userID, estimateID string) (entities.Estimate, error) {
	return u.decide(ctx, userID, estimateID, entities.EstimateStatusCancelled)
}

func (u *EstimateUseCase) decide(ctx context.Context, userID, estimateID string, status entities.EstimateStatus) (entities.Estimate, error) {
	e, err := u.GetByID(ctx, userID, estimateID)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.Status != entities.EstimateStatusPending {
		return entities.Estimate{}, ErrInvalidStatusTransition
	}

	updated, err := u.repo.UpdateStatusByID(ctx, e.ID, status)
	if errors.Is(err, interfaces.ErrEstimateNotPending) {
		slog.InfoContext(ctx, "estimate decided concurrently", "estimate_id", e.ID, "to", status)
		return entities.Estimate{}, ErrInvalidStatusTransition
	}
	if err != nil {
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	slog.InfoContext(ctx, "estimate status changed", "estimate_id", e.ID, "from", e.Status, "to", status)
	return updated, nil
}

// ExpirePending moves pending estimates created more than olderThan ago to
// expired and reports how many were moved. Estimates decided since the scan are
// skipped. A failure on one estimate does not stop the rest; the first error is
// returned.
func (u *EstimateUseCase) ExpirePending(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, ErrInvalidExpiryWindow
	}
	cutoff := u.now().Add(-olderThan)
	list, err := u.repo.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	var firstErr error
	for _, e := range list {
		if e.Status != entities.EstimateStatusPending {
			continue
		}
		updated, err := u.repo.UpdateStatusByID(ctx, e.ID, entities.EstimateStatusExpired)
		if errors.Is(err, interfaces.ErrEstimateNotPending) {
			slog.InfoContext(ctx, "estimate left pending before expiry", "estimate_id", e.ID)
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "estimate expiry failed", "estimate_id", e.ID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if updated.ID != "" {
			expired++
		}
	}
	return expired, firstErr
}
