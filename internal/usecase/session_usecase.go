package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/invoice"
	"agency_estimate/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrInvalidStepID    = errors.New("invalid step id")
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidItemID    = errors.New("invalid item id")
	ErrDuplicateItemID  = errors.New("duplicate item id")
	ErrSessionBusy      = errors.New("session is being changed by another request")
)

// ISessionUseCase drives the estimate wizard for one visitor.
//
// Every mutation is an atomic read-modify-write on the stored session, so two
// requests editing the same session never drop each other's changes.
type ISessionUseCase interface {
	Start(ctx context.Context) (entities.Session, error)
	Get(ctx context.Context, sessionID string) (entities.Session, error)
	SetCurrentStep(ctx context.Context, sessionID string, step int) (entities.Session, error)
	UpdateSelection(ctx context.Context, sessionID, stepID string, selectedIDs []string) (entities.Session, error)
	ResetFlow(ctx context.Context, sessionID string) (entities.Session, error)
	LoadInvoice(ctx context.Context, sessionID string, groups []entities.InvoiceGroup, customer entities.Customer) (entities.Session, error)
	ToggleItem(ctx context.Context, sessionID, itemID string) (entities.Session, error)
	End(ctx context.Context, sessionID string) error
}

type SessionUseCase struct {
	repo interfaces.ISessionRepository
	now  func() time.Time
}

var _ ISessionUseCase = (*SessionUseCase)(nil)

func NewSessionUseCase(repo interfaces.ISessionRepository) *SessionUseCase {
	return &SessionUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (u *SessionUseCase) Start(ctx context.Context) (entities.Session, error) {
	now := u.now()
	s := entities.Session{
		ID:        uuid.NewString(),
		Flow:      entities.NewFlowState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.repo.Save(ctx, s); err != nil {
		return entities.Session{}, err
	}
	slog.InfoContext(ctx, "session started", "session_id", s.ID)
	return s, nil
}

func (u *SessionUseCase) Get(ctx context.Context, sessionID string) (entities.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return entities.Session{}, ErrInvalidSessionID
	}
	s, err := u.repo.Get(ctx, sessionID)
	if err != nil {
		return entities.Session{}, err
	}
	if s.ID == "" {
		return entities.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (u *SessionUseCase) SetCurrentStep(ctx context.Context, sessionID string, step int) (entities.Session, error) {
	return u.mutate(ctx, sessionID, func(s *entities.Session) error {
		s.Flow.SetCurrentStep(step)
		return nil
	})
}

func (u *SessionUseCase) UpdateSelection(ctx context.Context, sessionID, stepID string, selectedIDs []string) (entities.Session, error) {
	stepID = strings.TrimSpace(stepID)
	if stepID == "" {
		return entities.Session{}, ErrInvalidStepID
	}
	return u.mutate(ctx, sessionID, func(s *entities.Session) error {
		s.Flow.UpdateSelection(stepID, selectedIDs)
		return nil
	})
}

// ResetFlow returns the wizard to its first step and drops the loaded invoice.
func (u *SessionUseCase) ResetFlow(ctx context.Context, sessionID string) (entities.Session, error) {
	return u.mutate(ctx, sessionID, func(s *entities.Session) error {
		s.Reset()
		return nil
	})
}

// LoadInvoice replaces the session's line items with the translator output.
func (u *SessionUseCase) LoadInvoice(ctx context.Context, sessionID string, groups []entities.InvoiceGroup, customer entities.Customer) (entities.Session, error) {
	if dups := invoice.DuplicateItemIDs(groups); len(dups) > 0 {
		slog.WarnContext(ctx, "invoice rejected", "session_id", sessionID, "duplicate_ids", dups)
		return entities.Session{}, ErrDuplicateItemID
	}
	normalized := invoice.Normalize(groups)
	return u.mutate(ctx, sessionID, func(s *entities.Session) error {
		s.Groups = normalized
		s.Customer = customer
		return nil
	})
}

func (u *SessionUseCase) ToggleItem(ctx context.Context, sessionID, itemID string) (entities.Session, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return entities.Session{}, ErrInvalidItemID
	}
	return u.mutate(ctx, sessionID, func(s *entities.Session) error {
		next, ok := invoice.ToggleItem(s.Groups, itemID)
		if !ok {
			return ErrItemNotFound
		}
		s.Groups = next
		return nil
	})
}

func (u *SessionUseCase) End(ctx context.Context, sessionID string) error {
	s, err := u.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, s.ID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "session ended", "session_id", s.ID)
	return nil
}

func (u *SessionUseCase) mutate(ctx context.Context, sessionID string, apply func(*entities.Session) error) (entities.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return entities.Session{}, ErrInvalidSessionID
	}
	s, err := u.repo.Update(ctx, sessionID, func(s *entities.Session) error {
		if err := apply(s); err != nil {
			return err
		}
		s.UpdatedAt = u.now()
		return nil
	})
	if errors.Is(err, interfaces.ErrSessionConflict) {
		slog.WarnContext(ctx, "session update gave up after repeated conflicts", "session_id", sessionID)
		return entities.Session{}, ErrSessionBusy
	}
	if err != nil {
		return entities.Session{}, err
	}
	if s.ID == "" {
		return entities.Session{}, ErrSessionNotFound
	}
	return s, nil
}
