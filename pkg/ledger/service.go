package ledger

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dakshbank/ledger-service/pkg/core/diag"
	"github.com/dakshbank/ledger-service/pkg/dal"
)

var logger = diag.CreateLogger()

// Service is the transaction engine. It validates a mutation request and
// atomically applies it to the store
type Service interface {
	// Submit records a single balance mutation. authenticatedID is the
	// identity verified by the authenticator, not a client supplied value
	Submit(ctx context.Context, authenticatedID string, req SubmitRequest) (*TransactionResult, error)

	// GetBalance returns the current balance of a principal. A caller may
	// only read its own balance
	GetBalance(ctx context.Context, authenticatedID string, principalID string) (*BalanceResult, error)
}

type service struct {
	storage dal.Storage
}

// Cheap format and ownership checks run before the store is touched so
// the locking section of ApplyMutation stays minimal
func (svc *service) validate(req *SubmitRequest, authenticatedID string) error {
	if !req.Amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "got: %v", req.Amount)
	}
	if !req.Kind.Valid() {
		return errors.Wrapf(ErrInvalidKind, "got: %v", req.Kind)
	}
	if req.ActingPrincipalID != authenticatedID {
		return errors.Wrapf(ErrForbidden,
			"acting: %v, authenticated: %v", req.ActingPrincipalID, authenticatedID)
	}
	if len(req.Description) > MaxDescriptionLen {
		return errors.Wrapf(ErrDescriptionTooLong, "%v chars", len(req.Description))
	}
	return nil
}

func (svc *service) Submit(ctx context.Context, authenticatedID string, req SubmitRequest) (*TransactionResult, error) {
	req.PrincipalID = NormalizeID(req.PrincipalID)
	req.ActingPrincipalID = NormalizeID(req.ActingPrincipalID)

	if err := svc.validate(&req, NormalizeID(authenticatedID)); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "Applying %v of %v for principal %v", req.Kind, req.Amount, req.PrincipalID)
	entry, err := svc.storage.ApplyMutation(ctx, dal.Mutation{
		PrincipalID: req.PrincipalID,
		Kind:        string(req.Kind),
		Amount:      req.Amount,
		Description: req.Description,
		RecordedBy:  req.ActingPrincipalID,
	})
	if err != nil {
		return nil, err
	}

	return &TransactionResult{
		Entry: Entry{
			ID:           entry.ID,
			PrincipalID:  entry.PrincipalID,
			Kind:         EntryKind(entry.Kind),
			Amount:       entry.Amount,
			Description:  entry.Description,
			RecordedBy:   entry.RecordedBy,
			BalanceAfter: entry.BalanceAfter,
			CreatedAt:    entry.CreatedAt,
		},
		NewBalance: entry.BalanceAfter,
		Request:    req,
	}, nil
}

func (svc *service) GetBalance(ctx context.Context, authenticatedID string, principalID string) (*BalanceResult, error) {
	principalID = NormalizeID(principalID)
	if principalID != NormalizeID(authenticatedID) {
		return nil, errors.Wrapf(ErrForbidden,
			"principal: %v, authenticated: %v", principalID, authenticatedID)
	}

	principal, err := svc.storage.GetPrincipal(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{
		PrincipalID: principal.ID,
		DisplayName: principal.DisplayName,
		Balance:     principal.Balance,
	}, nil
}

// ServiceOpt is an option for the transaction engine
type ServiceOpt func(*service)

// WithStorage will init the service with storage
func WithStorage(storage dal.Storage) ServiceOpt {
	return func(svc *service) {
		svc.storage = storage
	}
}

// NewService returns an instance of a transaction engine
func NewService(opts ...ServiceOpt) Service {
	svc := &service{}
	for _, opt := range opts {
		opt(svc)
	}
	return Service(svc)
}
