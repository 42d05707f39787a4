package dal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Storage level errors. Callers should use errors.Cause to match
var (
	// ErrPrincipalNotFound is returned when a principal does not exist
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrPrincipalExists is returned when enrolling a principal with a taken id
	ErrPrincipalExists = errors.New("principal already exists")

	// ErrInsufficientBalance is returned when a debit would drive balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTokenNotFound is returned when a bearer token is not known
	ErrTokenNotFound = errors.New("token not found")
)

// PrincipalDTO is a DTO to store a principal with its current balance
type PrincipalDTO struct {
	ID          string
	DisplayName string
	Balance     decimal.Decimal
	SecretHash  string
	CreatedAt   time.Time
}

// EntryDTO is a DTO of a single immutable ledger entry
type EntryDTO struct {
	ID           int64
	PrincipalID  string
	Kind         string
	Amount       decimal.Decimal
	Description  string
	RecordedBy   string
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// EntryRecord is a ledger entry joined with current display names
type EntryRecord struct {
	EntryDTO
	PrincipalName  string
	RecordedByName string
}

// TokenDTO is a DTO to store an issued bearer token
type TokenDTO struct {
	Token       string
	PrincipalID string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Mutation describes a single balance mutation to apply
type Mutation struct {
	PrincipalID string
	Kind        string
	Amount      decimal.Decimal
	Description string
	RecordedBy  string
}

// EntryFilter is a structured set of optional entry predicates.
// All provided predicates are combined with AND, date bounds are inclusive
type EntryFilter struct {
	PrincipalID string
	Kind        string
	From        *time.Time
	To          *time.Time
}

// Page is a pagination window. Zero Limit means no pagination
type Page struct {
	Limit  int
	Offset int
}

// Storage is a persistance layer. It is the sole owner of balance state:
// balances are mutated via ApplyMutation only
type Storage interface {
	Setup(ctx context.Context) error

	CreatePrincipal(ctx context.Context, principal *PrincipalDTO) error
	GetPrincipal(ctx context.Context, id string) (*PrincipalDTO, error)

	// ApplyMutation atomically updates the principal balance and appends
	// an entry. Either both happen or neither
	ApplyMutation(ctx context.Context, mut Mutation) (*EntryDTO, error)

	QueryEntries(ctx context.Context, filter EntryFilter, page Page) ([]EntryRecord, error)
	CountEntries(ctx context.Context, filter EntryFilter) (int, error)

	SaveToken(ctx context.Context, token *TokenDTO) error
	GetToken(ctx context.Context, token string) (*TokenDTO, error)
}
