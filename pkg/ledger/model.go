package ledger

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// EntryKind is a kind of a balance mutation
type EntryKind string

const (
	// EntryKindCredit increases the balance
	EntryKindCredit EntryKind = "credit"

	// EntryKindDebit decreases the balance
	EntryKindDebit EntryKind = "debit"
)

// Valid tells if the kind is one of the known kinds
func (k EntryKind) Valid() bool {
	return k == EntryKindCredit || k == EntryKindDebit
}

// MaxDescriptionLen bounds the free-text description of an entry
const MaxDescriptionLen = 255

// Engine level errors. Callers should use errors.Cause to match
var (
	// ErrInvalidAmount is returned when amount is not a positive number
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrInvalidKind is returned when kind is not credit or debit
	ErrInvalidKind = errors.New("unknown entry kind")

	// ErrForbidden is returned when a caller tries to record an entry
	// attributed to somebody else
	ErrForbidden = errors.New("entries can only be recorded on behalf of the authenticated principal")

	// ErrDescriptionTooLong is returned when description exceeds MaxDescriptionLen
	ErrDescriptionTooLong = errors.New("description is too long")
)

// NormalizeID brings a principal id to its canonical form
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ParseAmount parses a decimal amount string
func ParseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// Entry represents a single immutable ledger entry
type Entry struct {
	ID           int64           `json:"id"`
	PrincipalID  string          `json:"principalId"`
	Kind         EntryKind       `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	RecordedBy   string          `json:"recordedBy"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// SubmitRequest is a request to record a single balance mutation
type SubmitRequest struct {
	PrincipalID       string          `json:"principalId"`
	Kind              EntryKind       `json:"kind"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	ActingPrincipalID string          `json:"actingPrincipalId"`
}

// TransactionResult is a state of a successfully applied transaction
type TransactionResult struct {
	Entry      Entry           `json:"entry"`
	NewBalance decimal.Decimal `json:"newBalance"`

	// Request is the normalized request echoed back to the caller
	Request SubmitRequest `json:"request"`
}

// BalanceResult is a current balance of a principal
type BalanceResult struct {
	PrincipalID string          `json:"principalId"`
	DisplayName string          `json:"displayName"`
	Balance     decimal.Decimal `json:"balance"`
}
