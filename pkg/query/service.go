package query

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/dakshbank/ledger-service/pkg/core/diag"
	"github.com/dakshbank/ledger-service/pkg/dal"
	"github.com/dakshbank/ledger-service/pkg/ledger"
)

var logger = diag.CreateLogger()

const (
	// DefaultLimit is a page size used when the caller does not ask for one
	DefaultLimit = 20

	// MaxLimit caps the page size a caller can ask for
	MaxLimit = 100
)

// Filter narrows down entries to list or export. All set fields must match,
// From and To bounds are inclusive
type Filter struct {
	PrincipalID string
	Kind        ledger.EntryKind
	From        *time.Time
	To          *time.Time
}

// ListRequest is a paginated entries query
type ListRequest struct {
	Filter
	Limit  int
	Offset int
}

// EntryView is a ledger entry decorated with display names current at
// read time
type EntryView struct {
	ledger.Entry
	PrincipalName  string `json:"principalName"`
	RecordedByName string `json:"recordedByName"`
}

// ListResult is a page of entries with the total across all pages
type ListResult struct {
	Entries []EntryView `json:"entries"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// Service answers read only questions about the ledger
type Service interface {
	// List returns entries matching the filter, newest first
	List(ctx context.Context, req ListRequest) (*ListResult, error)

	// Export fetches all entries matching the filter, newest first.
	// The same filter yields the same set of entries as List would page
	// through. Rendering is separate so fetch errors surface before
	// anything is written
	Export(ctx context.Context, filter Filter) (*Export, error)
}

type service struct {
	storage dal.Storage
}

func (f Filter) dalFilter() dal.EntryFilter {
	return dal.EntryFilter{
		PrincipalID: ledger.NormalizeID(f.PrincipalID),
		Kind:        string(f.Kind),
		From:        f.From,
		To:          f.To,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func newEntryView(rec dal.EntryRecord) EntryView {
	return EntryView{
		Entry: ledger.Entry{
			ID:           rec.ID,
			PrincipalID:  rec.PrincipalID,
			Kind:         ledger.EntryKind(rec.Kind),
			Amount:       rec.Amount,
			Description:  rec.Description,
			RecordedBy:   rec.RecordedBy,
			BalanceAfter: rec.BalanceAfter,
			CreatedAt:    rec.CreatedAt,
		},
		PrincipalName:  rec.PrincipalName,
		RecordedByName: rec.RecordedByName,
	}
}

func (svc *service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	limit := clampLimit(req.Limit)
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	filter := req.dalFilter()
	records, err := svc.storage.QueryEntries(ctx, filter, dal.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	total, err := svc.storage.CountEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]EntryView, len(records))
	for i, rec := range records {
		entries[i] = newEntryView(rec)
	}
	return &ListResult{Entries: entries, Total: total, Limit: limit, Offset: offset}, nil
}

var csvHeader = []string{
	"id", "principal_id", "principal_name", "kind", "amount",
	"description", "recorded_by", "recorded_by_name", "balance_after", "created_at",
}

// Export is a fetched set of entries ready to render
type Export struct {
	records []dal.EntryRecord
}

// Len is the number of fetched entries
func (e *Export) Len() int {
	return len(e.records)
}

// WriteCSV renders the fetched entries as CSV
func (e *Export) WriteCSV(out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range e.records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.PrincipalID,
			rec.PrincipalName,
			rec.Kind,
			rec.Amount.String(),
			rec.Description,
			rec.RecordedBy,
			rec.RecordedByName,
			rec.BalanceAfter.String(),
			rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (svc *service) Export(ctx context.Context, filter Filter) (*Export, error) {
	records, err := svc.storage.QueryEntries(ctx, filter.dalFilter(), dal.Page{})
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "Exporting %v entries", len(records))
	return &Export{records: records}, nil
}

// ServiceOpt is an option for the query service
type ServiceOpt func(*service)

// WithStorage will init the service with storage
func WithStorage(storage dal.Storage) ServiceOpt {
	return func(svc *service) {
		svc.storage = storage
	}
}

// NewService returns an instance of a query service
func NewService(opts ...ServiceOpt) Service {
	svc := &service{}
	for _, opt := range opts {
		opt(svc)
	}
	return Service(svc)
}
