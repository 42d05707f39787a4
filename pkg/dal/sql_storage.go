package dal

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dakshbank/ledger-service/pkg/core/diag"

	// This has to be here to let go mods work work
	_ "github.com/mattn/go-sqlite3"
)

var logger = diag.CreateLogger()

type sqlStorage struct {
	db *sql.DB

	// Serializes mutations per principal. Mutations on different
	// principals do not contend
	principalMu map[string]*sync.Mutex
	mapMu       sync.Mutex
}

func (s *sqlStorage) Setup(ctx context.Context) error {
	logger.Info(ctx, "Setup SQL storage")
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS principals(
	id           nvarchar(64) NOT NULL PRIMARY KEY,
	display_name nvarchar(255) NOT NULL,
	balance      nvarchar(255) NOT NULL,
	secret_hash  NTEXT NOT NULL,
	created_at   timestamp NOT NULL
);
CREATE TABLE IF NOT EXISTS entries(
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	principal_id  nvarchar(64) NOT NULL REFERENCES principals(id),
	kind          nvarchar(16) NOT NULL,
	amount        nvarchar(255) NOT NULL,
	description   nvarchar(255) NOT NULL,
	recorded_by   nvarchar(64) NOT NULL REFERENCES principals(id),
	balance_after nvarchar(255) NOT NULL,
	created_at    timestamp NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_principal_id ON entries(principal_id);
CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
CREATE TABLE IF NOT EXISTS tokens(
	token        nvarchar(255) NOT NULL PRIMARY KEY,
	principal_id nvarchar(64) NOT NULL REFERENCES principals(id),
	expires_at   timestamp NOT NULL,
	created_at   timestamp NOT NULL
);
`)
	return errors.Wrap(err, "Failed to setup storage")
}

func (s *sqlStorage) lockPrincipal(id string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	mu, ok := s.principalMu[id]
	if !ok {
		mu = &sync.Mutex{}
		s.principalMu[id] = mu
	}
	return mu
}

func (s *sqlStorage) CreatePrincipal(ctx context.Context, principal *PrincipalDTO) error {
	createdAt := principal.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := s.db.ExecContext(ctx, `
	INSERT INTO principals(id, display_name, balance, secret_hash, created_at)
	VALUES($1, $2, $3, $4, $5)
	`, principal.ID, principal.DisplayName, principal.Balance.String(),
		principal.SecretHash, createdAt); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.Wrapf(ErrPrincipalExists, "id: %v", principal.ID)
		}
		return errors.Wrap(err, "Failed to insert principal")
	}
	return nil
}

func (s *sqlStorage) GetPrincipal(ctx context.Context, id string) (*PrincipalDTO, error) {
	res, err := s.db.QueryContext(ctx, `
	SELECT
		id, display_name, balance, secret_hash, created_at
	FROM principals WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if !res.Next() {
		if res.Err() != nil {
			return nil, res.Err()
		}
		return nil, errors.Wrapf(ErrPrincipalNotFound, "id: %v", id)
	}

	result := &PrincipalDTO{}
	var rawBalance string
	if err := res.Scan(
		&result.ID,
		&result.DisplayName,
		&rawBalance,
		&result.SecretHash,
		&result.CreatedAt,
	); err != nil {
		return nil, err
	}
	if result.Balance, err = decimal.NewFromString(rawBalance); err != nil {
		return nil, errors.Wrapf(err, "Corrupt balance of principal %v", id)
	}
	return result, nil
}

func (s *sqlStorage) ApplyMutation(ctx context.Context, mut Mutation) (*EntryDTO, error) {
	mu := s.lockPrincipal(mut.PrincipalID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to begin mutation tx")
	}
	defer tx.Rollback()

	var rawBalance string
	row := tx.QueryRowContext(ctx, `SELECT balance FROM principals WHERE id = $1`, mut.PrincipalID)
	if err := row.Scan(&rawBalance); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Wrapf(ErrPrincipalNotFound, "id: %v", mut.PrincipalID)
		}
		return nil, errors.Wrap(err, "Failed to read current balance")
	}
	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		return nil, errors.Wrapf(err, "Corrupt balance of principal %v", mut.PrincipalID)
	}

	var balanceAfter decimal.Decimal
	if mut.Kind == "credit" {
		balanceAfter = balance.Add(mut.Amount)
	} else {
		balanceAfter = balance.Sub(mut.Amount)
	}
	if balanceAfter.IsNegative() {
		return nil, errors.Wrapf(ErrInsufficientBalance,
			"balance: %v, debit: %v", balance, mut.Amount)
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE principals SET balance = $1 WHERE id = $2
	`, balanceAfter.String(), mut.PrincipalID); err != nil {
		return nil, errors.Wrap(err, "Failed to update balance")
	}

	createdAt := time.Now()
	insertRes, err := tx.ExecContext(ctx, `
	INSERT INTO entries(
		principal_id,
		kind,
		amount,
		description,
		recorded_by,
		balance_after,
		created_at
	)
	VALUES($1, $2, $3, $4, $5, $6, $7)
	`, mut.PrincipalID, mut.Kind, mut.Amount.String(), mut.Description,
		mut.RecordedBy, balanceAfter.String(), createdAt)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to append entry")
	}
	entryID, err := insertRes.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to get entry id")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "Failed to commit mutation")
	}

	return &EntryDTO{
		ID:           entryID,
		PrincipalID:  mut.PrincipalID,
		Kind:         mut.Kind,
		Amount:       mut.Amount,
		Description:  mut.Description,
		RecordedBy:   mut.RecordedBy,
		BalanceAfter: balanceAfter,
		CreatedAt:    createdAt,
	}, nil
}

func buildFilterClause(filter EntryFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	if filter.PrincipalID != "" {
		clauses = append(clauses, "e.principal_id = ?")
		args = append(args, filter.PrincipalID)
	}
	if filter.Kind != "" {
		clauses = append(clauses, "e.kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.From != nil {
		clauses = append(clauses, "e.created_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		clauses = append(clauses, "e.created_at <= ?")
		args = append(args, *filter.To)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *sqlStorage) QueryEntries(ctx context.Context, filter EntryFilter, page Page) ([]EntryRecord, error) {
	query := `
	SELECT
		e.id, e.principal_id, p.display_name, e.kind, e.amount,
		e.description, e.recorded_by, r.display_name, e.balance_after,
		e.created_at
	FROM entries e
	JOIN principals p ON p.id = e.principal_id
	JOIN principals r ON r.id = e.recorded_by`

	whereClause, args := buildFilterClause(filter)
	query += whereClause
	query += " ORDER BY e.created_at DESC, e.id DESC"
	if page.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset)
	}

	res, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to query entries")
	}
	defer res.Close()

	entries := []EntryRecord{}
	for res.Next() {
		var entry EntryRecord
		var rawAmount, rawBalanceAfter string
		if err := res.Scan(
			&entry.ID,
			&entry.PrincipalID,
			&entry.PrincipalName,
			&entry.Kind,
			&rawAmount,
			&entry.Description,
			&entry.RecordedBy,
			&entry.RecordedByName,
			&rawBalanceAfter,
			&entry.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "Failed to scan entry")
		}
		if entry.Amount, err = decimal.NewFromString(rawAmount); err != nil {
			return nil, errors.Wrapf(err, "Corrupt amount of entry %v", entry.ID)
		}
		if entry.BalanceAfter, err = decimal.NewFromString(rawBalanceAfter); err != nil {
			return nil, errors.Wrapf(err, "Corrupt balance_after of entry %v", entry.ID)
		}
		entries = append(entries, entry)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *sqlStorage) CountEntries(ctx context.Context, filter EntryFilter) (int, error) {
	whereClause, args := buildFilterClause(filter)
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries e"+whereClause, args...)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.Wrap(err, "Failed to count entries")
	}
	return count, nil
}

func (s *sqlStorage) SaveToken(ctx context.Context, token *TokenDTO) error {
	createdAt := token.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := s.db.ExecContext(ctx, `
	INSERT INTO tokens(token, principal_id, expires_at, created_at)
	VALUES($1, $2, $3, $4)
	`, token.Token, token.PrincipalID, token.ExpiresAt, createdAt); err != nil {
		return errors.Wrap(err, "Failed to save token")
	}
	return nil
}

func (s *sqlStorage) GetToken(ctx context.Context, token string) (*TokenDTO, error) {
	res, err := s.db.QueryContext(ctx, `
	SELECT
		token, principal_id, expires_at, created_at
	FROM tokens WHERE token = $1`, token)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if !res.Next() {
		if res.Err() != nil {
			return nil, res.Err()
		}
		return nil, ErrTokenNotFound
	}

	result := &TokenDTO{}
	if err := res.Scan(
		&result.Token,
		&result.PrincipalID,
		&result.ExpiresAt,
		&result.CreatedAt,
	); err != nil {
		return nil, err
	}
	return result, nil
}

// SQLStorageOpt is an option of SQL storage
type SQLStorageOpt func(s *sqlStorage)

// WithSQLDb will set an explicit db instance for a storage
func WithSQLDb(db *sql.DB) SQLStorageOpt {
	return func(s *sqlStorage) {
		s.db = db
	}
}

// NewSQLStorage returns an instance of a local storage
func NewSQLStorage(opts ...SQLStorageOpt) (Storage, error) {
	storage := &sqlStorage{
		principalMu: map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(storage)
	}
	return storage, nil
}
