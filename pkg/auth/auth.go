package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dakshbank/ledger-service/pkg/core/diag"
	"github.com/dakshbank/ledger-service/pkg/dal"
	"github.com/dakshbank/ledger-service/pkg/ledger"
	"github.com/dakshbank/ledger-service/pkg/types"
)

var logger = diag.CreateLogger()

// DefaultTokenTTL is a lifetime of an issued session token
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials is returned when the principal is unknown or
	// the secret does not match. Callers can not tell which
	ErrInvalidCredentials = errors.New("invalid principal id or secret")

	// ErrInvalidToken is returned when a presented token is unknown
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a presented token is past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// EnrollRequest describes a new principal to register
type EnrollRequest struct {
	PrincipalID string `json:"principalId"`
	DisplayName string `json:"displayName"`
	Secret      string `json:"secret"`
}

// Principal is a registered ledger participant
type Principal struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session is an issued bearer token with its expiry
type Session struct {
	Token       types.BearerToken `json:"token"`
	PrincipalID string            `json:"principalId"`
	ExpiresAt   time.Time         `json:"expiresAt"`
}

// NowService provides current time
type NowService interface {
	Now() time.Time
}

type defaultNowService struct{}

func (svc *defaultNowService) Now() time.Time {
	return time.Now()
}

// Service is an auth service abstraction
type Service interface {
	// Enroll registers a principal with a zero starting balance
	Enroll(ctx context.Context, req EnrollRequest) (*Principal, error)

	// IssueToken verifies the secret and mints a bearer token
	IssueToken(ctx context.Context, principalID string, secret string) (*Session, error)

	// Authenticate resolves a bearer token to a principal id
	Authenticate(ctx context.Context, token types.BearerToken) (string, error)
}

type service struct {
	storage  dal.Storage
	now      NowService
	tokenTTL time.Duration
}

func (svc *service) Enroll(ctx context.Context, req EnrollRequest) (*Principal, error) {
	id := ledger.NormalizeID(req.PrincipalID)
	if id == "" {
		return nil, errors.Wrap(ErrInvalidCredentials, "empty principal id")
	}
	if req.Secret == "" {
		return nil, errors.Wrap(ErrInvalidCredentials, "empty secret")
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to hash secret")
	}

	createdAt := svc.now.Now()
	logger.Debug(ctx, "Enrolling principal %v", id)
	if err := svc.storage.CreatePrincipal(ctx, &dal.PrincipalDTO{
		ID:          id,
		DisplayName: displayName,
		Balance:     decimal.Zero,
		SecretHash:  string(hash),
		CreatedAt:   createdAt,
	}); err != nil {
		return nil, err
	}
	return &Principal{ID: id, DisplayName: displayName, CreatedAt: createdAt}, nil
}

func (svc *service) IssueToken(ctx context.Context, principalID string, secret string) (*Session, error) {
	id := ledger.NormalizeID(principalID)
	principal, err := svc.storage.GetPrincipal(ctx, id)
	if err != nil {
		if errors.Cause(err) == dal.ErrPrincipalNotFound {
			return nil, errors.Wrapf(ErrInvalidCredentials, "unknown principal %v", id)
		}
		return nil, errors.Wrap(err, "Failed to get principal")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(principal.SecretHash), []byte(secret)); err != nil {
		return nil, errors.Wrapf(ErrInvalidCredentials, "secret mismatch for %v", id)
	}

	now := svc.now.Now()
	token := &dal.TokenDTO{
		Token:       uuid.NewV4().String(),
		PrincipalID: id,
		ExpiresAt:   now.Add(svc.tokenTTL),
		CreatedAt:   now,
	}
	logger.Debug(ctx, "Issuing token for principal %v, expires at %v", id, token.ExpiresAt)
	if err := svc.storage.SaveToken(ctx, token); err != nil {
		return nil, errors.Wrap(err, "Failed to save token")
	}
	return &Session{
		Token:       types.BearerToken(token.Token),
		PrincipalID: id,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

func (svc *service) Authenticate(ctx context.Context, token types.BearerToken) (string, error) {
	dto, err := svc.storage.GetToken(ctx, token.Value())
	if err != nil {
		if errors.Cause(err) == dal.ErrTokenNotFound {
			return "", errors.Wrap(ErrInvalidToken, "unknown token")
		}
		return "", errors.Wrap(err, "Failed to get token")
	}
	if !svc.now.Now().Before(dto.ExpiresAt) {
		return "", errors.Wrapf(ErrTokenExpired, "expired at %v", dto.ExpiresAt)
	}
	return dto.PrincipalID, nil
}

// ServiceOpt is an option for auth service
type ServiceOpt func(*service)

// WithStorage will init the service with storage
func WithStorage(storage dal.Storage) ServiceOpt {
	return func(svc *service) {
		svc.storage = storage
	}
}

// WithNowService will init the service with a custom time source
func WithNowService(now NowService) ServiceOpt {
	return func(svc *service) {
		svc.now = now
	}
}

// WithTokenTTL will init the service with a custom token lifetime
func WithTokenTTL(ttl time.Duration) ServiceOpt {
	return func(svc *service) {
		svc.tokenTTL = ttl
	}
}

// NewService returns an instance of an auth service
func NewService(opts ...ServiceOpt) Service {
	svc := &service{
		now:      &defaultNowService{},
		tokenTTL: DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return Service(svc)
}
