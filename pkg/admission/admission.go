package admission

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/dakshbank/ledger-service/pkg/core/diag"
)

var logger = diag.CreateLogger()

// Class groups operations that share an admission budget. Auth attempts
// and balance mutations get tighter budgets than plain reads
type Class string

const (
	// ClassGeneral covers reads and everything not classified otherwise
	ClassGeneral Class = "general"

	// ClassAuth covers credential verification attempts
	ClassAuth Class = "auth"

	// ClassTransaction covers balance mutations
	ClassTransaction Class = "transaction"
)

// Limit is a steady rate per second with a burst allowance
type Limit struct {
	PerSecond float64
	Burst     int
}

// DefaultLimits returns per class budgets used unless configured otherwise
func DefaultLimits() map[Class]Limit {
	return map[Class]Limit{
		ClassGeneral:     {PerSecond: 20, Burst: 40},
		ClassAuth:        {PerSecond: 1, Burst: 5},
		ClassTransaction: {PerSecond: 5, Burst: 10},
	}
}

// Filter decides if a request is admitted. Each caller gets an
// independent budget per class
type Filter interface {
	Allow(callerID string, class Class) bool
}

type limiterKey struct {
	callerID string
	class    Class
}

type filter struct {
	limits map[Class]Limit

	mu       sync.Mutex
	limiters map[limiterKey]*rate.Limiter
}

func (f *filter) limiterFor(callerID string, class Class) *rate.Limiter {
	key := limiterKey{callerID: callerID, class: class}
	f.mu.Lock()
	defer f.mu.Unlock()
	if limiter, ok := f.limiters[key]; ok {
		return limiter
	}
	limit, ok := f.limits[class]
	if !ok {
		limit = f.limits[ClassGeneral]
	}
	limiter := rate.NewLimiter(rate.Limit(limit.PerSecond), limit.Burst)
	f.limiters[key] = limiter
	return limiter
}

func (f *filter) Allow(callerID string, class Class) bool {
	return f.limiterFor(callerID, class).Allow()
}

// FilterOpt is an option for the admission filter
type FilterOpt func(*filter)

// WithLimit overrides the budget of a single class
func WithLimit(class Class, limit Limit) FilterOpt {
	return func(f *filter) {
		f.limits[class] = limit
	}
}

// NewFilter returns an admission filter with default budgets
func NewFilter(opts ...FilterOpt) Filter {
	f := &filter{
		limits:   DefaultLimits(),
		limiters: map[limiterKey]*rate.Limiter{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return Filter(f)
}
