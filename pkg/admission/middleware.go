package admission

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/dakshbank/ledger-service/pkg/types"
)

// callerKey identifies a caller for budgeting. Authenticated requests
// are budgeted per token so callers behind a shared NAT do not starve
// each other, anonymous requests fall back to the remote address
func callerKey(req *http.Request) string {
	if token, err := types.BearerTokenFromAuthHeader(req.Header.Get("Authorization")); err == nil {
		return "token:" + token.Value()
	}
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		ip = req.RemoteAddr
	}
	return "addr:" + ip
}

// NewMiddleware creates a middleware that rejects requests over the
// class budget with a 429
func NewMiddleware(filter Filter, class Class) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			caller := callerKey(req)
			if !filter.Allow(caller, class) {
				logger.Info(req.Context(), "Rejecting %v %v for %v, budget %v exhausted",
					req.Method, req.URL.Path, caller, class)
				w.Header().Set("content-type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				if err := json.NewEncoder(w).Encode(map[string]interface{}{
					"statusCode": http.StatusTooManyRequests,
					"error":      http.StatusText(http.StatusTooManyRequests),
					"message":    "Too many requests, retry later",
				}); err != nil {
					logger.WithError(err).Error(req.Context(), "Failed to write admission response")
				}
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
