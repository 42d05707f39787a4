package types

import (
	"fmt"
	"strings"
)

// BearerToken is an opaque session token string
type BearerToken string

// Value is an underlying string
func (t BearerToken) Value() string {
	return string(t)
}

// BearerTokenFromAuthHeader extracts a token from an Authorization
// header value
func BearerTokenFromAuthHeader(header string) (BearerToken, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("Unexpected authorization header structure")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", fmt.Errorf("Empty bearer token")
	}
	return BearerToken(token), nil
}
