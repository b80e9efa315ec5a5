// Package common contains shared constants and sentinel errors used across
// OrderDesk components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on authenticated API calls.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName carries the per-submission request token.
	RequestIDHeaderName = "X-Request-ID"

	// UserStoreKey is the credential store key holding the serialized user.
	UserStoreKey = "user"
)
