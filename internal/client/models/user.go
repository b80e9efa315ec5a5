// Package models defines client-side data models used by the OrderDesk CLI.
package models

import "maps"

const (
	UserTokenField = "token"
	UserEmailField = "email"
)

// User is the authenticated user as returned by the API, plus the access
// token under "token". Keys other than token and email are kept opaque.
type User map[string]any

func (u User) Token() string {
	s, _ := u[UserTokenField].(string)
	return s
}

func (u User) Email() string {
	s, _ := u[UserEmailField].(string)
	return s
}

// Clone returns a shallow copy; nil stays nil.
func (u User) Clone() User {
	if u == nil {
		return nil
	}
	return maps.Clone(u)
}

// WithToken returns a copy of u carrying token.
func (u User) WithToken(token string) User {
	out := u.Clone()
	if out == nil {
		out = User{}
	}
	out[UserTokenField] = token
	return out
}

// Merge returns a copy of u overlaid with fields from other. The token of u
// is preserved; the server never re-issues it through user payloads.
func (u User) Merge(other User) User {
	out := u.Clone()
	if out == nil {
		out = User{}
	}
	for k, v := range other {
		if k == UserTokenField {
			continue
		}
		out[k] = v
	}
	return out
}
