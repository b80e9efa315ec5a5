// Package common defines shared constants and sentinel errors used across
// OrderDesk layers. Callers should use errors.Is to match these values.
package common

import "errors"

// ErrValidation marks input rejected before any network call.
var ErrValidation = errors.New("validation error")
