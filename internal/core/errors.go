package core

import "errors"

// Error sentinels shared across services. Handlers map these to HTTP
// statuses with errors.Is.
var (
	// ErrItemNotFound is returned when a shared item does not exist.
	ErrItemNotFound = errors.New("shared item not found")
	// ErrForbiddenAccess is returned when the requester does not own the
	// target item.
	ErrForbiddenAccess = errors.New("forbidden access to item")
	// ErrAccessDenied is returned by the access gate when the identity is
	// not on the allowlist and holds no redeemable invite.
	ErrAccessDenied = errors.New("access denied: not on allowlist")

	// ErrValidation is the base error all pre-I/O input rejections wrap.
	ErrValidation = errors.New("validation failed")
)
