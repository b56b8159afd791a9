package activity

import "errors"

var (
	// ErrKindNotFound indicates the activity kind is not in the catalog.
	ErrKindNotFound = errors.New("activity kind not found")
	// ErrInvalidCatalog indicates the catalog document failed validation.
	ErrInvalidCatalog = errors.New("invalid activity catalog")
	// ErrUserPoolNotFound indicates the named user pool is not in the catalog.
	ErrUserPoolNotFound = errors.New("user pool not found")
	// ErrUnresolvedPlaceholder indicates a template and its arguments disagree.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")
)
