package domain

import "errors"

var (
	// ErrDuplicateEmail has a uniqueness guard behind it in the account and merchant
	// repositories; the HTTP layer maps it onto a 409 with a field-level message.
	ErrDuplicateEmail = errors.New("このメールアドレスは既に登録されています")
	// ErrNotFound keeps repository lookups storage-agnostic for callers.
	ErrNotFound = errors.New("entity not found")
)
