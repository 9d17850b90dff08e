package admin

import "errors"

var (
	ErrInvalidAccessKey = errors.New("invalid access key")
	ErrNotConfigured    = errors.New("admin access key is not configured")
)
