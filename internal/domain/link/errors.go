package link

import "errors"

var (
	ErrLinkNotFound     = errors.New("link not found")
	ErrCodeTaken        = errors.New("short code already taken")
	ErrCodeExhausted    = errors.New("could not allocate a unique short code")
	ErrInvalidTargetURL = errors.New("target URL is not valid")
)
