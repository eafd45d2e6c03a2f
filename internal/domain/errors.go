package domain

import "errors"

var (
	ErrExternalQuery      = errors.New("external query failed")
	ErrMalformedOutput    = errors.New("malformed query output")
	ErrUnknownApplication = errors.New("unknown application")
	ErrUnknownPlatform    = errors.New("unknown platform")
)
