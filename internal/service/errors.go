package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidPage        = errors.New("invalid page")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
