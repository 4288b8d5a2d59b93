package model

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownTable       = errors.New("relation does not exist")
	ErrUnknownColumn      = errors.New("column does not exist")
	ErrRowLevelSecurity   = errors.New("new row violates row-level security policy")
	ErrStorageDisabled    = errors.New("object storage is not configured")
	ErrUnauthenticated    = errors.New("not authenticated")
)
