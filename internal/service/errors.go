package service

import "errors"

// Domain errors surfaced to handlers. Handlers map them with errors.Is.
var (
	ErrInvalidLogin     = errors.New("invalid login")
	ErrDuplicateUser    = errors.New("username already exists")
	ErrInvalidRole      = errors.New("cannot create account with this role")
	ErrBlankCredentials = errors.New("username and password are required")
	ErrListingNotFound  = errors.New("listing not found")
	ErrUnknownOwner     = errors.New("listing owner is not a registered owner")
	ErrInvalidToken     = errors.New("invalid token")
	ErrAdminAccounts    = errors.New("expected exactly one admin account")
)
