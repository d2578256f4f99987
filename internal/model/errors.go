package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Checklist related errors
	ErrChecklistNotFound     = errors.New("checklist not found")
	ErrChecklistInUse        = errors.New("checklist still has items")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)
