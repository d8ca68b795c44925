package domain

import "errors"

// Message errors
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrDuplicateTitle  = errors.New("message title already exists in organization")
)
