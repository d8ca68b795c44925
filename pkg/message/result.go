package message

import "github.com/tendant/org-messages/pkg/domain"

// Result is the outcome of a mutating Logic operation. It is a closed set:
// only the types declared in this file implement it.
type Result interface {
	isResult()
}

// Created carries the persisted message.
type Created struct {
	Value *domain.Message
}

// Updated signals a successful update.
type Updated struct{}

// Deleted signals a successful delete.
type Deleted struct{}

// NotFound means the referenced message does not exist in the organization.
type NotFound struct {
	Message string
}

// Conflict means the title is already taken within the organization.
type Conflict struct {
	Message string
}

// ValidationError maps field names to their error messages.
type ValidationError struct {
	Errors map[string][]string
}

func (Created) isResult()         {}
func (Updated) isResult()         {}
func (Deleted) isResult()         {}
func (NotFound) isResult()        {}
func (Conflict) isResult()        {}
func (ValidationError) isResult() {}
