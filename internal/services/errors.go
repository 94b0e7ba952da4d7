// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

// LookupError is a failed read in the find-or-create resolver.
type LookupError struct {
	Table string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup in %s failed: %v", e.Table, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// CreationError is a failed insert in the find-or-create resolver.
type CreationError struct {
	Table string
	Err   error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to create record in %s: %v", e.Table, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// ProductCreationError aborts the ingestion pipeline. Entities resolved
// before the product insert are not rolled back.
type ProductCreationError struct {
	Err error
}

func (e *ProductCreationError) Error() string {
	return fmt.Sprintf("failed to create product: %v", e.Err)
}

func (e *ProductCreationError) Unwrap() error { return e.Err }

// ExtractionParseError means the model reply, after fence stripping, is not
// valid JSON.
type ExtractionParseError struct {
	Raw string
	Err error
}

func (e *ExtractionParseError) Error() string {
	return fmt.Sprintf("model reply is not valid JSON: %v", e.Err)
}

func (e *ExtractionParseError) Unwrap() error { return e.Err }
