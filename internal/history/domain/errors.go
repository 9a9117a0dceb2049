package domain

import "fmt"

// RecordNotFoundError indicates no record exists with the given GUID.
type RecordNotFoundError struct {
	GUID string
}

// Error implements the error interface.
func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("game record not found: guid=%q", e.GUID)
}
