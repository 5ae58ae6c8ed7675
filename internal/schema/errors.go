package schema

import "errors"

var (
	ErrNotFound  = errors.New("schema not found")
	ErrNameTaken = errors.New("schema name already in use")
)

// ValidationError describes why a schema cannot be used to parse a file.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrStartRow              = &ValidationError{Message: "start row must be ≥1"}
	ErrDateColumnRequired    = &ValidationError{Message: "date column required"}
	ErrBalanceColumnRequired = &ValidationError{Message: "balance column required"}
	ErrAmountRequired        = &ValidationError{Message: "amount or paid_in/paid_out required"}
	ErrAmountModesExclusive  = &ValidationError{Message: "amount and paid_in/paid_out are mutually exclusive"}
	ErrNegativeColumn        = &ValidationError{Message: "column indices must be positive"}
	ErrUnknownDateFormat     = &ValidationError{Message: "unknown date format"}
)
