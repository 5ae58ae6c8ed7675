package transaction

import "errors"

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrBothAmounts = errors.New("paid in and paid out are mutually exclusive")
)
