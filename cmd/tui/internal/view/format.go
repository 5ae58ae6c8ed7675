package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/penny/internal/export"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders minor units as "1234.56".
func FormatAmount(minor int64) string {
	return export.FormatMinor(minor)
}

// FormatMovement renders a paid in/paid out pair as a signed amount, or "-"
// when neither is set.
func FormatMovement(paidIn, paidOut *int64) string {
	switch {
	case paidIn != nil:
		return "+" + FormatAmount(*paidIn)
	case paidOut != nil:
		return "-" + FormatAmount(*paidOut)
	}

	return "-"
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
