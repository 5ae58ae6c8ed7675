package extract

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("invalid amount")

// maxMinor bounds the magnitude so that negating a parsed value never wraps.
var maxMinor = decimal.NewFromInt(math.MaxInt64)

var moneyNoise = strings.NewReplacer("£", "", "$", "", "€", "", " ", "", "\u00a0", "")

// decimalComma matches European values such as "1.234,56" or "-588,74". A
// comma followed by one or two trailing digits is never a thousands separator.
var decimalComma = regexp.MustCompile(`^[^,]*,\d{1,2}$`)

// parseMinorUnits parses a statement money cell into minor units. Currency
// symbols, thousands separators and accounting parentheses are accepted;
// the value is multiplied by 100 and rounded half away from zero.
// European decimal commas are accepted too.
// Examples: "£1,234.56" -> 123456, "(12.34)" -> -1234, "+0.005" -> 1,
// "1.234,56" -> 123456.
func parseMinorUnits(s string) (int64, error) {
	clean := strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	clean = moneyNoise.Replace(clean)

	if decimalComma.MatchString(clean) {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	// A sign may sit before or after the currency symbol: "-£5" or "£-5".
	plus := strings.HasPrefix(clean, "+")
	if plus {
		clean = clean[1:]
	}

	signed := plus || strings.HasPrefix(clean, "-")

	// One sign at most, never inside parentheses. Exponents never appear on
	// a statement.
	if clean == "" || strings.ContainsAny(clean, "eE+") ||
		(plus && strings.HasPrefix(clean, "-")) || (negative && signed) {
		return 0, errInvalidAmount
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, errInvalidAmount
	}

	if negative {
		d = d.Neg()
	}

	minor := d.Shift(2).Round(0)
	if minor.Abs().GreaterThan(maxMinor) {
		return 0, errInvalidAmount
	}

	return minor.IntPart(), nil
}
