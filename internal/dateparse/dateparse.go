// Package dateparse turns bank-statement date strings of unknown format into
// canonical ISO dates.
//
// Formats are expressed with the PHP-style tokens users type into an import
// schema ("d/m/Y", "j F Y", ...). Each known format is an entry in an ordered
// candidate list; supporting a new format means appending an entry.
package dateparse

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Format is a date format written with PHP-style tokens, e.g. "d/m/Y".
type Format string

const (
	FormatISO              Format = "Y-m-d"
	FormatISOTime          Format = "Y-m-d H:i:s"
	FormatDayFirst         Format = "d/m/Y"
	FormatDayFirstTime     Format = "d/m/Y H:i:s"
	FormatMonthFirst       Format = "m/d/Y"
	FormatMonthFirstTime   Format = "m/d/Y H:i:s"
	FormatDayFirstDash     Format = "d-m-Y"
	FormatDayFirstDashTime Format = "d-m-Y H:i:s"
	FormatDayFirstDot      Format = "d.m.Y"
	FormatShortDayFirst    Format = "j/n/Y"
	FormatShortMonthFirst  Format = "n/j/Y"
	FormatShortDayDash     Format = "j-n-Y"
	FormatShortDayDot      Format = "j.n.Y"
	FormatDayMonthName     Format = "j F Y"
	FormatDayMonthAbbr     Format = "j M Y"
	FormatDayMonthAbbrDash Format = "j-M-Y"
	FormatOrdinalMonthName Format = "jS F Y"
	FormatOrdinalMonthAbbr Format = "jS M Y"
	FormatMonthNameDay     Format = "F j, Y"
	FormatMonthAbbrDay     Format = "M j, Y"
	FormatMonthNameOrdinal Format = "F jS, Y"
	FormatMonthAbbrOrdinal Format = "M jS, Y"
	FormatDayMonthNameComm Format = "j F, Y"
	FormatDayMonthAbbrComm Format = "j M, Y"
	FormatOrdinalNameComm  Format = "jS F, Y"
	FormatOrdinalAbbrComm  Format = "jS M, Y"
)

// ISOLayout is the layout of every value returned by Parse.
const ISOLayout = time.DateOnly

// ParseError reports a value that is empty or matches no known format.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return "date is empty"
	}

	return fmt.Sprintf("unable to parse date %q", e.Value)
}

type candidate struct {
	format Format
	parse  func(s string) (time.Time, bool)
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	commas     = regexp.MustCompile(`\s*,\s*`)
	ordinals   = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
)

// layout parses s strictly against a Go layout.
func layout(goLayout string) func(string) (time.Time, bool) {
	return func(s string) (time.Time, bool) {
		t, err := time.Parse(goLayout, s)
		return t, err == nil
	}
}

// ordinal requires an ordinal day ("1st", "22nd") and parses the value with
// the suffix removed.
func ordinal(goLayout string) func(string) (time.Time, bool) {
	return func(s string) (time.Time, bool) {
		if !ordinals.MatchString(s) {
			return time.Time{}, false
		}

		t, err := time.Parse(goLayout, ordinals.ReplaceAllString(s, "$1"))

		return t, err == nil
	}
}

// candidates is ordered: for genuinely ambiguous numeric dates the earlier
// entry wins, which makes day-first the tie-break over month-first.
var candidates = []candidate{
	{FormatISO, layout("2006-01-02")},
	{FormatISOTime, layout("2006-01-02 15:04:05")},
	{FormatDayFirst, layout("02/01/2006")},
	{FormatDayFirstTime, layout("02/01/2006 15:04:05")},
	{FormatMonthFirst, layout("01/02/2006")},
	{FormatMonthFirstTime, layout("01/02/2006 15:04:05")},
	{FormatDayFirstDash, layout("02-01-2006")},
	{FormatDayFirstDashTime, layout("02-01-2006 15:04:05")},
	{FormatDayFirstDot, layout("02.01.2006")},
	{FormatShortDayFirst, layout("2/1/2006")},
	{FormatShortMonthFirst, layout("1/2/2006")},
	{FormatShortDayDash, layout("2-1-2006")},
	{FormatShortDayDot, layout("2.1.2006")},
	{FormatDayMonthName, layout("2 January 2006")},
	{FormatDayMonthAbbr, layout("2 Jan 2006")},
	{FormatDayMonthAbbrDash, layout("2-Jan-2006")},
	{FormatOrdinalMonthName, ordinal("2 January 2006")},
	{FormatOrdinalMonthAbbr, ordinal("2 Jan 2006")},
	{FormatMonthNameDay, layout("January 2, 2006")},
	{FormatMonthAbbrDay, layout("Jan 2, 2006")},
	{FormatMonthNameOrdinal, ordinal("January 2, 2006")},
	{FormatMonthAbbrOrdinal, ordinal("Jan 2, 2006")},
	{FormatDayMonthNameComm, layout("2 January, 2006")},
	{FormatDayMonthAbbrComm, layout("2 Jan, 2006")},
	{FormatOrdinalNameComm, ordinal("2 January, 2006")},
	{FormatOrdinalAbbrComm, ordinal("2 Jan, 2006")},
}

// Formats returns every supported format in candidate order.
func Formats() []Format {
	formats := make([]Format, len(candidates))
	for i, c := range candidates {
		formats[i] = c.format
	}

	return formats
}

// Known reports whether f is a supported format.
func Known(f Format) bool {
	_, ok := lookup(f)
	return ok
}

func lookup(f Format) (candidate, bool) {
	for _, c := range candidates {
		if c.format == f {
			return c, true
		}
	}

	return candidate{}, false
}

// normalize collapses runs of whitespace and tidies comma spacing so
// "15  January ,2023" matches the same candidates as "15 January, 2023".
func normalize(raw string) string {
	s := whitespace.ReplaceAllString(strings.TrimSpace(raw), " ")
	return commas.ReplaceAllString(s, ", ")
}

// Parse converts raw into a YYYY-MM-DD string. When expected names a known
// format it is tried first; otherwise, or when it does not match, every
// candidate is tried in order. Any time component is discarded.
func Parse(raw string, expected Format) (string, error) {
	t, err := ParseTime(raw, expected)
	if err != nil {
		return "", err
	}

	return t.Format(ISOLayout), nil
}

// ParseTime is Parse returning the date as midnight UTC.
func ParseTime(raw string, expected Format) (time.Time, error) {
	s := normalize(raw)
	if s == "" {
		return time.Time{}, &ParseError{Value: raw}
	}

	if c, ok := lookup(expected); ok {
		if t, ok := c.parse(s); ok {
			return truncate(t), nil
		}
	}

	for _, c := range candidates {
		if t, ok := c.parse(s); ok {
			return truncate(t), nil
		}
	}

	return time.Time{}, &ParseError{Value: raw}
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Match is the number of samples a format parsed.
type Match struct {
	Format Format
	Count  int
}

// Score parses every sample against every candidate and returns the formats
// that matched at least one sample, most matches first. Ties keep candidate
// order.
func Score(samples []string) []Match {
	var matches []Match

	for _, c := range candidates {
		count := 0

		for _, sample := range samples {
			s := normalize(sample)
			if s == "" {
				continue
			}

			if _, ok := c.parse(s); ok {
				count++
			}
		}

		if count > 0 {
			matches = append(matches, Match{Format: c.format, Count: count})
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return matches
}

// DetectFormat returns the format that parses the most samples. It reports
// false when no format parses any sample.
func DetectFormat(samples []string) (Format, bool) {
	matches := Score(samples)
	if len(matches) == 0 {
		return "", false
	}

	return matches[0].Format, true
}
