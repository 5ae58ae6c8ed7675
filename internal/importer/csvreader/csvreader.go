// Package csvreader reads bank-statement CSV files into raw rows, either as an
// untyped preview or mapped through an import schema.
package csvreader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	enc "github.com/MrJamesThe3rd/penny/internal/encoding"
	"github.com/MrJamesThe3rd/penny/internal/importer/profile"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

var ErrEmptyFile = errors.New("file contains no data")

// dateSampleSize caps how many cells per column feed date-format detection.
const dateSampleSize = 50

// profileScanLines is how many leading records are searched for a known
// header row.
const profileScanLines = 30

// Preview is the first look at a file before a schema exists.
type Preview struct {
	Headers   []string
	Rows      [][]string
	TotalRows int
	Charset   enc.Charset
	Delimiter rune

	// DetectedDateFormats is keyed by 1-based column index.
	DetectedDateFormats map[int]dateparse.Format

	// Suggested is set when a known header layout was found.
	Suggested *profile.Match
}

// Cell is one mapped value of a row. A cell for a field the schema does not
// map has Mapped false; a mapped column with no content has Mapped true and
// an empty Value.
type Cell struct {
	Value  string
	Mapped bool
}

// Present reports whether the cell is mapped and holds a value.
func (c Cell) Present() bool {
	return c.Mapped && c.Value != ""
}

// Row is a data row with its cells picked out by schema field.
type Row struct {
	Number int // 1-based physical line number

	Date        Cell
	Balance     Cell
	Amount      Cell
	PaidIn      Cell
	PaidOut     Cell
	Description Cell

	Raw []string
}

type record struct {
	line   int
	fields []string
}

type Reader struct{}

func New() *Reader {
	return &Reader{}
}

// ParseForPreview returns the header row, up to maxRows data rows (all when
// maxRows <= 0) and the date formats detected per column.
func (rd *Reader) ParseForPreview(r io.Reader, maxRows int) (*Preview, error) {
	records, charset, delim, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	data := records[1:]

	p := &Preview{
		TotalRows:           len(data),
		Charset:             charset,
		Delimiter:           delim,
		DetectedDateFormats: make(map[int]dateparse.Format),
	}

	shown := data
	if maxRows > 0 && len(shown) > maxRows {
		shown = shown[:maxRows]
	}

	width := len(records[0].fields)
	for _, rec := range shown {
		width = max(width, len(rec.fields))
	}

	p.Headers = make([]string, width)
	for i := range width {
		p.Headers[i] = cellAt(records[0].fields, i+1)
		if p.Headers[i] == "" {
			p.Headers[i] = fmt.Sprintf("Column %d", i+1)
		}
	}

	p.Rows = make([][]string, len(shown))
	for i, rec := range shown {
		p.Rows[i] = rec.fields
	}

	for col := 1; col <= width; col++ {
		if f, ok := detectColumnFormat(data, col); ok {
			p.DetectedDateFormats[col] = f
		}
	}

	p.Suggested = suggest(records)

	return p, nil
}

// suggest looks for a known header among the leading records and detects
// the date format from the rows below it.
func suggest(records []record) *profile.Match {
	lines := make([]profile.Line, 0, min(len(records), profileScanLines))
	for _, rec := range records[:min(len(records), profileScanLines)] {
		lines = append(lines, profile.Line{Number: rec.line, Fields: rec.fields})
	}

	m, ok := profile.Detect(lines)
	if !ok {
		return nil
	}

	var data []record

	for _, rec := range records {
		if rec.line > m.HeaderLine {
			data = append(data, rec)
		}
	}

	if f, ok := detectColumnFormat(data, m.Schema.DateColumn); ok {
		m.Schema.DateFormat = f
	}

	return m
}

// ParseWithSchema maps every data row from the schema's start row onwards.
// Rows with no content are skipped.
func (rd *Reader) ParseWithSchema(r io.Reader, s schema.Schema) ([]Row, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	records, _, _, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	var rows []Row

	for _, rec := range records {
		if rec.line < s.TransactionDataStart {
			continue
		}

		rows = append(rows, mapRow(rec, s))
	}

	return rows, nil
}

func mapRow(rec record, s schema.Schema) Row {
	cell := func(col int) Cell {
		if col <= 0 {
			return Cell{}
		}

		return Cell{Value: cellAt(rec.fields, col), Mapped: true}
	}

	row := Row{
		Number:      rec.line,
		Date:        cell(s.DateColumn),
		Balance:     cell(s.BalanceColumn),
		Description: cell(s.DescriptionColumn),
		Raw:         rec.fields,
	}

	if s.UsesSingleAmountColumn() {
		row.Amount = cell(s.AmountColumn)
	} else {
		row.PaidIn = cell(s.PaidInColumn)
		row.PaidOut = cell(s.PaidOutColumn)
	}

	return row
}

// cellAt returns the trimmed value at a 1-based column, or "" past the end
// of a short row.
func cellAt(fields []string, col int) string {
	if col < 1 || col > len(fields) {
		return ""
	}

	return strings.TrimSpace(fields[col-1])
}

func readRecords(r io.Reader) ([]record, enc.Charset, rune, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, "", 0, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, "", 0, fmt.Errorf("read file: %w", err)
	}

	delim := sniffDelimiter(content)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records []record

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, "", 0, fmt.Errorf("read csv: %w", err)
		}

		if blank(fields) {
			continue
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}

	if len(records) == 0 {
		return nil, "", 0, ErrEmptyFile
	}

	return records, charset, delim, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}

var delimiters = []rune{',', ';', '\t', '|'}

// sniffLines bounds how many non-blank lines the delimiter sniff looks at.
const sniffLines = 20

// sniffDelimiter picks the candidate whose per-line count is most consistent
// over the first non-blank lines: the one whose most common non-zero count is
// shared by the most lines. A title line such as "Statement, Jan 2023" above
// ';' data therefore loses to the data. Ties go to the larger count, then to
// candidate order. Comma wins when no candidate is seen.
func sniffDelimiter(content []byte) rune {
	perLine := make([]map[rune]int, 0, sniffLines)

	for l := range strings.Lines(string(content)) {
		if strings.TrimSpace(l) == "" {
			continue
		}

		perLine = append(perLine, countDelimiters(l))
		if len(perLine) == sniffLines {
			break
		}
	}

	best, bestLines, bestCount := delimiters[0], 0, 0

	for _, d := range delimiters {
		count, lines := modalCount(perLine, d)
		if lines > bestLines || (lines == bestLines && count > bestCount) {
			best, bestLines, bestCount = d, lines, count
		}
	}

	return best
}

// modalCount returns the most common non-zero count of d across lines and
// how many lines have it.
func modalCount(perLine []map[rune]int, d rune) (count, lines int) {
	freq := make(map[int]int)

	for _, counts := range perLine {
		if n := counts[d]; n > 0 {
			freq[n]++
		}
	}

	for n, f := range freq {
		if f > lines || (f == lines && n > count) {
			count, lines = n, f
		}
	}

	return count, lines
}

// countDelimiters counts the unquoted candidates in line.
func countDelimiters(line string) map[rune]int {
	counts := make(map[rune]int, len(delimiters))
	inQuotes := false

	for _, ch := range line {
		if ch == '"' {
			inQuotes = !inQuotes
			continue
		}

		if !inQuotes && slices.Contains(delimiters, ch) {
			counts[ch]++
		}
	}

	return counts
}

// detectColumnFormat samples a column and keeps the dominant format only when
// it parses at least half of the samples.
func detectColumnFormat(data []record, col int) (dateparse.Format, bool) {
	var samples []string

	for _, rec := range data {
		if v := cellAt(rec.fields, col); v != "" {
			samples = append(samples, v)
		}

		if len(samples) == dateSampleSize {
			break
		}
	}

	matches := dateparse.Score(samples)
	if len(matches) == 0 || matches[0].Count*2 < len(samples) {
		return "", false
	}

	return matches[0].Format, true
}
