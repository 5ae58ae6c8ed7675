package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/penny/internal/importer"
)

func TestFormatStats(t *testing.T) {
	got := formatStats(importer.ImportStats(&importer.Import{
		TotalRows:     10,
		ProcessedRows: 8,
		ImportedRows:  6,
		DuplicateRows: 1,
	}))

	assert.Equal(t,
		"Imported 6 of 10 rows\n\nprocessed   8\nduplicates  1\nerrors      1\nsuccess     75.0%",
		got,
	)
}

func TestMoveCursor(t *testing.T) {
	assert.Equal(t, 0, moveCursor(0, 3, tea.KeyUp))
	assert.Equal(t, 1, moveCursor(0, 3, tea.KeyDown))
	assert.Equal(t, 2, moveCursor(2, 3, tea.KeyDown))
	assert.Equal(t, 1, moveCursor(1, 3, tea.KeyLeft))
}
