package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/penny/internal/account"
	"github.com/MrJamesThe3rd/penny/internal/importer"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateLoading importState = iota
	importStateSchemaSelect
	importStateAccountSelect
	importStateFilePick
	importStatePreviewing
	importStateReview
	importStateConfirming
	importStateResult
)

type ImportModel struct {
	session Session

	state      importState
	filePicker filepicker.Model

	schemas       []*schema.Schema
	accounts      []*account.Account
	schemaCursor  int
	accountCursor int

	path    string
	preview *importer.PreviewResult
	review  ReviewModel

	imported *importer.Import
	status   string
	err      error
}

func NewImportModel(session Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		session:    session,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateReview {
		return m.review.ShortHelp()
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.loadOptionsCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateSchemaSelect:
			return m.updateSchemaSelect(msg)
		case importStateAccountSelect:
			return m.updateAccountSelect(msg)
		case importStateReview:
			if msg.Type == tea.KeyEnter {
				m.state = importStateConfirming
				m.status = fmt.Sprintf("Importing %s...", filepath.Base(m.path))

				return m, m.confirmCmd()
			}

			var cmd tea.Cmd
			m.review, cmd = m.review.Update(msg)

			return m, cmd
		}

	case importOptionsMsg:
		if msg.err != nil {
			return m.showError(msg.err)
		}

		m.schemas = msg.schemas
		m.accounts = msg.accounts

		switch {
		case len(m.schemas) == 0:
			return m.showError(fmt.Errorf("no import schemas yet, create one under Schemas first"))
		case len(m.accounts) == 0:
			return m.showError(fmt.Errorf("no accounts yet, create one first"))
		}

		m.state = importStateSchemaSelect

		return m, nil

	case previewResultMsg:
		if msg.err != nil {
			return m.showError(msg.err)
		}

		m.preview = msg.result
		if len(msg.result.Transactions) == 0 {
			return m.showError(fmt.Errorf("no valid transactions found (%d rows with errors)", len(msg.result.Errors)))
		}

		m.review = NewReviewModel(msg.result)
		m.state = importStateReview

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		m.imported = msg.imported
		m.err = msg.err

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStatePreviewing
		m.status = fmt.Sprintf("Reading %s...", filepath.Base(path))

		return m, m.previewCmd()
	}

	return m, cmd
}

func (m ImportModel) showError(err error) (tea.Model, tea.Cmd) {
	m.state = importStateResult
	m.imported = nil
	m.err = err

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateAccountSelect:
		m.state = importStateSchemaSelect
		return m, nil
	case importStateFilePick:
		m.state = importStateAccountSelect
		return m, nil
	case importStateReview:
		m.state = importStateFilePick
		m.preview = nil

		return m, m.filePicker.Init()
	case importStateResult:
		if len(m.schemas) == 0 || len(m.accounts) == 0 {
			return m, Back
		}

		m.state = importStateSchemaSelect
		m.err = nil
		m.imported = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func moveCursor(cursor, n int, key tea.KeyType) int {
	switch key {
	case tea.KeyUp:
		if cursor > 0 {
			return cursor - 1
		}
	case tea.KeyDown:
		if cursor < n-1 {
			return cursor + 1
		}
	}

	return cursor
}

func (m ImportModel) updateSchemaSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.state = importStateAccountSelect
		return m, nil
	}

	m.schemaCursor = moveCursor(m.schemaCursor, len(m.schemas), msg.Type)

	return m, nil
}

func (m ImportModel) updateAccountSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	m.accountCursor = moveCursor(m.accountCursor, len(m.accounts), msg.Type)

	return m, nil
}

func (m ImportModel) selectedSchema() *schema.Schema {
	return m.schemas[m.schemaCursor]
}

func (m ImportModel) selectedAccount() *account.Account {
	return m.accounts[m.accountCursor]
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading schemas and accounts...")
	case importStateSchemaSelect:
		names := make([]string, len(m.schemas))
		for i, s := range m.schemas {
			names[i] = s.Name
		}

		return renderChoices("Select schema:", names, m.schemaCursor)
	case importStateAccountSelect:
		names := make([]string, len(m.accounts))
		for i, a := range m.accounts {
			names[i] = fmt.Sprintf("%s (%s)", a.Name, FormatAmount(a.Balance))
		}

		return renderChoices("Import into account:", names, m.accountCursor)
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement (%s -> %s):\n\n%s",
				m.selectedSchema().Name, m.selectedAccount().Name, m.filePicker.View()),
		)
	case importStatePreviewing, importStateConfirming:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		return lipgloss.NewStyle().Padding(1).Render(m.review.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func renderChoices(title string, options []string, cursor int) string {
	var b strings.Builder

	b.WriteString(title + "\n\n")

	for i, opt := range options {
		marker := " "
		if i == cursor {
			marker = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", marker, opt)
	}

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(formatStats(importer.ImportStats(m.imported))) + "\n\n(Esc to go back)")
}

func formatStats(st importer.Stats) string {
	return fmt.Sprintf(
		"Imported %d of %d rows\n\nprocessed   %d\nduplicates  %d\nerrors      %d\nsuccess     %.1f%%",
		st.ImportedRows, st.TotalRows, st.ProcessedRows, st.DuplicateRows, st.ErrorRows, st.SuccessRate,
	)
}

// Messages

type importOptionsMsg struct {
	schemas  []*schema.Schema
	accounts []*account.Account
	err      error
}

type previewResultMsg struct {
	result *importer.PreviewResult
	err    error
}

type confirmResultMsg struct {
	imported *importer.Import
	err      error
}

func (m ImportModel) loadOptionsCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		schemas, err := s.Schemas.List(ctx, s.UserID)
		if err != nil {
			return importOptionsMsg{err: err}
		}

		accounts, err := s.Accounts.List(ctx, s.UserID)
		if err != nil {
			return importOptionsMsg{err: err}
		}

		return importOptionsMsg{schemas: schemas, accounts: accounts}
	}
}

func (m ImportModel) previewCmd() tea.Cmd {
	s := m.session
	path := m.path
	sc := *m.selectedSchema()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := s.Importer.PreviewTransactions(ctx, f, sc, s.UserID)

		return previewResultMsg{result: result, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	s := m.session
	schemaID := m.selectedSchema().ID
	params := importer.ImportParams{
		UserID:       s.UserID,
		AccountID:    m.selectedAccount().ID,
		SchemaID:     &schemaID,
		Filename:     filepath.Base(m.path),
		TotalRows:    m.preview.TotalRows,
		Transactions: m.review.Reviewed(),
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		imp, err := s.Importer.ImportReviewedTransactions(ctx, params)

		return confirmResultMsg{imported: imp, err: err}
	}
}
