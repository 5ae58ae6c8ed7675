package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

type schemasState int

const (
	schemasStateBrowse schemasState = iota
	schemasStateCreate
)

// schemaForm holds the raw form input. Column fields are 1-based indices;
// blank means unmapped.
type schemaForm struct {
	Name        string
	DataStart   string
	Date        string
	Balance     string
	Amount      string
	PaidIn      string
	PaidOut     string
	Description string
	DateFormat  string
}

func columnValue(label, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a column number", label)
	}

	return n, nil
}

func validColumn(s string) error {
	_, err := columnValue("value", s)
	return err
}

// toSchema converts the form into a schema and validates it.
func (f schemaForm) toSchema(userID uuid.UUID) (schema.Schema, error) {
	sc := schema.Schema{
		UserID:     userID,
		Name:       strings.TrimSpace(f.Name),
		DateFormat: dateparse.Format(f.DateFormat),
	}

	if sc.Name == "" {
		return schema.Schema{}, errors.New("name is required")
	}

	fields := []struct {
		label string
		raw   string
		dst   *int
	}{
		{"data start row", f.DataStart, &sc.TransactionDataStart},
		{"date column", f.Date, &sc.DateColumn},
		{"balance column", f.Balance, &sc.BalanceColumn},
		{"amount column", f.Amount, &sc.AmountColumn},
		{"paid in column", f.PaidIn, &sc.PaidInColumn},
		{"paid out column", f.PaidOut, &sc.PaidOutColumn},
		{"description column", f.Description, &sc.DescriptionColumn},
	}

	for _, fld := range fields {
		n, err := columnValue(fld.label, fld.raw)
		if err != nil {
			return schema.Schema{}, err
		}

		*fld.dst = n
	}

	if err := sc.Validate(); err != nil {
		return schema.Schema{}, err
	}

	return sc, nil
}

type SchemasModel struct {
	session Session

	state   schemasState
	table   table.Model
	schemas []*schema.Schema
	form    *huh.Form
	input   *schemaForm

	loading bool
	err     error
	status  string
}

func NewSchemasModel(session Session) SchemasModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Start", Width: 6},
		{Title: "Date", Width: 5},
		{Title: "Balance", Width: 8},
		{Title: "Amount", Width: 14},
		{Title: "Desc", Width: 5},
		{Title: "Date Format", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return SchemasModel{
		session: session,
		table:   t,
		loading: true,
	}
}

func (m SchemasModel) Title() string { return "Import Schemas" }

func (m SchemasModel) ShortHelp() string {
	if m.state == schemasStateCreate {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | c: clone | d: delete | r: refresh"
}

func (m SchemasModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SchemasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSchemasMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.schemas = msg.schemas
		m.refreshTable()

		return m, nil

	case schemaSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = schemasStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case schemasStateBrowse:
		return m.updateBrowse(msg)
	case schemasStateCreate:
		return m.updateCreate(msg)
	}

	return m, nil
}

func (m SchemasModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterCreateMode()
		case "c":
			if sc := m.selected(); sc != nil {
				return m, m.cloneCmd(sc.ID)
			}

			return m, nil
		case "d":
			if sc := m.selected(); sc != nil {
				return m, m.deleteCmd(sc)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SchemasModel) selected() *schema.Schema {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.schemas) {
		return nil
	}

	return m.schemas[idx]
}

func (m SchemasModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.input = &schemaForm{DataStart: "2"}

	formats := []huh.Option[string]{huh.NewOption("Detect from file", "")}
	for _, f := range dateparse.Formats() {
		formats = append(formats, huh.NewOption(string(f), string(f)))
	}

	column := func(title string, v *string) huh.Field {
		return huh.NewInput().Title(title).Value(v).Validate(validColumn)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.input.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}

					return nil
				}),
			column("Data starts at row", &m.input.DataStart),
			column("Date column", &m.input.Date),
			column("Balance column", &m.input.Balance),
		),
		huh.NewGroup(
			column("Amount column (signed)", &m.input.Amount),
			column("Paid in column", &m.input.PaidIn),
			column("Paid out column", &m.input.PaidOut),
			column("Description column", &m.input.Description),
			huh.NewSelect[string]().
				Title("Date format").
				Options(formats...).
				Value(&m.input.DateFormat),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = schemasStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m SchemasModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = schemasStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd(*m.input)
}

func (m SchemasModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading schemas...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.state == schemasStateCreate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Schema\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func columnCell(col int) string {
	if col == 0 {
		return "-"
	}

	return strconv.Itoa(col)
}

func amountCell(sc *schema.Schema) string {
	if sc.UsesSingleAmountColumn() {
		return columnCell(sc.AmountColumn)
	}

	return fmt.Sprintf("in %s / out %s", columnCell(sc.PaidInColumn), columnCell(sc.PaidOutColumn))
}

func (m *SchemasModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.schemas))

	for _, sc := range m.schemas {
		format := string(sc.DateFormat)
		if format == "" {
			format = "detect"
		}

		rows = append(rows, table.Row{
			sc.Name,
			strconv.Itoa(sc.TransactionDataStart),
			columnCell(sc.DateColumn),
			columnCell(sc.BalanceColumn),
			amountCell(sc),
			columnCell(sc.DescriptionColumn),
			format,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadSchemasMsg struct {
	schemas []*schema.Schema
	err     error
}

type schemaSavedMsg struct {
	status string
	err    error
}

func (m SchemasModel) loadCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		schemas, err := s.Schemas.List(ctx, s.UserID)

		return loadSchemasMsg{schemas: schemas, err: err}
	}
}

func (m SchemasModel) createCmd(input schemaForm) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		sc, err := input.toSchema(s.UserID)
		if err != nil {
			return schemaSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if err := s.Schemas.Create(ctx, &sc); err != nil {
			return schemaSavedMsg{err: err}
		}

		return schemaSavedMsg{status: fmt.Sprintf("Created %q", sc.Name)}
	}
}

func (m SchemasModel) cloneCmd(id uuid.UUID) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		clone, err := s.Schemas.Clone(ctx, s.UserID, id, "")
		if err != nil {
			return schemaSavedMsg{err: err}
		}

		return schemaSavedMsg{status: fmt.Sprintf("Cloned as %q", clone.Name)}
	}
}

func (m SchemasModel) deleteCmd(sc *schema.Schema) tea.Cmd {
	s := m.session
	id, name := sc.ID, sc.Name

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := s.Schemas.Delete(ctx, s.UserID, id); err != nil {
			return schemaSavedMsg{err: err}
		}

		return schemaSavedMsg{status: fmt.Sprintf("Deleted %q", name)}
	}
}
