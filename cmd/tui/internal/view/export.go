package view

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/penny/internal/export"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

const (
	defaultExportPath = "./transactions.csv"
	exportTimeout     = 2 * time.Minute
)

type exportStep int

const (
	exportPickPeriod exportStep = iota
	exportPickTarget
	exportWriting
	exportDone
)

// exportTarget is bound to the target form.
type exportTarget struct {
	path      string
	overwrite bool
}

// resolved is the trimmed path, or the default when left blank.
func (t *exportTarget) resolved() string {
	if p := strings.TrimSpace(t.path); p != "" {
		return p
	}

	return defaultExportPath
}

type ExportModel struct {
	session Session

	step   exportStep
	period TimeframePicker
	filter transaction.ListFilter

	target  *exportTarget
	form    *huh.Form
	spinner spinner.Model

	done exportDoneMsg
}

func NewExportModel(session Session) ExportModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		session: session,
		period:  NewTimeframePicker(TimeframeThisMonth),
		target:  &exportTarget{path: defaultExportPath},
		spinner: sp,
	}
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportWriting:
		return "Writing..."
	case exportDone:
		return "Esc: back to menu"
	default:
		return "Esc: back | Enter: confirm"
	}
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter = msg.Filter(transaction.ListFilter{})
		m.form = m.targetForm()
		m.step = exportPickTarget

		return m, m.form.Init()

	case exportDoneMsg:
		m.done = msg
		m.step = exportDone

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.step == exportDone {
			return m, Back
		}
	}

	var cmd tea.Cmd

	switch m.step {
	case exportPickPeriod:
		m.period, cmd = m.period.Step(msg)
	case exportPickTarget:
		return m.stepTarget(msg)
	case exportWriting:
		m.spinner, cmd = m.spinner.Update(msg)
	}

	return m, cmd
}

func (m ExportModel) stepTarget(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.period.Reset()
		m.step = exportPickPeriod

		return m, nil
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
	case huh.StateAborted:
		return m, Back
	default:
		return m, cmd
	}

	if !m.target.overwrite && fileExists(m.target.resolved()) {
		m.form = m.targetForm()
		return m, m.form.Init()
	}

	m.step = exportWriting

	return m, tea.Batch(m.spinner.Tick, exportCmd(m.session, m.filter, m.target.resolved()))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// targetForm asks for the output file, plus an overwrite confirmation when
// the file is already there.
func (m ExportModel) targetForm() *huh.Form {
	m.target.overwrite = false

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file").
				Description("Missing directories are created").
				Placeholder(defaultExportPath).
				Value(&m.target.path),
		),
		huh.NewGroup(
			huh.NewConfirm().
				TitleFunc(func() string {
					return m.target.resolved() + " exists. Overwrite?"
				}, &m.target.path).
				Affirmative("Overwrite").
				Negative("Change path").
				Value(&m.target.overwrite),
		).WithHideFunc(func() bool {
			return !fileExists(m.target.resolved())
		}),
	).WithWidth(50).WithShowHelp(false)
}

var boxStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func (m ExportModel) View() string {
	var body string

	switch m.step {
	case exportPickPeriod:
		body = m.period.View()
	case exportPickTarget:
		body = m.form.View()
	case exportWriting:
		body = m.spinner.View() + " Writing " + m.target.resolved() + "..."
	case exportDone:
		body = m.done.view()
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

type exportDoneMsg struct {
	path    string
	summary export.Summary
	err     error
}

func (msg exportDoneMsg) view() string {
	if msg.err != nil {
		return errorStyle.Render(fmt.Sprintf("Export failed: %v", msg.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Bold(true).Render("Exported to "+msg.path),
		"",
		boxStyle.Render(msg.summary.String()),
	)
}

func exportCmd(s Session, filter transaction.ListFilter, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		summary, err := writeExport(ctx, s, filter, path)

		return exportDoneMsg{path: path, summary: summary, err: err}
	}
}

// writeExport writes the CSV to path, creating parent directories. A failed
// export leaves no file behind.
func writeExport(ctx context.Context, s Session, filter transaction.ListFilter, path string) (summary export.Summary, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return export.Summary{}, fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return export.Summary{}, fmt.Errorf("creating file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}

		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return s.Export.Export(ctx, s.UserID, filter, f)
}
