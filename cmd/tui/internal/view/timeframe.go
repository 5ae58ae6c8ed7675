package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

// Timeframe is a statement period offered by the picker.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeLastThreeMonths
	TimeframeThisYear
	TimeframeLastYear
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = map[Timeframe]string{
	TimeframeThisMonth:       "This Month",
	TimeframeLastMonth:       "Last Month",
	TimeframeLastThreeMonths: "Last 3 Months",
	TimeframeThisYear:        "This Year",
	TimeframeLastYear:        "Last Year",
	TimeframeAll:             "All Time",
	TimeframeCustom:          "Custom Range",
}

func (t Timeframe) String() string {
	if label, ok := timeframeLabels[t]; ok {
		return label
	}

	return "Unknown"
}

// dateRange resolves a period to whole days relative to now. Ranges ending
// "now" stop at today.
func dateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	today := day(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	switch tf {
	case TimeframeThisMonth:
		return monthStart, today
	case TimeframeLastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart.AddDate(0, 0, -1)
	case TimeframeLastThreeMonths:
		return monthStart.AddDate(0, -2, 0), today
	case TimeframeThisYear:
		return yearStart, today
	case TimeframeLastYear:
		return yearStart.AddDate(-1, 0, 0), yearStart.AddDate(0, 0, -1)
	}

	return time.Time{}, time.Time{}
}

// day truncates to midnight UTC, the form transaction dates are stored in.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseRange reads a custom range typed in any supported date format.
func parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := dateparse.ParseTime(rawStart, "")
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}

	end, err := dateparse.ParseTime(rawEnd, "")
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	return start, end, nil
}

// TimeframeSelectedMsg is emitted once a valid range is chosen. Start and End
// are zero when All is true.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// Filter narrows base to the selected dates. Both ends are inclusive.
func (msg TimeframeSelectedMsg) Filter(base transaction.ListFilter) transaction.ListFilter {
	if msg.All {
		return base
	}

	base.StartDate = new(msg.Start)
	base.EndDate = new(msg.End)

	return base
}

// customRange holds the custom form input. It lives behind a pointer so the
// form keeps writing to it after the picker is copied.
type customRange struct {
	start string
	end   string
}

// TimeframePicker lets the user pick a statement period or type a range.
type TimeframePicker struct {
	initial Timeframe
	cursor  Timeframe

	form  *huh.Form
	input *customRange

	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	return TimeframePicker{initial: initial, cursor: initial}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.form != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > TimeframeThisMonth {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < TimeframeCustom {
			m.cursor++
		}
	case tea.KeyEnter:
		return m.choose()
	}

	return m, nil
}

func (m TimeframePicker) choose() (TimeframePicker, tea.Cmd) {
	switch m.cursor {
	case TimeframeCustom:
		m.input = &customRange{}
		m.form = m.customForm()

		return m, m.form.Init()
	case TimeframeAll:
		return m, selected(TimeframeSelectedMsg{All: true})
	}

	start, end := dateRange(m.cursor, time.Now())

	return m, selected(TimeframeSelectedMsg{Start: start, End: end})
}

func selected(msg TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func validDate(s string) error {
	_, err := dateparse.ParseTime(s, "")
	return err
}

func (m TimeframePicker) customForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("2024-01-01 or 1 Jan 2024").
				Value(&m.input.start).
				Validate(validDate),
			huh.NewInput().
				Title("To").
				Placeholder("2024-01-31").
				Value(&m.input.end).
				Validate(validDate),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.err = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.submitCustom()
}

// submitCustom emits the typed range, or reopens the form with the error.
func (m TimeframePicker) submitCustom() (TimeframePicker, tea.Cmd) {
	start, end, err := parseRange(m.input.start, m.input.end)
	if err != nil {
		m.err = err
		m.form = m.customForm()

		return m, m.form.Init()
	}

	m.err = nil
	m.form = nil

	return m, selected(TimeframeSelectedMsg{Start: start, End: end})
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.form != nil {
		b.WriteString("Custom range:\n\n" + m.form.View() + "\n(Esc to go back)")
	} else {
		b.WriteString("Select period:\n\n")

		for tf := TimeframeThisMonth; tf <= TimeframeCustom; tf++ {
			marker := " "
			if tf == m.cursor {
				marker = ">"
			}

			fmt.Fprintf(&b, "%s %s\n", marker, tf)
		}

		b.WriteString("\n(Enter to select, Esc to back)")
	}

	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err)))
	}

	return b.String()
}

// Step is Update for a screen hosting the picker: Esc on the period list
// leaves the screen.
func (m TimeframePicker) Step(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.IsSelecting() {
		return m, Back
	}

	return m.Update(msg)
}

// IsSelecting reports whether the period list, not the custom form, is shown.
func (m TimeframePicker) IsSelecting() bool {
	return m.form == nil
}

// Reset returns the picker to its initial period.
func (m *TimeframePicker) Reset() {
	m.cursor = m.initial
	m.form = nil
	m.input = nil
	m.err = nil
}
