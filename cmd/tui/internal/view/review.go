package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/penny/internal/importer"
)

// reviewSet holds the user's decision for every previewed row. Duplicates
// start as duplicate, everything else as approved.
type reviewSet struct {
	rows     []importer.PreviewTransaction
	statuses []importer.ReviewStatus
}

func newReviewSet(rows []importer.PreviewTransaction) *reviewSet {
	rs := &reviewSet{rows: rows, statuses: make([]importer.ReviewStatus, len(rows))}

	for i, r := range rows {
		if r.IsDuplicate {
			rs.statuses[i] = importer.ReviewDuplicate
			continue
		}

		rs.statuses[i] = importer.ReviewApproved
	}

	return rs
}

// toggle flips a row between approved and discarded. A duplicate becomes
// approved so it can be forced through.
func (rs *reviewSet) toggle(i int) {
	if i < 0 || i >= len(rs.statuses) {
		return
	}

	if rs.statuses[i] == importer.ReviewApproved {
		rs.statuses[i] = importer.ReviewDiscarded
		return
	}

	rs.statuses[i] = importer.ReviewApproved
}

// setAll applies status to every row that is not a duplicate.
func (rs *reviewSet) setAll(status importer.ReviewStatus) {
	for i, r := range rs.rows {
		if !r.IsDuplicate {
			rs.statuses[i] = status
		}
	}
}

func (rs *reviewSet) approved() int {
	n := 0

	for _, s := range rs.statuses {
		if s == importer.ReviewApproved {
			n++
		}
	}

	return n
}

// reviewed returns the rows with their decisions and suggested tags, ready
// to confirm.
func (rs *reviewSet) reviewed() []importer.ReviewedTransaction {
	out := make([]importer.ReviewedTransaction, len(rs.rows))

	for i, r := range rs.rows {
		out[i] = importer.ReviewedTransaction{
			CanonicalTransaction: r.CanonicalTransaction,
			Status:               rs.statuses[i],
			TagIDs:               r.SuggestedTagIDs,
		}
	}

	return out
}

type ReviewModel struct {
	set  *reviewSet
	list list.Model
}

func NewReviewModel(preview *importer.PreviewResult) ReviewModel {
	set := newReviewSet(preview.Transactions)

	items := make([]list.Item, len(preview.Transactions))
	for i, tx := range preview.Transactions {
		items[i] = reviewItem{tx: tx, index: i}
	}

	l := list.New(items, reviewDelegate{set: set}, 80, 20)
	l.Title = fmt.Sprintf("Review %d rows (%d duplicates, %d errors)",
		preview.TotalRows, preview.DuplicateCount, len(preview.Errors))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return ReviewModel{set: set, list: l}
}

func (m ReviewModel) Title() string { return "Review Transactions" }

func (m ReviewModel) ShortHelp() string {
	return "Space: toggle | a: approve all | n: discard all | Enter: import | Esc: cancel"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update handles row toggles; Enter and Esc are left to the parent.
func (m ReviewModel) Update(msg tea.Msg) (ReviewModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case " ":
			m.set.toggle(m.list.Index())
			return m, nil
		case "a":
			m.set.setAll(importer.ReviewApproved)
			return m, nil
		case "n":
			m.set.setAll(importer.ReviewDiscarded)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ReviewModel) View() string {
	footer := lipgloss.NewStyle().Faint(true).
		Render(fmt.Sprintf("%d of %d rows will be imported", m.set.approved(), len(m.set.rows)))

	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), footer)
}

func (m ReviewModel) Reviewed() []importer.ReviewedTransaction {
	return m.set.reviewed()
}

type reviewItem struct {
	tx    importer.PreviewTransaction
	index int
}

func (i reviewItem) FilterValue() string { return deref(i.tx.Description) }

type reviewDelegate struct {
	set *reviewSet
}

func (d reviewDelegate) Height() int                             { return 2 }
func (d reviewDelegate) Spacing() int                            { return 0 }
func (d reviewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

var (
	approvedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	discardedStyle = lipgloss.NewStyle().Faint(true)
	duplicateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (d reviewDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(reviewItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	var mark string

	switch d.set.statuses[item.index] {
	case importer.ReviewApproved:
		mark = approvedStyle.Render("[x]")
	case importer.ReviewDuplicate:
		mark = duplicateStyle.Render("[=]")
	default:
		mark = discardedStyle.Render("[ ]")
	}

	tx := item.tx

	line1 := fmt.Sprintf("%s%s %4d  %s  %10s  %s",
		cursor, mark, tx.RowNumber, tx.Date, FormatMovement(tx.PaidIn, tx.PaidOut), deref(tx.Description))

	line2 := fmt.Sprintf("           balance %s", FormatAmount(tx.Balance))
	if tx.IsDuplicate {
		line2 += duplicateStyle.Render(fmt.Sprintf("  duplicate (%s)", tx.DuplicateReason))
	}

	if len(tx.SuggestedTagIDs) > 0 {
		line2 += fmt.Sprintf("  %d suggested tags", len(tx.SuggestedTagIDs))
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}
