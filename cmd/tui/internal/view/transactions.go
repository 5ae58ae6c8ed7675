package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/tag"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

type txItem struct {
	tx   *transaction.Transaction
	tags string
}

func (i txItem) Title() string {
	return fmt.Sprintf("%s  %10s  %s",
		FormatDate(i.tx.Date), FormatMovement(i.tx.PaidIn, i.tx.PaidOut), deref(i.tx.Description))
}

func (i txItem) Description() string {
	if i.tags == "" {
		return "balance " + FormatAmount(i.tx.Balance)
	}

	return fmt.Sprintf("balance %s  tags: %s", FormatAmount(i.tx.Balance), i.tags)
}

func (i txItem) FilterValue() string { return deref(i.tx.Description) }

// tagNames renders ids using names, skipping tags that no longer exist.
func tagNames(ids []uuid.UUID, names map[uuid.UUID]string) string {
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if n, ok := names[id]; ok {
			out = append(out, n)
		}
	}

	return strings.Join(out, ", ")
}

var errNoRuleTag = errors.New("pick a tag or name a new one")

// ruleDraft is bound to the tag rule form.
type ruleDraft struct {
	pattern string
	tagID   string
	newTag  string
}

// target returns the existing tag to use, or the name of one to create.
func (d ruleDraft) target() (uuid.UUID, string, error) {
	if d.tagID != "" {
		id, err := uuid.Parse(d.tagID)
		return id, "", err
	}

	if name := strings.TrimSpace(d.newTag); name != "" {
		return uuid.Nil, name, nil
	}

	return uuid.Nil, "", errNoRuleTag
}

var txKeys = struct {
	rule   key.Binding
	delete key.Binding
}{
	rule:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "tag rule")),
	delete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
}

type TransactionsModel struct {
	session Session

	period  TimeframePicker
	filter  *transaction.ListFilter
	list    list.Model
	tags    []*tag.Tag
	loading bool
	status  string

	rule    *huh.Form
	draft   *ruleDraft
	ruleFor *transaction.Transaction
}

func NewTransactionsModel(session Session) TransactionsModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Transactions"
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{txKeys.rule, txKeys.delete}
	}

	return TransactionsModel{
		session: session,
		period:  NewTimeframePicker(TimeframeThisMonth),
		list:    l,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch {
	case m.filter == nil:
		return "Esc: back | Enter: select"
	case m.rule != nil:
		return "Esc: cancel | Tab: next field"
	default:
		return "Esc: back | /: filter"
	}
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		f := msg.Filter(transaction.ListFilter{})
		m.filter = &f
		m.loading = true

		return m, loadTxsCmd(m.session, f)

	case loadTxsMsg:
		m.loading = false
		m.status = ""

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.tags = msg.tags
		m.list.SetItems(txItems(msg.txs, msg.tags))

		if len(msg.txs) == 0 {
			m.status = "No transactions in this period."
		}

		return m, nil

	case txActionMsg:
		m.rule, m.draft, m.ruleFor = nil, nil, nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, loadTxsCmd(m.session, *m.filter)

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	var cmd tea.Cmd

	switch {
	case m.filter == nil:
		m.period, cmd = m.period.Step(msg)
	case m.rule != nil:
		return m.updateRule(msg)
	default:
		return m.updateList(msg)
	}

	return m, cmd
}

func txItems(txs []*transaction.Transaction, tags []*tag.Tag) []list.Item {
	names := make(map[uuid.UUID]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	items := make([]list.Item, len(txs))
	for i, tx := range txs {
		items[i] = txItem{tx: tx, tags: tagNames(tx.TagIDs, names)}
	}

	return items
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)

		return m, cmd
	}

	item, hasItem := m.list.SelectedItem().(txItem)

	switch {
	case keyMsg.Type == tea.KeyEsc && m.list.FilterState() == list.Unfiltered:
		m.filter = nil
		m.period.Reset()

		return m, nil
	case key.Matches(keyMsg, txKeys.rule) && hasItem:
		m.ruleFor = item.tx
		m.draft = &ruleDraft{pattern: deref(item.tx.Description)}
		m.rule = m.ruleForm()

		return m, m.rule.Init()
	case key.Matches(keyMsg, txKeys.delete) && hasItem:
		return m, deleteTxCmd(m.session, item.tx.ID)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) ruleForm() *huh.Form {
	options := []huh.Option[string]{huh.NewOption("New tag...", "")}
	for _, t := range m.tags {
		options = append(options, huh.NewOption(t.Name, t.ID.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Descriptions containing").
				Value(&m.draft.pattern).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("pattern cannot be empty")
					}

					return nil
				}),
			huh.NewSelect[string]().
				Title("Tag").
				Options(options...).
				Value(&m.draft.tagID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("New tag name").
				Value(&m.draft.newTag),
		).WithHideFunc(func() bool { return m.draft.tagID != "" }),
	).WithWidth(50).WithShowHelp(false)
}

func (m TransactionsModel) updateRule(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.rule, m.draft, m.ruleFor = nil, nil, nil
		return m, nil
	}

	next, cmd := m.rule.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.rule = f
	}

	if m.rule.State == huh.StateCompleted {
		return m, learnCmd(m.session, *m.draft)
	}

	return m, cmd
}

func (m TransactionsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.filter == nil:
		return style.Render(m.period.View())
	case m.loading:
		return style.Render("Loading transactions...")
	case m.rule != nil:
		return style.Render(m.ruleHeader() + "\n" + m.rule.View())
	}

	var status string
	if m.status != "" {
		status = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	return style.Render(status + m.list.View())
}

func (m TransactionsModel) ruleHeader() string {
	tx := m.ruleFor

	return boxStyle.Render(fmt.Sprintf("%s  %s  balance %s\n%s",
		FormatDate(tx.Date), FormatMovement(tx.PaidIn, tx.PaidOut), FormatAmount(tx.Balance), deref(tx.Description)))
}

type loadTxsMsg struct {
	txs  []*transaction.Transaction
	tags []*tag.Tag
	err  error
}

type txActionMsg struct {
	status string
	err    error
}

func loadTxsCmd(s Session, filter transaction.ListFilter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := s.Transactions.List(ctx, s.UserID, filter)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		tags, err := s.Tags.List(ctx, s.UserID)

		return loadTxsMsg{txs: txs, tags: tags, err: err}
	}
}

// learnCmd stores a tag rule, creating the tag first when the draft names a
// new one.
func learnCmd(s Session, d ruleDraft) tea.Cmd {
	return func() tea.Msg {
		tagID, newName, err := d.target()
		if err != nil {
			return txActionMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if newName != "" {
			created, err := s.Tags.Create(ctx, s.UserID, newName)
			if err != nil {
				return txActionMsg{err: err}
			}

			tagID = created.ID
		}

		pattern := strings.TrimSpace(d.pattern)

		if _, err := s.Matching.Learn(ctx, s.UserID, pattern, tagID); err != nil {
			return txActionMsg{err: err}
		}

		return txActionMsg{status: fmt.Sprintf("Future imports matching %q will be tagged.", pattern)}
	}
}

func deleteTxCmd(s Session, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := s.Transactions.Delete(ctx, s.UserID, id); err != nil {
			return txActionMsg{err: err}
		}

		return txActionMsg{status: "Deleted."}
	}
}
