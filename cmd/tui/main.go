package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/penny/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/penny/internal/account"
	accountStore "github.com/MrJamesThe3rd/penny/internal/account/store"
	"github.com/MrJamesThe3rd/penny/internal/config"
	"github.com/MrJamesThe3rd/penny/internal/database"
	"github.com/MrJamesThe3rd/penny/internal/export"
	"github.com/MrJamesThe3rd/penny/internal/importer"
	importStore "github.com/MrJamesThe3rd/penny/internal/importer/store"
	"github.com/MrJamesThe3rd/penny/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/penny/internal/matching/store"
	"github.com/MrJamesThe3rd/penny/internal/schema"
	schemaStore "github.com/MrJamesThe3rd/penny/internal/schema/store"
	"github.com/MrJamesThe3rd/penny/internal/tag"
	tagStore "github.com/MrJamesThe3rd/penny/internal/tag/store"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
	txStore "github.com/MrJamesThe3rd/penny/internal/transaction/store"
)

type screen struct {
	key   string
	label string
	open  func(view.Session) view.View
}

var screens = []screen{
	{"1", "Import Statement", func(s view.Session) view.View { return view.NewImportModel(s) }},
	{"2", "Import Schemas", func(s view.Session) view.View { return view.NewSchemasModel(s) }},
	{"3", "Transactions", func(s view.Session) view.View { return view.NewTransactionsModel(s) }},
	{"4", "Export Transactions", func(s view.Session) view.View { return view.NewExportModel(s) }},
}

type model struct {
	session view.Session
	size    tea.WindowSizeMsg

	// active is nil while the menu is shown.
	active view.View
}

// newSession connects to the database and wires the services the screens use.
func newSession(ctx context.Context, cfg *config.Config) (view.Session, *sql.DB, error) {
	userID, err := cfg.TUIUser()
	if err != nil {
		return view.Session{}, nil, fmt.Errorf("invalid TUI user: %w", err)
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return view.Session{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return view.Session{}, nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	accountSvc := account.NewService(accountStore.New(db))
	tagSvc := tag.NewService(tagStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), accountSvc)
	matchSvc := matching.NewService(matchingStore.New(db), tagSvc)

	return view.Session{
		UserID:       userID,
		Accounts:     accountSvc,
		Schemas:      schema.NewService(schemaStore.New(db)),
		Tags:         tagSvc,
		Transactions: txSvc,
		Matching:     matchSvc,
		Importer:     importer.NewService(importStore.New(db), txSvc, accountSvc, tagSvc, matchSvc),
		Export:       export.NewService(txSvc),
	}, db, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.active = nil
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.active == nil {
			return m.updateMenu(msg)
		}
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	m.active = next.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, s := range screens {
		if msg.String() != s.key {
			continue
		}

		m.active = s.open(m.session)
		cmd := m.active.Init()

		// Screens size their lists from the first WindowSizeMsg they see.
		if m.size.Width > 0 {
			next, sizeCmd := m.active.Update(m.size)
			m.active = next.(view.View)
			cmd = tea.Batch(cmd, sizeCmd)
		}

		return m, cmd
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Faint(true).PaddingLeft(1)
)

func (m model) View() string {
	if m.active != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Padding(1, 1, 0).Render(titleStyle.Render(m.active.Title())),
			m.active.View(),
			helpStyle.Render(m.active.ShortHelp()),
		)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Penny") + "\n\n")

	for _, s := range screens {
		fmt.Fprintf(&b, "%s. %s\n", s.key, s.label)
	}

	b.WriteString("\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	session, db, err := newSession(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = tea.NewProgram(model{session: session}, tea.WithAltScreen()).Run()

	return err
}

func main() {
	if err := run(); err != nil {
		slog.Error("tui failed", "error", err)
		os.Exit(1)
	}
}
