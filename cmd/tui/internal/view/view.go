package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/account"
	"github.com/MrJamesThe3rd/penny/internal/export"
	"github.com/MrJamesThe3rd/penny/internal/importer"
	"github.com/MrJamesThe3rd/penny/internal/matching"
	"github.com/MrJamesThe3rd/penny/internal/schema"
	"github.com/MrJamesThe3rd/penny/internal/tag"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Session is what every screen works with: the acting user and the services
// it may call.
type Session struct {
	UserID       uuid.UUID
	Accounts     *account.Service
	Schemas      *schema.Service
	Tags         *tag.Service
	Transactions *transaction.Service
	Matching     *matching.Service
	Importer     *importer.Service
	Export       *export.Service
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
