// envsetup provides a lightweight .env configuration wizard.
// It runs automatically on first bot startup when no .env file exists,
// collecting the Discord token and database location.
package envsetup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	envFile            = ".env"
	defaultDatabaseURL = "./fidelbot.db"
)

type step int

const (
	stepWelcome step = iota
	stepDiscord
	stepDatabase
	stepGuild
	stepConfirm
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type model struct {
	step         step
	input        textinput.Model
	discordToken string
	databaseURL  string
	guildID      string
	path         string
	saved        bool
	err          error
}

func New() model {
	return newModel(envFile)
}

func newModel(path string) model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()

	return model{
		step:  stepWelcome,
		input: ti,
		path:  path,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepWelcome:
		m.next(stepDiscord, "")

	case stepDiscord:
		if value == "" {
			m.err = errors.New("Discord token is required")
			return m, nil
		}
		m.discordToken = value
		m.next(stepDatabase, defaultDatabaseURL)

	case stepDatabase:
		if value == "" {
			value = defaultDatabaseURL
		}
		m.databaseURL = value
		m.next(stepGuild, "")

	case stepGuild:
		m.guildID = value
		m.next(stepConfirm, "")

	case stepConfirm:
		switch strings.ToLower(value) {
		case "", "y", "yes":
			if err := m.writeEnvFile(); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		case "n", "no":
			return newModel(m.path), nil
		default:
			m.err = errors.New("Please answer y or n")
		}
	}

	return m, nil
}

func (m *model) next(s step, initial string) {
	m.step = s
	m.input.SetValue(initial)
	m.input.CursorEnd()
	if s == stepDiscord {
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '•'
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
}

func (m model) envContents() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DISCORD_TOKEN=%s\n", m.discordToken)
	fmt.Fprintf(&b, "DATABASE_URL=%s\n", m.databaseURL)
	if m.guildID != "" {
		fmt.Fprintf(&b, "DISCORD_GUILD_ID=%s\n", m.guildID)
	}
	b.WriteString("HISTORY_RETENTION=720h\n")
	return b.String()
}

func (m model) writeEnvFile() error {
	if err := os.WriteFile(m.path, []byte(m.envContents()), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", m.path, err)
	}
	return nil
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("fidelbot - Env Setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard will help you configure the bot.\n")
		s.WriteString("You'll need a Discord bot token. Everything else has a default.\n")
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))

	case stepDiscord:
		s.WriteString(titleStyle.Render("Step 1: Discord Bot Token"))
		s.WriteString("\n\n")
		s.WriteString("To get your Discord bot token:\n\n")
		s.WriteString("  1. Go to " + linkStyle.Render("https://discord.com/developers/applications") + "\n")
		s.WriteString("  2. Create a new application (or select existing)\n")
		s.WriteString("  3. Go to the Bot section\n")
		s.WriteString("  4. Click 'Reset Token' to get your bot token\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Paste your Discord token here:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())

	case stepDatabase:
		s.WriteString(titleStyle.Render("Step 2: History Database"))
		s.WriteString("\n\n")
		s.WriteString("Transliterations are kept so /history can show them.\n")
		s.WriteString("Use a file path for SQLite or a postgres:// URL.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Database URL:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())

	case stepGuild:
		s.WriteString(titleStyle.Render("Step 3: Test Server (optional)"))
		s.WriteString("\n\n")
		s.WriteString("Commands registered to a single server update instantly.\n")
		s.WriteString("Leave empty to register globally.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Server (guild) ID:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())

	case stepConfirm:
		guild := m.guildID
		if guild == "" {
			guild = "(global)"
		}
		s.WriteString(titleStyle.Render("Configuration Complete"))
		s.WriteString("\n\n")
		s.WriteString("Your configuration:\n\n")
		s.WriteString("  Discord:  " + successStyle.Render(maskToken(m.discordToken)) + "\n")
		s.WriteString("  Database: " + successStyle.Render(m.databaseURL) + "\n")
		s.WriteString("  Guild:    " + successStyle.Render(guild) + "\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Save this configuration? [Y/n]:"))
		s.WriteString("\n")
		s.WriteString(m.input.View())
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	s.WriteString("\n")
	return s.String()
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// Run starts the setup wizard and returns true if setup was completed successfully
func Run() (bool, error) {
	p := tea.NewProgram(New())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(model)
	return m.saved, nil
}

// NeedsSetup checks if .env file exists
func NeedsSetup() bool {
	_, err := os.Stat(envFile)
	return os.IsNotExist(err)
}
