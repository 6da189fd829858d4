package envsetup

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, m model, text string) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(model)
}

func pressEnter(t *testing.T, m model) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model), cmd
}

func TestWizardWritesEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	m := newModel(path)

	m, _ = pressEnter(t, m)
	require.Equal(t, stepDiscord, m.step)

	m = typeText(t, m, "discord-token-123456")
	m, _ = pressEnter(t, m)
	require.Equal(t, stepDatabase, m.step)
	assert.Equal(t, defaultDatabaseURL, m.input.Value())

	m, _ = pressEnter(t, m)
	require.Equal(t, stepGuild, m.step)

	m = typeText(t, m, "guild-42")
	m, _ = pressEnter(t, m)
	require.Equal(t, stepConfirm, m.step)

	m, cmd := pressEnter(t, m)
	require.NoError(t, m.err)
	assert.True(t, m.saved)
	assert.NotNil(t, cmd)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DISCORD_TOKEN=discord-token-123456\nDATABASE_URL=./fidelbot.db\nDISCORD_GUILD_ID=guild-42\nHISTORY_RETENTION=720h\n", string(content))
}

func TestWizardRequiresToken(t *testing.T) {
	m := newModel(filepath.Join(t.TempDir(), ".env"))
	m, _ = pressEnter(t, m)
	m, _ = pressEnter(t, m)

	assert.Equal(t, stepDiscord, m.step)
	assert.EqualError(t, m.err, "Discord token is required")
}

func TestWizardDeclineRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	m := newModel(path)
	m, _ = pressEnter(t, m)
	m = typeText(t, m, "token")
	m, _ = pressEnter(t, m)
	m, _ = pressEnter(t, m)
	m, _ = pressEnter(t, m)
	m = typeText(t, m, "n")
	m, _ = pressEnter(t, m)

	assert.Equal(t, stepWelcome, m.step)
	assert.Empty(t, m.discordToken)
	assert.NoFileExists(t, path)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "abcd**mnop", maskToken("abcdXYmnop"))
}
