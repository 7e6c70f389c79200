package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"wpn/internal/models"
)

// CorpusFetcher supplies the dashboard's data: a full aggregation pass
// across every channel.
type CorpusFetcher interface {
	AllChannelsData(ctx context.Context) (models.Corpus, []models.ChannelFailure, error)
}

// Model represents the dashboard state.
type Model struct {
	ctx       context.Context
	fetcher   CorpusFetcher
	delimiter string

	corpus   models.Corpus
	failures []models.ChannelFailure
	loading  bool
	err      error

	filter   textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	width  int
	height int
	ready  bool
}

type corpusFetchedMsg struct {
	corpus   models.Corpus
	failures []models.ChannelFailure
	err      error
}

// NewModel creates a dashboard model backed by the given fetcher.
func NewModel(ctx context.Context, fetcher CorpusFetcher, delimiter string) *Model {
	filter := textinput.New()
	filter.Placeholder = "Filter by channel, artist, or song..."
	filter.Prompt = "Filter: "

	return &Model{
		ctx:       ctx,
		fetcher:   fetcher,
		delimiter: delimiter,
		loading:   true,
		filter:    filter,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init kicks off the first aggregation pass.
func (m *Model) Init() tea.Cmd {
	return m.fetchCorpus()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.renderCards())
		return m, nil

	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.handleFilterKeys(msg)
		}
		return m.handleBrowseKeys(msg)

	case corpusFetchedMsg:
		m.loading = false
		m.corpus = msg.corpus
		m.failures = msg.failures
		m.err = msg.err
		if m.ready {
			m.viewport.SetContent(m.renderCards())
			m.viewport.GotoTop()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.loading = true
		return m, m.fetchCorpus()
	case "f", "/":
		m.filter.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.filter.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.ready {
		m.viewport.SetContent(m.renderCards())
	}
	return m, cmd
}

// View renders the dashboard: instructions, filter, cards and help.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("What's Playing Now"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Refreshing channel data...\n")
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	if len(m.failures) > 0 {
		b.WriteString(styles.warn.Render(fmt.Sprintf("%d channel(s) unavailable", len(m.failures))))
		b.WriteString("\n")
	}

	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

// renderCards builds the colored channel cards, honoring the filter text.
func (m *Model) renderCards() string {
	filter := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	var b strings.Builder
	for i, channelSongs := range m.corpus {
		if !matchesFilter(channelSongs, filter) {
			continue
		}

		color := cardColor(i)
		name := NewBold(string(color)).Render(channelSongs.Channel.Name)
		body := NewStyle(string(color))

		b.WriteString(name)
		b.WriteString("\n")
		b.WriteString(body.Render("Now Playing: " + channelSongs.Current.Display(m.delimiter)))
		b.WriteString("\n")

		if len(channelSongs.Previous) > 0 {
			b.WriteString("Previous Songs:\n")
			for _, song := range channelSongs.Previous {
				b.WriteString(body.Render("  • " + song.Display(m.delimiter)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return "No channels match the current filter.\n"
	}

	return b.String()
}

// matchesFilter reports whether a channel card should be shown: an empty
// filter shows everything, otherwise the channel name or any song title or
// artist must contain the filter text.
func matchesFilter(channelSongs models.ChannelSongs, filter string) bool {
	if filter == "" {
		return true
	}

	if strings.Contains(strings.ToLower(channelSongs.Channel.Name), filter) {
		return true
	}

	for _, song := range channelSongs.AllSongs() {
		if strings.Contains(strings.ToLower(song.Title), filter) ||
			strings.Contains(strings.ToLower(song.Artist), filter) {
			return true
		}
	}

	return false
}

func (m *Model) fetchCorpus() tea.Cmd {
	return func() tea.Msg {
		corpus, failures, err := m.fetcher.AllChannelsData(m.ctx)
		return corpusFetchedMsg{corpus: corpus, failures: failures, err: err}
	}
}
