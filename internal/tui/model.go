// Package tui is a terminal front end over the watchlist, todo and media
// stores.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mediashelf/models"
	"mediashelf/services/media"
	"mediashelf/services/notify"
	"mediashelf/services/todos"
	"mediashelf/services/watchlist"
)

type tab int

const (
	tabMedia tab = iota
	tabWatchlist
	tabTodos
	tabCount
)

var tabNames = [tabCount]string{"Media", "Watchlist", "Todos"}

// Deps are the stores the UI reads and drives. Feed may be nil.
type Deps struct {
	Watchlist *watchlist.Store
	Todos     *todos.Store
	Media     *media.Store
	Feed      *notify.Feed
}

type Model struct {
	deps   Deps
	bridge *bridge
	keys   keyMap
	help   help.Model

	active    tab
	cursor    [tabCount]int
	search    textinput.Model
	todoInput textinput.Model
	typing    bool
	inputErr  string

	notice    notify.Notification
	noticeSeq int

	width, height int
}

func New(d Deps) Model {
	search := textinput.New()
	search.Prompt = "🔍 "
	search.Placeholder = "Search movies and shows..."
	search.CharLimit = 100

	todoInput := textinput.New()
	todoInput.Prompt = "> "
	todoInput.Placeholder = "What needs doing?"
	todoInput.CharLimit = 200

	return Model{
		deps:      d,
		bridge:    newBridge(d),
		keys:      defaultKeys(),
		help:      help.New(),
		search:    search,
		todoInput: todoInput,
		width:     80,
		height:    24,
	}
}

// Close detaches the model from the stores. Call it after the program exits.
func (m Model) Close() {
	m.bridge.close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.waitForChange, m.bridge.waitForNotification)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.clampCursors()
		return m, m.bridge.waitForChange

	case notificationMsg:
		m.notice = notify.Notification(msg)
		m.noticeSeq++
		cmds := []tea.Cmd{m.bridge.waitForNotification}
		if msg.Duration > 0 {
			seq := m.noticeSeq
			cmds = append(cmds, tea.Tick(msg.Duration, func(time.Time) tea.Msg { return dismissMsg{seq: seq} }))
		}
		return m, tea.Batch(cmds...)

	case dismissMsg:
		if msg.seq == m.noticeSeq {
			m.notice = notify.Notification{}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.typing {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.active = (m.active + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.active = (m.active + tabCount - 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.active] > 0 {
			m.cursor[m.active]--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.active] < m.rowCount(m.active)-1 {
			m.cursor[m.active]++
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel) && m.notice.Message != "":
		m.notice = notify.Notification{}
		return m, nil
	}

	switch m.active {
	case tabMedia:
		return m.updateMediaKeys(msg)
	case tabWatchlist:
		return m.updateWatchlistKeys(msg)
	default:
		return m.updateTodoKeys(msg)
	}
}

func (m Model) updateMediaKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.typing = true
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		m.search.SetValue("")
		m.deps.Media.ClearSearch()
		m.cursor[tabMedia] = 0
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		entries := mediaEntries(m.deps.Media.State().Snapshot())
		i := m.cursor[tabMedia]
		if i < 0 || i >= len(entries) {
			return m, nil
		}
		c := entries[i]
		if m.deps.Watchlist.IsInWatchlist(c.ID, c.Type) {
			m.deps.Watchlist.Remove(c.ID, c.Type)
		} else {
			m.deps.Watchlist.Add(c)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.deps.Watchlist.Items()
	i := m.cursor[tabWatchlist]
	if i < 0 || i >= len(items) {
		return m, nil
	}
	item := items[i]

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.deps.Watchlist.ToggleWatched(item.ID, item.Type)
	case key.Matches(msg, m.keys.Delete):
		m.deps.Watchlist.Remove(item.ID, item.Type)
		m.clampCursors()
	}
	return m, nil
}

func (m Model) updateTodoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.typing = true
		m.inputErr = ""
		m.todoInput.SetValue("")
		return m, m.todoInput.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.deps.Todos.SetFilter(m.deps.Todos.Filter().Next())
		m.cursor[tabTodos] = 0
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.deps.Todos.ClearCompleted()
		m.clampCursors()
		return m, nil
	}

	visible := m.deps.Todos.FilteredTodos()
	i := m.cursor[tabTodos]
	if i < 0 || i >= len(visible) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.deps.Todos.Toggle(visible[i].ID)
		m.clampCursors()
	case key.Matches(msg, m.keys.Delete):
		m.deps.Todos.Remove(visible[i].ID)
		m.clampCursors()
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.active == tabMedia {
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.deps.Media.Flush()
			m.stopTyping()
			m.cursor[tabMedia] = 0
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.stopTyping()
			return m, nil
		}

		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if after := m.search.Value(); after != before {
			m.deps.Media.Search(after)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		if _, ok := m.deps.Todos.Add(m.todoInput.Value()); !ok {
			m.inputErr = "Title cannot be empty"
			return m, nil
		}
		m.todoInput.SetValue("")
		m.stopTyping()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.todoInput.SetValue("")
		m.stopTyping()
		return m, nil
	}

	var cmd tea.Cmd
	m.todoInput, cmd = m.todoInput.Update(msg)
	return m, cmd
}

func (m *Model) stopTyping() {
	m.typing = false
	m.inputErr = ""
	m.search.Blur()
	m.todoInput.Blur()
}

func (m Model) rowCount(t tab) int {
	switch t {
	case tabMedia:
		return len(mediaEntries(m.deps.Media.State().Snapshot()))
	case tabWatchlist:
		return len(m.deps.Watchlist.State().Snapshot().Items)
	default:
		return len(todos.Filtered(m.deps.Todos.State().Snapshot()))
	}
}

func (m *Model) clampCursors() {
	for t := tab(0); t < tabCount; t++ {
		n := m.rowCount(t)
		if m.cursor[t] >= n {
			m.cursor[t] = n - 1
		}
		if m.cursor[t] < 0 {
			m.cursor[t] = 0
		}
	}
}

// mediaEntries lists the visible movies followed by the visible shows.
func mediaEntries(s media.State) []models.WatchlistCandidate {
	movies, shows := media.Movies(s), media.Shows(s)
	out := make([]models.WatchlistCandidate, 0, len(movies)+len(shows))
	for _, movie := range movies {
		out = append(out, movie.Candidate())
	}
	for _, show := range shows {
		out = append(out, show.Candidate())
	}
	return out
}

func year(date string) string {
	if len(date) >= 4 && !strings.HasPrefix(date, "0000") {
		return date[:4]
	}
	return ""
}
