package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mediashelf/models"
	"mediashelf/services/media"
	"mediashelf/services/todos"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.active {
	case tabMedia:
		b.WriteString(m.renderMedia())
	case tabWatchlist:
		b.WriteString(m.renderWatchlist())
	default:
		b.WriteString(m.renderTodos())
	}

	if m.notice.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(noticeStyle.Render(m.notice.Message))
		if m.notice.Action != "" {
			b.WriteString(" " + mutedStyle.Render("["+m.notice.Action+": esc]"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(tabKeys{keys: m.keys, active: m.active, typing: m.typing}))

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return panelStyle.Width(width).Render(b.String())
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for t := tab(0); t < tabCount; t++ {
		label := tabNames[t]
		switch t {
		case tabWatchlist:
			label = fmt.Sprintf("%s (%d)", label, len(m.deps.Watchlist.State().Snapshot().Items))
		case tabTodos:
			label = fmt.Sprintf("%s (%d)", label, todos.ActiveCount(m.deps.Todos.State().Snapshot()))
		}
		if t == m.active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return titleStyle.Render("mediashelf") + "   " + strings.Join(parts, "  ")
}

func (m Model) renderMedia() string {
	snap := m.deps.Media.State().Snapshot()
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if !media.HasResults(snap) && !snap.LoadingMovies && !snap.LoadingShows {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No results for %q", snap.Query)))
		return b.String()
	}

	movieHeading, showHeading := "Trending movies", "Trending shows"
	if snap.Query != "" {
		movieHeading, showHeading = "Movies", "Shows"
	}

	row := 0
	movies := media.Movies(snap)
	b.WriteString(heading(movieHeading, snap.LoadingMovies))
	for _, movie := range movies {
		b.WriteString(m.mediaLine(row, movie.Candidate(), year(movie.ReleaseDate)))
		row++
	}
	if len(movies) == 0 && !snap.LoadingMovies {
		b.WriteString(mutedStyle.Render("  nothing here") + "\n")
	}

	b.WriteString("\n")
	shows := media.Shows(snap)
	b.WriteString(heading(showHeading, snap.LoadingShows))
	for _, show := range shows {
		b.WriteString(m.mediaLine(row, show.Candidate(), year(show.FirstAirDate)))
		row++
	}
	if len(shows) == 0 && !snap.LoadingShows {
		b.WriteString(mutedStyle.Render("  nothing here") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func heading(title string, loading bool) string {
	if loading {
		return headingStyle.Render(title) + " " + mutedStyle.Render("loading…") + "\n"
	}
	return headingStyle.Render(title) + "\n"
}

func (m Model) mediaLine(row int, c models.WatchlistCandidate, year string) string {
	star := mutedStyle.Render(starOff)
	if m.deps.Watchlist.IsInWatchlist(c.ID, c.Type) {
		star = successStyle.Render(starOn)
	}
	text := c.Title
	if year != "" {
		text += mutedStyle.Render(" (" + year + ")")
	}
	return cursorPrefix(row == m.cursor[tabMedia] && !m.typing) + star + " " + text + "\n"
}

func (m Model) renderWatchlist() string {
	items := m.deps.Watchlist.State().Snapshot().Items
	if len(items) == 0 {
		return mutedStyle.Render("Your watchlist is empty. Press space on a title in Media to add it.")
	}

	var b strings.Builder
	for i, item := range items {
		box := mutedStyle.Render(boxUnchecked)
		title := item.Title
		if item.IsWatched {
			box = successStyle.Render(boxChecked)
			title = doneStyle.Render(title)
		}
		kind := mutedStyle.Render(" · " + string(item.Type))
		b.WriteString(cursorPrefix(i == m.cursor[tabWatchlist]) + box + " " + title + kind + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTodos() string {
	snap := m.deps.Todos.State().Snapshot()
	visible := todos.Filtered(snap)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d  %s %d  %s %s\n\n",
		successStyle.Render("✔"), todos.CompletedCount(snap),
		headingStyle.Render("•"), todos.ActiveCount(snap),
		mutedStyle.Render("filter:"), string(snap.Filter),
	))

	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("Nothing to show."))
	}
	for i, todo := range visible {
		box := mutedStyle.Render(boxUnchecked)
		title := todo.Title
		if todo.Completed {
			box = successStyle.Render(boxChecked)
			title = doneStyle.Render(title)
		}
		b.WriteString(cursorPrefix(i == m.cursor[tabTodos] && !m.typing) + box + " " + title + "\n")
	}

	if m.typing {
		label := "Add todo"
		if m.inputErr != "" {
			label += " " + errorStyle.Render(m.inputErr)
		}
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		b.WriteString("\n" + bar.Render(label+"\n"+m.todoInput.View()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func cursorPrefix(selected bool) string {
	if selected {
		return selectedStyle.Render(">") + " "
	}
	return "  "
}
