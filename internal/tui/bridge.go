package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"mediashelf/services/media"
	"mediashelf/services/notify"
	"mediashelf/services/todos"
	"mediashelf/services/watchlist"
)

type changedMsg struct{}

type notificationMsg notify.Notification

type dismissMsg struct{ seq int }

// bridge turns store publications into tea messages. Subscribers must not
// block: they only poke a one-slot channel.
type bridge struct {
	changes chan struct{}
	notes   <-chan notify.Notification
	done    chan struct{}

	once    sync.Once
	cancels []func()
}

func newBridge(d Deps) *bridge {
	b := &bridge{
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	poke := func() {
		select {
		case b.changes <- struct{}{}:
		default:
		}
	}

	if d.Watchlist != nil {
		b.cancels = append(b.cancels, d.Watchlist.State().Subscribe(func(watchlist.State) { poke() }))
	}
	if d.Todos != nil {
		b.cancels = append(b.cancels, d.Todos.State().Subscribe(func(todos.State) { poke() }))
	}
	if d.Media != nil {
		b.cancels = append(b.cancels, d.Media.State().Subscribe(func(media.State) { poke() }))
	}
	if d.Feed != nil {
		notes, cancel := d.Feed.Subscribe(8)
		b.notes = notes
		b.cancels = append(b.cancels, cancel)
	}
	return b
}

func (b *bridge) waitForChange() tea.Msg {
	select {
	case <-b.changes:
		return changedMsg{}
	case <-b.done:
		return nil
	}
}

func (b *bridge) waitForNotification() tea.Msg {
	if b.notes == nil {
		return nil
	}
	select {
	case n, ok := <-b.notes:
		if !ok {
			return nil
		}
		return notificationMsg(n)
	case <-b.done:
		return nil
	}
}

func (b *bridge) close() {
	b.once.Do(func() {
		for _, cancel := range b.cancels {
			cancel()
		}
		close(b.done)
	})
}
