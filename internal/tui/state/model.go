// Package state holds the bubbletea model of the browse screen.
package state

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pawfetch/pawfetch/internal/domain"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/favorites"
	"github.com/pawfetch/pawfetch/internal/search"
	"github.com/pawfetch/pawfetch/internal/urlsync"
)

const (
	defaultViewportWidth = 100
	toastClearDuration   = 5 * time.Second
)

// Searcher is the part of the search engine the screen drives.
type Searcher interface {
	Snapshot() search.Snapshot
	NextPage() bool
	PrevPage() bool
	SetSort(domain.SortSpec) error
	Reset()
}

// Favorites is the part of the favorites store the screen drives.
type Favorites interface {
	Toggle(ctx context.Context, id string) (bool, error)
	Has(id string) bool
	Details() []domain.Dog
	Len() int
	Match(ctx context.Context) (domain.Dog, error)
}

// Linker produces the query of the current state.
type Linker interface {
	Values() url.Values
}

// Deps are the collaborators of a Model.
type Deps struct {
	Search    Searcher
	Favorites Favorites
	Toasts    *apperrors.ToastHandler
	Linker    Linker
	// LinkBase prefixes the share link.
	LinkBase string
	// Changes delivers a value whenever a collaborator changed. See Signal.
	Changes <-chan struct{}
	Context context.Context
}

// Model is the browse screen.
type Model struct {
	deps Deps
	keys keyMap

	help    help.Model
	spinner spinner.Model

	width      int
	cursor     int
	drawerOpen bool
	shownToast int
	match      *domain.Dog
	snap       search.Snapshot
}

// NewModel creates the browse screen.
func NewModel(deps Deps) *Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Toasts == nil {
		deps.Toasts = apperrors.NewToastHandler(nil)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := &Model{
		deps:    deps,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		width:   defaultViewportWidth,
	}
	m.refresh()
	return m
}

// Init starts the spinner and the change listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForChange(m.deps.Changes))
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case changedMsg:
		m.refresh()
		return m, tea.Batch(m.toastTimer(), waitForChange(m.deps.Changes))
	case clearToastMsg:
		// Older toasts were superseded while this one was shown.
		for _, t := range m.deps.Toasts.All() {
			if t.ID <= msg.ID {
				m.deps.Toasts.Dismiss(t.ID)
			}
		}
		return m, nil
	case matchMsg:
		m.handleMatch(msg)
		return m, m.toastTimer()
	case toggledMsg:
		m.refresh()
		return m, m.toastTimer()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh re-reads the engine and keeps the cursor inside the active list.
func (m *Model) refresh() {
	m.snap = m.deps.Search.Snapshot()
	m.clampCursor()
}

func (m *Model) activeLen() int {
	if m.drawerOpen {
		return m.deps.Favorites.Len()
	}
	return len(m.snap.Dogs)
}

func (m *Model) clampCursor() {
	n := m.activeLen()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the dog under the cursor in the active list.
func (m *Model) selected() (domain.Dog, bool) {
	list := m.snap.Dogs
	if m.drawerOpen {
		list = m.deps.Favorites.Details()
	}
	if m.cursor < 0 || m.cursor >= len(list) {
		return domain.Dog{}, false
	}
	return list[m.cursor], true
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Next):
		if m.deps.Search.NextPage() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Prev):
		if m.deps.Search.PrevPage() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Sort):
		spec := m.snap.Sort
		spec.Field = spec.Field.Next()
		m.setSort(spec)
	case key.Matches(msg, m.keys.Dir):
		spec := m.snap.Sort
		spec.Direction = spec.Direction.Toggle()
		m.setSort(spec)
	case key.Matches(msg, m.keys.Favorite):
		return m, m.toggleFavorite()
	case key.Matches(msg, m.keys.Drawer):
		m.drawerOpen = !m.drawerOpen
		m.cursor = 0
	case key.Matches(msg, m.keys.Match):
		return m, m.requestMatch()
	case key.Matches(msg, m.keys.Reset):
		m.match = nil
		m.cursor = 0
		m.deps.Search.Reset()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.refresh()
	return m, nil
}

func (m *Model) setSort(spec domain.SortSpec) {
	if err := m.deps.Search.SetSort(spec); err != nil {
		apperrors.Report(m.deps.Toasts, "change sort", err)
		return
	}
	m.cursor = 0
}

func (m *Model) toggleFavorite() tea.Cmd {
	dog, ok := m.selected()
	if !ok {
		return nil
	}
	fav, ctx := m.deps.Favorites, m.deps.Context
	return func() tea.Msg {
		added, err := fav.Toggle(ctx, dog.ID)
		return toggledMsg{ID: dog.ID, Added: added, Err: err}
	}
}

func (m *Model) requestMatch() tea.Cmd {
	fav, ctx := m.deps.Favorites, m.deps.Context
	return func() tea.Msg {
		dog, err := fav.Match(ctx)
		return matchMsg{Dog: dog, Err: err}
	}
}

func (m *Model) handleMatch(msg matchMsg) {
	switch {
	case errors.Is(msg.Err, favorites.ErrNoFavorites):
		m.deps.Toasts.Info("Add some favorites to find a match.")
	case msg.Err != nil:
		m.deps.Toasts.Error("Failed to find a match.")
	default:
		dog := msg.Dog
		m.match = &dog
		m.deps.Toasts.Success("It's a match!")
	}
}

// toastTimer schedules the dismissal of a toast that has not been shown yet.
func (m *Model) toastTimer() tea.Cmd {
	t, ok := m.deps.Toasts.Latest()
	if !ok || t.ID == m.shownToast {
		return nil
	}
	m.shownToast = t.ID
	id := t.ID
	return tea.Tick(toastClearDuration, func(time.Time) tea.Msg { return clearToastMsg{ID: id} })
}

// ShareLink returns the link of the current state.
func (m *Model) ShareLink() string {
	if m.deps.Linker == nil {
		return ""
	}
	return urlsync.Link(m.deps.LinkBase, m.deps.Linker.Values())
}
