package state

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pawfetch/pawfetch/internal/domain"
)

// changedMsg is sent when the engine, the favorites or the toasts change.
type changedMsg struct{}

// clearToastMsg dismisses a toast once it has been shown long enough.
type clearToastMsg struct {
	ID int
}

// matchMsg carries the result of a match request.
type matchMsg struct {
	Dog domain.Dog
	Err error
}

// toggledMsg carries the result of a favorite toggle.
type toggledMsg struct {
	ID    string
	Added bool
	Err   error
}

// Signal returns a notify function that is safe to call from any goroutine
// and the channel it feeds. Bursts of notifications coalesce into one.
func Signal() (func(), <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, ch
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}
