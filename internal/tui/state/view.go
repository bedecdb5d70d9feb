package state

import (
	"strings"

	"github.com/pawfetch/pawfetch/internal/tui/render"
)

// View renders the browse screen.
func (m *Model) View() string {
	var b strings.Builder
	snap := m.snap

	b.WriteString(render.Status(render.StatusState{
		From:     snap.Offset,
		Size:     snap.PageSize,
		Total:    snap.Total,
		Sort:     snap.Sort,
		Loading:  snap.Loading,
		Spinner:  m.spinner.View(),
		Favorite: m.deps.Favorites.Len(),
	}))
	b.WriteString("\n\n")

	if m.drawerOpen {
		b.WriteString(render.Drawer(m.deps.Favorites.Details(), m.cursor, m.width, true))
		b.WriteString("\n")
	} else {
		b.WriteString(render.Header(m.width))
		b.WriteString("\n")
		for i, d := range snap.Dogs {
			loc := snap.Locations[d.ZipCode]
			row := render.RowState{
				Dog:      d,
				Favorite: m.deps.Favorites.Has(d.ID),
				Selected: i == m.cursor,
				Width:    m.width,
			}
			if loc.ZipCode != "" {
				row.Location = &loc
			}
			b.WriteString(render.Row(row))
			b.WriteString("\n")
		}
		if pages := snap.Pages(); pages > 1 {
			b.WriteString("\n")
			b.WriteString(render.Pages(snap.Page(), pages))
			b.WriteString("\n")
		}
	}

	if m.match != nil {
		b.WriteString("\n")
		b.WriteString(render.Match(*m.match))
		b.WriteString("\n")
	}
	if t, ok := m.deps.Toasts.Latest(); ok {
		b.WriteString("\n")
		b.WriteString(render.Toast(t))
		b.WriteString("\n")
	}
	if link := m.ShareLink(); link != "" {
		b.WriteString("\n")
		b.WriteString(render.Link(link))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
