// Package render draws the pieces of the browse screen.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pawfetch/pawfetch/internal/domain"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/search"
)

const (
	favWidth             = 2
	breedWidth           = 24
	ageWidth             = 4
	zipWidth             = 6
	placeWidth           = 24
	spacesBetweenColumns = 10
	defaultNameWidth     = 20
	minNameWidth         = 8
	favoriteSymbol       = "★"
	ellipsisSymbol       = "…"
)

var (
	accent        = lipgloss.Color("4")
	muted         = lipgloss.Color("241")
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedStyle = lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("0"))
	helpStyle     = lipgloss.NewStyle().Foreground(muted)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	currentPage   = lipgloss.NewStyle().Bold(true).Underline(true)
	toastStyles   = map[apperrors.Severity]lipgloss.Style{
		apperrors.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		apperrors.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		apperrors.SeverityInfo:    lipgloss.NewStyle().Foreground(accent),
		apperrors.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
	title = cases.Title(language.English)
)

// RowState defines the inputs needed to render a dog row.
type RowState struct {
	Dog      domain.Dog
	Location *domain.Location
	Favorite bool
	Selected bool
	Width    int
}

// StatusState defines the inputs of the line above the results.
type StatusState struct {
	From     int
	Size     int
	Total    int
	Sort     domain.SortSpec
	Loading  bool
	Spinner  string
	Favorite int
}

// Header renders the table header.
func Header(width int) string {
	nameWidth := calculateNameWidth(width)
	header := fmt.Sprintf("%-*s  %-*s  %-*s  %*s  %-*s  %-*s",
		favWidth, "",
		nameWidth, "NAME",
		breedWidth, "BREED",
		ageWidth, "AGE",
		zipWidth, "ZIP",
		placeWidth, "LOCATION",
	)
	return headerStyle.Render(header)
}

// Row renders a single dog.
func Row(state RowState) string {
	fav := ""
	if state.Favorite {
		fav = favoriteSymbol
	}
	nameWidth := calculateNameWidth(state.Width)
	row := fmt.Sprintf("%-*s  %-*s  %-*s  %*d  %-*s  %-*s",
		favWidth, fav,
		nameWidth, truncate(state.Dog.Name, nameWidth),
		breedWidth, truncate(state.Dog.Breed, breedWidth),
		ageWidth, state.Dog.Age,
		zipWidth, truncate(state.Dog.ZipCode, zipWidth),
		placeWidth, truncate(Place(state.Location), placeWidth),
	)
	if state.Selected {
		return selectedStyle.Render(row)
	}
	return row
}

// Place renders "City, ST" or nothing when the zip code is unknown.
func Place(loc *domain.Location) string {
	if loc == nil || loc.City == "" {
		return ""
	}
	if loc.State == "" {
		return loc.City
	}
	return loc.City + ", " + loc.State
}

// SortLabel renders a sort spec as "Breed ↑".
func SortLabel(spec domain.SortSpec) string {
	arrow := "↑"
	if spec.Direction == domain.SortDesc {
		arrow = "↓"
	}
	return title.String(spec.Field.String()) + " " + arrow
}

// Showing renders "Showing a–b of n".
func Showing(from, size, total int) string {
	first, last := search.Showing(from, size, total)
	if total == 0 {
		return "No dogs found"
	}
	return fmt.Sprintf("Showing %d–%d of %d", first, last, total)
}

// Pages renders the page buttons with the current page highlighted.
func Pages(current, total int) string {
	nums := search.PageNumbers(current, total)
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		switch {
		case n == search.Ellipsis:
			parts = append(parts, ellipsisSymbol)
		case n == current:
			parts = append(parts, currentPage.Render("["+strconv.Itoa(n)+"]"))
		default:
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, " ")
}

// Status renders the summary line above the results.
func Status(state StatusState) string {
	parts := []string{
		Showing(state.From, state.Size, state.Total),
		"Sort: " + SortLabel(state.Sort),
		fmt.Sprintf("%s %d", favoriteSymbol, state.Favorite),
	}
	if state.Loading {
		parts = append(parts, state.Spinner+" loading")
	}
	return strings.Join(parts, "  |  ")
}

// Drawer renders the favorites panel.
func Drawer(dogs []domain.Dog, cursor, width int, focused bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Favorites (%d)", len(dogs))))
	if len(dogs) == 0 {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("  none yet, press f on a dog to add it"))
		return b.String()
	}
	for i, d := range dogs {
		line := truncate(fmt.Sprintf("  %s  %s, %d", d.Name, d.Breed, d.Age), width)
		b.WriteString("\n")
		if focused && i == cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
	}
	return b.String()
}

// Match renders the matched dog banner.
func Match(d domain.Dog) string {
	return titleStyle.Render(fmt.Sprintf("Your match: %s the %s (%d, %s)", d.Name, d.Breed, d.Age, d.ZipCode))
}

// Toast renders a transient notification.
func Toast(t apperrors.Toast) string {
	style, ok := toastStyles[t.Severity]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(t.Text)
}

// Link renders the share link line.
func Link(link string) string {
	return helpStyle.Render("Link: " + link)
}

func calculateNameWidth(width int) int {
	if width <= 0 {
		return defaultNameWidth
	}
	totalFixedWidth := favWidth + breedWidth + ageWidth + zipWidth + placeWidth
	return max(width-totalFixedWidth-spacesBetweenColumns, minNameWidth)
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width == 1 {
		return ellipsisSymbol
	}
	return string([]rune(value)[:width-1]) + ellipsisSymbol
}
