package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pawfetch/pawfetch/internal/colors"
	"github.com/pawfetch/pawfetch/internal/config"
	"github.com/pawfetch/pawfetch/internal/domain"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/search"
	"github.com/pawfetch/pawfetch/internal/tui/render"
	"github.com/pawfetch/pawfetch/internal/urlsync"
)

const searchCommandLong = `Search adoptable dogs.

A shared link can be passed with --url; flags given alongside it override the
corresponding fields. The link of the resulting search is printed last.

EXAMPLES:
    pawfetch search --breeds Beagle,Boxer --age 1-5
    pawfetch search --zip 53703 --radius 50000 --sort-by age --sort-dir desc
    pawfetch search --url '/search?states=WI,IL&from=20'`

type searchFlags struct {
	link    string
	breeds  []string
	age     string
	zip     string
	radius  float64
	states  []string
	sortBy  string
	sortDir string
	page    int
}

// apply overlays the flags reported by changed onto st. A sort that differs
// from st's returns to the first page unless --page is given.
func (f searchFlags) apply(st *search.State, changed func(string) bool, pageSize int) error {
	prevSort := st.Sort
	if changed("breeds") {
		st.Filters.Breeds = domain.NormalizeSet(f.breeds)
	}
	if changed("age") {
		r, ok := urlsync.AgeCodec.Decode(f.age)
		if !ok {
			return fmt.Errorf("invalid --age %q, want min-max", f.age)
		}
		st.Filters.AgeRange = r
		st.AgeSet = true
	}
	if changed("zip") {
		st.Filters.Zip = f.zip
	}
	if changed("radius") {
		if f.radius < 0 {
			return fmt.Errorf("invalid --radius %v, must not be negative", f.radius)
		}
		st.Filters.RadiusMeters = f.radius
	}
	if changed("states") {
		st.Filters.States = domain.NormalizeStates(f.states)
	}
	if changed("sort-by") {
		field, err := domain.ParseSortField(f.sortBy)
		if err != nil {
			return err
		}
		st.Sort.Field = field
	}
	if changed("sort-dir") {
		dir, err := domain.ParseSortDirection(f.sortDir)
		if err != nil {
			return err
		}
		st.Sort.Direction = dir
	}
	if st.Sort != prevSort {
		st.Offset = 0
	}
	if changed("page") {
		if f.page < 1 {
			return fmt.Errorf("invalid --page %d, pages start at 1", f.page)
		}
		st.Offset = (f.page - 1) * pageSize
	}
	return nil
}

// runSearch hydrates an engine from the link and flags, runs one search and
// prints the page.
func runSearch(ctx context.Context, w io.Writer, catalog search.Catalog, opts search.Options, f searchFlags, changed func(string) bool, linkBase string) error {
	q := url.Values{}
	if f.link != "" {
		var err error
		if q, err = urlsync.ParseLink(f.link); err != nil {
			return fmt.Errorf("invalid --url: %w", err)
		}
	}

	toasts := apperrors.NewToastHandler(nil)
	opts.Toasts = toasts
	opts.Debounce = 0
	eng := search.New(catalog, opts)
	defer eng.Close()

	if err := eng.Bootstrap(ctx); err != nil && !eng.Snapshot().Bootstrapped {
		return err
	}
	syncer := urlsync.New(eng, urlsync.NewMemoryLocation(q), opts.Logger)
	syncer.Start()

	st := eng.State()
	if err := f.apply(&st, changed, eng.Snapshot().PageSize); err != nil {
		return err
	}
	eng.Apply(st)
	eng.Wait()

	for _, t := range toasts.All() {
		colors.Warning(t.Text)
	}
	printResults(w, eng.Snapshot())
	fmt.Fprintln(w, "Link: "+urlsync.Link(linkBase, syncer.Values()))
	return nil
}

// printResults writes the summary line, the dogs and the page list.
func printResults(w io.Writer, snap search.Snapshot) {
	fmt.Fprintf(w, "%s  |  Sort: %s\n", render.Showing(snap.Offset, snap.PageSize, snap.Total), render.SortLabel(snap.Sort))
	if len(snap.Dogs) == 0 {
		return
	}
	rows := make([][]string, 0, len(snap.Dogs))
	for _, d := range snap.Dogs {
		var place string
		if loc, ok := snap.Locations[d.ZipCode]; ok {
			place = render.Place(&loc)
		}
		rows = append(rows, []string{d.ID, d.Name, d.Breed, strconv.Itoa(d.Age), d.ZipCode, place})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "BREED", "AGE", "ZIP", "LOCATION").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
	if pages := snap.Pages(); pages > 1 {
		fmt.Fprintln(w, "Pages: "+render.Pages(snap.Page(), pages))
	}
}

func newSearchCmd() *cobra.Command {
	var f searchFlags
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search adoptable dogs",
		Long:  searchCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := search.OptionsFromConfig()
			opts.Logger = a.logger
			opts.Recorder = a.recorder
			return runSearch(ctx, cmd.OutOrStdout(), a.client, opts, f, cmd.Flags().Changed, config.Get("share_base_url", ""))
		},
	}
	fl := searchCmd.Flags()
	fl.StringVar(&f.link, "url", "", "shared search link to start from")
	fl.StringSliceVar(&f.breeds, "breeds", nil, "breeds to include (comma separated)")
	fl.StringVar(&f.age, "age", "", "age range in years, as min-max")
	fl.StringVar(&f.zip, "zip", "", "zip code at the center of the search radius")
	fl.Float64Var(&f.radius, "radius", 0, "search radius in meters around --zip")
	fl.StringSliceVar(&f.states, "states", nil, "two-letter state codes (comma separated)")
	fl.StringVar(&f.sortBy, "sort-by", "", "sort field: breed, name, age or location")
	fl.StringVar(&f.sortDir, "sort-dir", "", "sort direction: asc or desc")
	fl.IntVar(&f.page, "page", 1, "page number")
	return searchCmd
}

func init() {
	RootCmd.AddCommand(newSearchCmd())
}
