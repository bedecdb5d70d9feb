package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pawfetch/pawfetch/internal/config"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/favorites"
	"github.com/pawfetch/pawfetch/internal/search"
	"github.com/pawfetch/pawfetch/internal/tui/state"
	"github.com/pawfetch/pawfetch/internal/urlsync"
)

const browseCommandLong = `Browse adoptable dogs interactively.

KEY BINDINGS:
    j/k         Move the cursor
    n/p         Next / previous page
    s           Cycle the sort field
    d           Flip the sort direction
    f           Toggle the dog under the cursor as a favorite
    tab         Show or hide the favorites drawer
    m           Find a match among your favorites
    r           Reset every filter
    ?           Show all key bindings
    q           Quit`

func newBrowseCmd() *cobra.Command {
	var link string
	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse adoptable dogs interactively",
		Long:  browseCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q, err := urlsync.ParseLink(link)
			if err != nil {
				return fmt.Errorf("invalid --url: %w", err)
			}

			a, err := openApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			notify, changes := state.Signal()
			toasts := apperrors.NewToastHandler(func(apperrors.Toast) { notify() })

			opts := search.OptionsFromConfig()
			opts.Logger = a.logger
			opts.Recorder = a.recorder
			opts.Toasts = toasts
			eng := search.New(a.client, opts)
			defer eng.Close()
			eng.OnChange(notify)

			store := favorites.Open(ctx, a.values, a.client, favorites.Options{Logger: a.logger, Toasts: toasts})
			defer store.Close()
			store.OnChange(notify)

			syncer := urlsync.New(eng, urlsync.NewMemoryLocation(q), a.logger)
			syncer.Start()
			bootCtx, cancelBoot := context.WithCancel(ctx)
			booted := make(chan struct{})
			go func() {
				defer close(booted)
				// Failures are already on the toast line.
				_ = eng.Bootstrap(bootCtx)
			}()
			defer func() {
				cancelBoot()
				<-booted
			}()

			model := state.NewModel(state.Deps{
				Search:    eng,
				Favorites: store,
				Toasts:    toasts,
				Linker:    syncer,
				LinkBase:  config.Get("share_base_url", ""),
				Changes:   changes,
				Context:   ctx,
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running browser: %w", err)
			}
			return nil
		},
	}
	browseCmd.Flags().StringVar(&link, "url", "", "shared search link to start from")
	return browseCmd
}

func init() {
	RootCmd.AddCommand(newBrowseCmd())
}
