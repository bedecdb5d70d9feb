package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pawfetch/pawfetch/internal/colors"
	"github.com/pawfetch/pawfetch/internal/domain"
	apperrors "github.com/pawfetch/pawfetch/internal/errors"
	"github.com/pawfetch/pawfetch/internal/favorites"
	"github.com/pawfetch/pawfetch/internal/tui/render"
)

type favoritesStore interface {
	Toggle(ctx context.Context, id string) (bool, error)
	Details() []domain.Dog
	Match(ctx context.Context) (domain.Dog, error)
	Wait()
}

// openFavorites opens the favorites of the active session.
func openFavorites(ctx context.Context, a *app) *favorites.Store {
	return favorites.Open(ctx, a.values, a.client, favorites.Options{
		Logger: a.logger,
		Toasts: apperrors.NewDefaultCLIHandler(),
	})
}

func printFavorites(w io.Writer, store favoritesStore) {
	store.Wait()
	dogs := store.Details()
	if len(dogs) == 0 {
		fmt.Fprintln(w, "No favorites yet")
		return
	}
	rows := make([][]string, 0, len(dogs))
	for _, d := range dogs {
		rows = append(rows, []string{d.ID, d.Name, d.Breed, strconv.Itoa(d.Age), d.ZipCode})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "BREED", "AGE", "ZIP").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func toggleFavorites(ctx context.Context, w io.Writer, store favoritesStore, ids []string) error {
	for _, id := range ids {
		added, err := store.Toggle(ctx, id)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(w, "Added %s to favorites\n", id)
		} else {
			fmt.Fprintf(w, "Removed %s from favorites\n", id)
		}
	}
	store.Wait()
	return nil
}

func printMatch(ctx context.Context, w io.Writer, store favoritesStore) error {
	dog, err := store.Match(ctx)
	if errors.Is(err, favorites.ErrNoFavorites) {
		return fmt.Errorf("%w, add some with 'pawfetch favorites toggle <id>'", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, render.Match(dog))
	return nil
}

// withFavorites runs fn against the favorites of the active session.
func withFavorites(cmd *cobra.Command, fn func(ctx context.Context, store *favorites.Store) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()
	store := openFavorites(ctx, a)
	defer store.Close()
	return fn(ctx, store)
}

func newFavoritesCmd() *cobra.Command {
	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "List or change your favorite dogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(cmd, func(_ context.Context, store *favorites.Store) error {
				printFavorites(cmd.OutOrStdout(), store)
				return nil
			})
		},
	}
	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your favorite dogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(cmd, func(_ context.Context, store *favorites.Store) error {
				printFavorites(cmd.OutOrStdout(), store)
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "toggle <id>...",
		Short: "Add or remove dogs from your favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(cmd, func(ctx context.Context, store *favorites.Store) error {
				return toggleFavorites(ctx, cmd.OutOrStdout(), store, args)
			})
		},
	})
	return favoritesCmd
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Let the catalog pick one of your favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavorites(cmd, func(ctx context.Context, store *favorites.Store) error {
				if err := printMatch(ctx, cmd.OutOrStdout(), store); err != nil {
					return err
				}
				colors.Success("It's a match!")
				return nil
			})
		},
	}
}

func init() {
	RootCmd.AddCommand(newFavoritesCmd(), newMatchCmd())
}
