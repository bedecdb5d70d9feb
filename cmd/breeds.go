package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pawfetch/pawfetch/internal/breeds"
)

type breedsClient interface {
	Breeds(ctx context.Context) ([]string, error)
}

// newBreedMatcher picks the matcher for --match. Matching ignores case.
func newBreedMatcher(query string, regex bool) (breeds.Matcher, error) {
	if !regex {
		return breeds.NewSubstringMatcher(breeds.WithCaseInsensitive(true)), nil
	}
	m := breeds.NewRegexMatcher(breeds.WithCaseInsensitive(true))
	if err := m.(*breeds.RegexMatcher).Compile(query); err != nil {
		return nil, fmt.Errorf("invalid --match pattern: %w", err)
	}
	return m, nil
}

// printBreeds writes the catalog's breeds matching query, one per line, sorted.
func printBreeds(ctx context.Context, w io.Writer, client breedsClient, query string, m breeds.Matcher) error {
	all, err := client.Breeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to load breeds: %w", err)
	}
	all = slices.Clone(all)
	slices.Sort(all)
	for _, b := range breeds.Filter(all, query, m) {
		fmt.Fprintln(w, b)
	}
	return nil
}

func newBreedsCmd() *cobra.Command {
	var query string
	var regex bool
	breedsCmd := &cobra.Command{
		Use:   "breeds",
		Short: "List the breeds that can be searched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newBreedMatcher(query, regex)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			return printBreeds(cmd.Context(), cmd.OutOrStdout(), a.client, query, m)
		},
	}
	breedsCmd.Flags().StringVar(&query, "match", "", "only list breeds containing this text")
	breedsCmd.Flags().BoolVar(&regex, "regex", false, "treat --match as a regular expression")
	return breedsCmd
}

func init() {
	RootCmd.AddCommand(newBreedsCmd())
}
