package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pawfetch/pawfetch/internal/colors"
)

type loginClient interface {
	Login(ctx context.Context, name, email string) error
}

type logoutClient interface {
	Logout(ctx context.Context) error
}

var errMissingCredentials = errors.New("both --name and --email are required")

// login authenticates against the catalog. The session cookie lands in the
// client's jar.
func login(ctx context.Context, client loginClient, name, email string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return errMissingCredentials
	}
	if err := client.Login(ctx, name, email); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// logout ends the remote session. A remote failure is reported and ignored
// so the local session can still be torn down.
func logout(ctx context.Context, client logoutClient) {
	if err := client.Logout(ctx); err != nil {
		colors.Warning(fmt.Sprintf("remote logout failed: %v", err))
	}
}

func newLoginCmd() *cobra.Command {
	var name, email string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session with the adoption catalog",
		Long: `Start a session with the adoption catalog.

Any previous session is ended first, which also clears its favorites.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := login(ctx, a.client, name, email); err != nil {
				a.jar = nil
				if endErr := a.sessions.End(ctx); endErr != nil {
					a.logger.Warn("failed to end session", "error", endErr.Error())
				}
				return err
			}
			colors.Success(fmt.Sprintf("Logged in as %s", strings.TrimSpace(name)))
			return nil
		},
	}
	loginCmd.Flags().StringVar(&name, "name", "", "your name")
	loginCmd.Flags().StringVar(&email, "email", "", "your email address")
	return loginCmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget its favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()
			logout(ctx, a.client)
			a.jar = nil
			if err := a.sessions.End(ctx); err != nil {
				return err
			}
			colors.Success("Logged out")
			return nil
		},
	}
}

func init() {
	RootCmd.AddCommand(newLoginCmd(), newLogoutCmd())
}
