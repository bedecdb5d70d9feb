package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pawfetch/pawfetch/internal/colors"
	"github.com/pawfetch/pawfetch/internal/config"
	"github.com/pawfetch/pawfetch/internal/logging"
	"github.com/pawfetch/pawfetch/internal/version"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "pawfetch",
	Short:         "Find a dog to adopt from your terminal.",
	Long:          `Search adoptable dogs by breed, age and place, keep favorites and find a match.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setup()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

// Execute runs the command tree and reports a failure on the console.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := RootCmd.ExecuteContext(ctx)
	if err != nil {
		colors.Error(err.Error())
		teardown()
	}
	return err
}

func init() {
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.SetVersionTemplate(fmt.Sprintf("pawfetch version %s\n", version.String()))
}

// setup loads configuration and starts logging for the invocation.
func setup() {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))

	logger, err := logging.InitGlobal()
	if err != nil {
		colors.Warning(fmt.Sprintf("logging disabled: %v", err))
		return
	}
	colors.SetLogger(logger)
	if path := logging.CurrentLogFile(); path != "" {
		colors.Debug("logging to " + path)
	}
}

func teardown() {
	colors.SetLogger(nil)
	_ = logging.ShutdownGlobal()
}
