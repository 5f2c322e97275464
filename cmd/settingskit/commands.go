package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/settingskit/internal/app"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Show the panel in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(options(args[0]))
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	cmd.Flags().Bool("watch", true, "Reload the profile when it changes on disk")
	cmd.Flags().Duration("watch-delay", 0, "Quiet period before a reload")
	cmd.Flags().Bool("autosave", false, "Save the profile after every change")
	for _, name := range []string{"watch", "watch-delay", "autosave"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <script.lua>",
		Short: "Print every setting's current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(options(args[0]))
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Dump(cmd.OutOrStdout())
		},
	}
}

// options resolves flags, environment and config file into app options.
func options(script string) app.Options {
	return app.Options{
		Script:        script,
		Profile:       viper.GetString("profile"),
		PanelName:     viper.GetString("panel"),
		Watch:         viper.GetBool("watch"),
		WatchDelay:    viper.GetDuration("watch-delay"),
		AutoSave:      viper.GetBool("autosave"),
		ScriptTimeout: viper.GetDuration("script-timeout"),
		LogLevel:      viper.GetString("log-level"),
		LogFile:       viper.GetString("log-file"),
	}
}
