// Package main is the settingskit command: it shows a Lua-declared
// settings panel in the terminal, backed by a TOML or YAML profile.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "settingskit",
	Short: "Terminal settings panels declared in Lua",
	Long: `settingskit shows a settings panel described by a Lua script and keeps
its values in a TOML or YAML profile file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default searches ./settingskit.yaml and $HOME/.config/settingskit)")
	flags.StringP("profile", "p", "", "Profile file backing the panel (.toml, .yaml)")
	flags.String("panel", "", "Panel title")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")
	flags.String("log-file", "", "Write logs to file")
	flags.Duration("script-timeout", 0, "Bound for each script run and callback")

	for _, name := range []string{"profile", "panel", "log-level", "log-file", "script-timeout"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(newRunCmd(), newDumpCmd(), versionCmd)
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// Variables already set in the environment win over .env.
	_ = godotenv.Load()

	viper.SetEnvPrefix("SETTINGSKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("settingskit")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/settingskit")
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "settingskit %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built: %s\n", date)
	},
}
