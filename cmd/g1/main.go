// Command g1 is the command-line front end for the G1 graph query engine:
// a one-shot query runner, an interactive REPL, an HTTP server, and a
// batch fact loader, all sharing a single durable store.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/remexre/g1/internal/config"
)

var (
	configPath string
	logLevel   string
	log        hclog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "g1",
	Short: "G1 is a stratified Datalog engine over a content-addressed graph of facts",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		name := logLevel
		if !cmd.Flags().Changed("log-level") {
			if cfg, err := loadConfig(); err == nil && cfg.LogLevel != "" {
				name = cfg.LogLevel
			}
		}
		level := hclog.LevelFromString(name)
		if level == hclog.NoLevel {
			level = hclog.Info
		}
		log = hclog.New(&hclog.LoggerOptions{
			Name:  "g1",
			Level: level,
		})
		return nil
	},
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = "g1.yaml"
	}
	return config.Load(path)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to g1.yaml (defaults to ./g1.yaml, missing is fine)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(queryCmd, replCmd, serveCmd, loadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
