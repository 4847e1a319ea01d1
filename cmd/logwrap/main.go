// Package main implements the logwrap CLI: a demo of call interception, a
// config inspector and a standalone redaction filter.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "logwrap",
		Short: "Call-interception logging toolkit",
		Long: `logwrap wraps methods and functions so every call is logged with its
params, result or error, without touching the business code.

Configuration is read from the file given by --config (YAML) and from
LOGWRAP_* environment variables, which take precedence.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a logwrap YAML config file")

	root.AddCommand(
		newDemoCmd(&configPath),
		newConfigCmd(&configPath),
		newRedactCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the logwrap version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("logwrap %s\n", version)
		},
	}
}
