// Package cli implements flowctl, an operator tool for running and inspecting
// flow generations outside the HTTP server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// requestFlags are shared by every command that describes a generation request.
type requestFlags struct {
	description string
	start       string
	end         string
	name        string
	color       string
	timezone    string
	sourceFile  string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "Generate and inspect AI flows",
		Long:          `A command-line utility for running the flow generation pipeline and inspecting its prompts and cache keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv("CONFIG_PATH", configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (overrides CONFIG_PATH)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newPromptCmd())
	root.AddCommand(newFingerprintCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindRequestFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "What the flow should cover")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.name, "name", "", "Preferred flow name")
	cmd.Flags().StringVar(&f.color, "color", "", "Flow color as hex (#4dd0e1) or integer")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "IANA timezone passed to the model")
	cmd.Flags().StringVar(&f.sourceFile, "source-file", "", "File whose contents are used as source material")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}
