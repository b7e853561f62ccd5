// Command fvcmatch compares two serialized templates and appends
// "<probe> <candidate> <OK|FAIL> <similarity>" to a log file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/internal/fvc"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fvcmatch <probe> <candidate> <log>",
	Short: "Verify one template pair and append the result to a log",
	Long: `fvcmatch loads a probe and a candidate template, matches them once and
appends a result line to the log file. A comparison that fails for any
reason is recorded as FAIL with similarity 0.00000; the command itself
only fails when the log cannot be written.`,
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := config.Load(configPath); err != nil {
				return err
			}
		} else {
			config.LoadDefaultConfig()
		}
		result, err := fvc.Verify(cmd.Context(), args[0], args[1], args[2])
		if result.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", args[0], args[1], result.Err)
		}
		return err
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "TOML configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
