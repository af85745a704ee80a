// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errReported is returned by commands that already told the user what went
// wrong; Execute only sets the exit code for it.
var errReported = errors.New("error already reported")

var rootCmd = &cobra.Command{
	Use:   "jobapp-metrics",
	Short: "A CLI tool to view job-application metrics and label assigned issues.",
	Long: `jobapp-metrics shows the aggregate job-application metrics served by the
tracker backend as a card dashboard in the terminal.

It also carries the repository automation that labels issues when they get
assigned, meant to run as a GitHub Actions step.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the logger shared by a command's components. Warnings and
// errors are always written; --verbose adds debug output.
func newLogger(cmd *cobra.Command, out io.Writer) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
