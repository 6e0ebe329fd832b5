package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/segvault/segvault/pkg/archive"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "segvault",
	Short: "Segvault - cold segment archiver",
	Long: `Segvault migrates the oldest segment files of an append-only data store
from the primary volume to an archive volume, replacing each migrated file
with a symbolic link to its archived copy. The newest segments stay as real
files on the primary volume.

A pass only runs when every precondition holds: no other segvault instance,
consumer process idle, archive volume below its usage threshold, more
segments present than the retention count, and the copy tool available.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and maps abort reasons to process exit
// codes: 0 success, 2 already running, 3 nothing to do, 1 anything else.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		os.Exit(archive.ExitOK)
	}

	reason := archive.ReasonOf(err)
	if !reason.Benign() {
		fmt.Fprintln(os.Stderr, err)
	}
	if reason == archive.ReasonNone {
		os.Exit(archive.ExitFatal)
	}
	os.Exit(reason.ExitCode())
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
