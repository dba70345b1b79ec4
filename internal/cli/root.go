package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the dircompare command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dircompare",
		Short: "Compare two directory trees",
		Long: `dircompare reports how two directory trees differ.

Hierarchy mode (compare) pairs entries by relative path and lists what
exists only in A, only in B, or matches in both. Flat mode (flat) groups
files by content to find duplicates and moved files.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewFlatCommand())
	rootCmd.AddCommand(NewHashCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
