package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/hashing"
)

// NewHashCommand creates the hash command
func NewHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the sampled hash of files",
		Long: `Print the sampled hash used by the sampled method and flat mode.
Unreadable files print a unique "error:" digest that never matches.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hashing.SampledFile(path), path)
			}
			return nil
		},
	}
}
