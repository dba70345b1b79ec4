package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// buildVersion returns Version, or the module version recorded by
// `go install` when no version was stamped at link time
func buildVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version, build details and the supported comparison methods and hash algorithms.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			version := buildVersion()
			if short {
				fmt.Fprintln(out, version)
				return
			}

			fmt.Fprintf(out, "dircompare %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", Commit)
			fmt.Fprintf(out, "  Built:      %s\n", BuildDate)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "  Methods:    %s, %s, %s, %s\n",
				models.CompareName, models.CompareSize, models.CompareHash, models.CompareSampled)
			fmt.Fprintf(out, "  Algorithms: %s, %s, %s\n", hashing.SHA256, hashing.BLAKE3, hashing.XXHash)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}
