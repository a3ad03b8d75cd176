package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gomu build information",
		Long:  "Prints the gomu release, the commit it was built from when available, and the Go toolchain used.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("gomu (build information unavailable)")
				return
			}

			release := info.Main.Version
			if release == "" || release == "(devel)" {
				release = "development build"
			}

			cmd.Printf("gomu %s\n", release)

			if rev := vcsRevision(info); rev != "" {
				cmd.Printf("  commit: %s\n", rev)
			}

			cmd.Printf("  go:     %s\n", info.GoVersion)
		},
	}
}

// vcsRevision extracts the short commit hash stamped by the Go toolchain,
// with a marker when the working tree was dirty at build time.
func vcsRevision(info *debug.BuildInfo) string {
	var revision string
	var dirty bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		return ""
	}

	if len(revision) > 12 {
		revision = revision[:12]
	}

	if dirty {
		revision += " (modified)"
	}

	return revision
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
