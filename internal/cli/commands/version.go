package commands

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/launchdash/pkg/source"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the launchdash version, the Go toolchain and VCS revision it was built from, and the registered dataset sources.`,
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			writeVersion(cmd.OutOrStdout(), version, info, source.List())
		},
	}
}

// writeVersion prints the release line, then build details when the binary carries them.
func writeVersion(w io.Writer, version string, info *debug.BuildInfo, sources []string) {
	_, _ = fmt.Fprintf(w, "launchdash v%s\n", version)
	_, _ = fmt.Fprintln(w, "SpaceX launch records dashboard built with Go and Datastar")

	if info != nil {
		build := info.GoVersion
		var revision, modified string
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value
			}
		}
		if revision != "" {
			if len(revision) > 12 {
				revision = revision[:12]
			}
			build += " " + revision
			if modified == "true" {
				build += "-dirty"
			}
		}
		_, _ = fmt.Fprintf(w, "build: %s\n", build)
	}

	if len(sources) > 0 {
		_, _ = fmt.Fprintf(w, "sources: %v\n", sources)
	}
}
