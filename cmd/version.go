package cmd

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"

	"github.com/s0up4200/amatino/api"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build version and time, set by main via ldflags.
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// parsedVersion returns the build version when it is a release.
func parsedVersion() (semver.Version, bool) {
	v, err := semver.Parse(strings.TrimPrefix(version, "v"))
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

// userAgent is the configured override, or the library name with the
// release version appended.
func userAgent(override string) string {
	if override != "" {
		return override
	}
	if v, ok := parsedVersion(); ok {
		return api.DefaultUserAgent + "/" + v.String()
	}
	return api.DefaultUserAgent
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		v, ok := parsedVersion()
		if !ok {
			fmt.Fprintf(out, "amatino %s (development build, built %s)\n", version, buildTime)
			return
		}
		fmt.Fprintf(out, "amatino %s (built %s)\n", v, buildTime)
		if len(v.Pre) > 0 {
			fmt.Fprintln(out, "pre-release build")
		}
	},
}
