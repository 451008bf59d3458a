package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version    string `json:"version"     yaml:"version"`
	Commit     string `json:"commit"      yaml:"commit"`
	Built      string `json:"built"       yaml:"built"`
	Library    string `json:"library"     yaml:"library"`
	APIVersion string `json:"api_version" yaml:"api_version"`
	GoVersion  string `json:"go_version"  yaml:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the ads CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:    version,
				Commit:     commit,
				Built:      date,
				Library:    ads.Version,
				APIVersion: ads.APIVersion,
				GoVersion:  runtime.Version(),
			}

			rows := [][]string{
				{"Version", info.Version},
				{"Commit", info.Commit},
				{"Built", info.Built},
				{"Library", info.Library},
				{"API Version", info.APIVersion},
				{"Go Version", info.GoVersion},
			}

			return writeOutput(cmd.OutOrStdout(), info, []string{"property", "value"}, rows)
		},
	}
}
