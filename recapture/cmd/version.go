package cmd

import (
	"io"
	"os"

	"github.com/drausin/recapture/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the recapture version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeVersion(os.Stdout)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

func writeVersion(w io.Writer) error {
	_, err := io.WriteString(w, version.Version.String()+"\n")
	return err
}
