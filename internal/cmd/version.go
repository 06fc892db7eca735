package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chronowheel",
	Long:  `All software has versions. This is chronowheel's.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chronowheel %s\n", rootCmd.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
