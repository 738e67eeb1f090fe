package root

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "audit",
	Short: "Asset audit CLI",
	Long:  "Command line interface for the asset audit API: submit, review, resolve, and export physical-asset audits.",
}

// GetRoot returns the root command so subcommand packages can attach to it.
func GetRoot() *cobra.Command {
	return rootCmd
}
