// internal/commands/show.go
package eikon

import "github.com/spf13/cobra"

// showCmd groups read-only inspection commands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for inspecting harness state",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
