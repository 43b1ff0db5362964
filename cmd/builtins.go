package cmd

import (
	"github.com/josephlewis42/pipesh/commands"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands the shell runs itself.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Name", "Usage", "Description"})
		table.SetAutoWrapText(false)

		for _, info := range commands.ListBuiltins() {
			table.Append([]string{info.Name, info.Use, info.Short})
		}

		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
