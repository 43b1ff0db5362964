package cmd

import (
	"fmt"

	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var bySession bool

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}
		if !config.EventLogEnabled() {
			return fmt.Errorf("the event log is disabled in %s", config.Dir())
		}

		fd, err := config.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		var report interface{}
		var handler func(*logger.LogEntry)
		if bySession {
			interactions := &logger.InteractionReport{}
			report, handler = interactions, interactions.Update
		} else {
			summary := logger.NewReport()
			report, handler = summary, summary.Update
		}

		if err := logger.ReadJSONLinesLog(fd, handler); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	reportCommand.Flags().BoolVar(&bySession, "sessions", false, "group commands by session")
}
