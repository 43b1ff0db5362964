package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/cobra"
)

// playgroundCmd runs the shell inside a throwaway directory with its own
// configuration and event log.
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run the shell in a temporary directory with debug event logging.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		playgroundLogger := log.New(cmd.ErrOrStderr(), "[playground] ", 0)
		cfg, err := config.Initialize(dir, playgroundLogger)
		if err != nil {
			return err
		}
		cfg.LogLevel = "debug"
		cfg.ClearScreen = false
		cfg.Prompt = `(playground) \w> `

		if err := os.Chdir(dir); err != nil {
			return err
		}

		playgroundLogger.Printf("Working in: file://%s\n", dir)
		playgroundLogger.Printf("See events with: tail -f %s\n", filepath.Join(cfg.Dir(), cfg.EventLog))
		playgroundLogger.Println(strings.Repeat("=", 80))

		code, err := runShell(vos.NewHostOS(), cfg, nil)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exit code: %d\n", code)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
