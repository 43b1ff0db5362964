package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/pipesh/commands"
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string

	// exitCode is the status of the shell, reported once cobra returns.
	exitCode int
)

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DirName
	}
	return config.DefaultDir(home)
}

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrPermission) {
		log.Println("Couldn't load config: check the permissions of", cfgPath)
	}

	return configuration, err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openRecorder creates the event recorder the configuration asks for.
func openRecorder(cfg *config.Configuration) (*logger.Logger, io.Closer, error) {
	if !cfg.EventLogEnabled() {
		return logger.NewNopRecorder(), nopCloser{}, nil
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	fd, err := cfg.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJSONLinesRecorder(fd, level), fd, nil
}

// runShell runs the shell on virtOS. A non-nil line is run once, otherwise
// lines are read from the OS's stdin until exit.
func runShell(virtOS vos.VOS, cfg *config.Configuration, line *string) (int, error) {
	recorder, closer, err := openRecorder(cfg)
	if err != nil {
		return 1, err
	}
	defer closer.Close()
	defer recorder.Sync()

	sh, err := commands.NewShell(virtOS, cfg, recorder.NewSession())
	if err != nil {
		return 1, err
	}
	defer sh.Wait()

	if line != nil {
		return sh.RunOnce(*line), nil
	}

	reader, err := commands.NewLineReader(virtOS, cfg)
	if err != nil {
		return 1, err
	}
	defer reader.Close()

	return sh.Run(reader), nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pipesh",
	Short: "A small interactive shell",
	Long: `pipesh reads command lines, runs "a | b | c" pipelines of external
programs and keeps a directory stack with the cd, pushd, popd and dirs
builtins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var line *string
		if cmd.Flags().Changed("command") {
			line = &commandLine
		}

		exitCode, err = runShell(vos.NewHostOS(), cfg, line)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigDir(), "config directory")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit")
}
