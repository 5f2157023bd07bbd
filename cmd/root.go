package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/killallgit/paperreel-api/internal/logging"
	"github.com/killallgit/paperreel-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paperreel-api",
	Short: "PaperReel API server",
	Long: `PaperReel API - authoring and playback backend for paper/video mappings

The API serves a paper's layout blocks, its presentation video and captions,
and stores the annotation graph that links highlighted blocks to clips of
the video.

Features:
  • Legacy /api endpoints used by the authoring front end
  • Server-side authoring sessions with serialized edits
  • Consistency checks on every saved annotation graph
  • Document import from block and caption files`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration for a command that needs it. Flags
// given on the command line override the file and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if err := config.Load(path); err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		viper.Set("logging.level", f.Value.String())
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		viper.Set("logging.format", "json")
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging)
}
