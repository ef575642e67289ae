/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josephgoksu/neurotech/internal/logger"
	"github.com/josephgoksu/neurotech/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging.
	verbose bool
	// jsonOutput switches command output to JSON.
	jsonOutput bool
	// version is the application version.
	version = "0.1.0"

	commandStart time.Time
)

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "neurotech",
	Short: "Neurotech - team dashboard with an AI assistant",
	Long: `Neurotech tracks projects on a kanban board, keeps a list of daily routines
and hosts a team chat where mentioning @AI asks the assistant for help.

The assistant can also break a project description into subtasks and
suggest routines for a goal.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStart = time.Now()
		logger.SetVersion(version)
		logger.SetCommand(cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		trackCommand(cmd.CommandPath(), nil)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic(os.Stderr, os.Exit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		if cmd != nil {
			trackCommand(cmd.CommandPath(), err)
		}
		PrintError(err.Error(), err)
		closeApp()
		stop()
		os.Exit(1)
	}
	closeApp()
}

func trackCommand(command string, err error) {
	if current == nil {
		return
	}
	event := telemetry.EventCommandExecuted
	if err != nil {
		event = telemetry.EventCommandError
	}
	current.telemetry.Track(event, telemetry.CommandProperties(command, time.Since(commandStart).Milliseconds(), err))
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.neurotech.yaml or $HOME/.neurotech.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
