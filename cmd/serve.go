/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/josephgoksu/neurotech/internal/logger"
	"github.com/josephgoksu/neurotech/internal/server"
	"github.com/josephgoksu/neurotech/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard JSON API",
	Long: `Start the HTTP API that the dashboard front end talks to.

State is held in memory for the life of the process. Editing the config
file while the server runs re-applies the log level.

Example:
  neurotech serve --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv := server.New(a.store, server.Config{
			Port:           port,
			AllowedOrigins: a.cfg.Server.AllowedOrigins,
			Version:        version,
			Logger:         a.logger,
		})

		watchConfig(a)

		var wg sync.WaitGroup
		errChan := make(chan error, 1)
		srv.Start(&wg, errChan)
		a.telemetry.Track(telemetry.EventServerStarted, telemetry.Properties{"provider": string(a.llm.Provider)})
		fmt.Fprintf(cmd.OutOrStdout(), "Neurotech API listening on http://localhost%s\n", srv.Addr())

		select {
		case <-cmd.Context().Done():
		case err = <-errChan:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			a.logger.Warn("shutdown incomplete", "error", shutdownErr)
		}
		wg.Wait()
		return err
	},
}

// watchConfig re-applies the log level whenever the config file changes.
func watchConfig(a *app) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		level := viper.GetString("log.level")
		if viper.GetBool("verbose") {
			level = "debug"
		}
		lvl, err := logger.ParseLevel(level)
		if err != nil {
			a.logger.Warn("ignoring config change", "file", e.Name, "error", err)
			return
		}
		a.level.Set(lvl)
		a.logger.Info("config reloaded", "file", e.Name, "op", e.Op.String(), "log_level", lvl.String())
	})
	viper.WatchConfig()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from server.port)")
}
