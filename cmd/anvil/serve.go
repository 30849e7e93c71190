package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aellingwood/anvil/internal/daydata"
	"github.com/aellingwood/anvil/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server",
	Long: "Start a local server that renders calendar and pagination previews and\n" +
		"reloads the browser when day value files change.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		overrides := map[string]any{}
		if cmd.Flags().Changed("port") {
			overrides["port"], _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			overrides["host"], _ = cmd.Flags().GetString("bind")
		}
		if noLiveReload, _ := cmd.Flags().GetBool("no-live-reload"); noLiveReload {
			overrides["livereload"] = false
		}
		cfg.WithOverrides(overrides)
		if err := cfg.Validate(); err != nil {
			return err
		}
		layouts, _ := cmd.Flags().GetString("layouts")

		store := daydata.NewStore(cfg.Calendar)
		if err := store.Reload(); err != nil {
			return err
		}

		srv, err := server.NewServer(cfg, store, server.ServeOptions{
			Port:         cfg.Server.Port,
			Bind:         cfg.Server.Host,
			LayoutDir:    layouts,
			NoLiveReload: !cfg.Server.LiveReload,
		})
		if err != nil {
			return err
		}

		if paths := store.Paths(); len(paths) > 0 {
			srv.SetWatcher(server.NewWatcher(paths, 100*time.Millisecond, func() {
				log.Info("Change detected, reloading day values...")
				srv.Reload()
			}))
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
				cancel()
			case <-ctx.Done():
			}
		}()

		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 1414, "server port")
	serveCmd.Flags().String("bind", "localhost", "bind address")
	serveCmd.Flags().Bool("no-live-reload", false, "disable live reload")
	serveCmd.Flags().String("layouts", "", "directory of layouts overriding the built-in pages")

	rootCmd.AddCommand(serveCmd)
}
