package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aellingwood/anvil/internal/daydata"
	tmpl "github.com/aellingwood/anvil/internal/template"
)

var renderCmd = &cobra.Command{
	Use:   "render TEMPLATE",
	Short: "Execute an HTML template",
	Long: "Execute an html/template file with the calendar and pagination functions\n" +
		"available. The template receives the current year and month as .Year and .Month.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		store := daydata.NewStore(cfg.Calendar)
		if err := store.Reload(); err != nil {
			return err
		}

		now := time.Now()
		data := &tmpl.PageContext{
			Title:     args[0],
			Year:      now.Year(),
			Month:     now.Month(),
			PerPage:   cfg.Pagination.PerPage,
			Generated: now,
		}
		out, err := tmpl.RenderFile(args[0], data, tmpl.Options{
			HighlightToday: cfg.Calendar.HighlightToday,
			PerPage:        cfg.Pagination.PerPage,
			LinkClasses:    cfg.Pagination.LinkClasses,
			DayValues:      store.Values,
		})
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		log.WithField("path", outPath).Info("rendered")
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "write output to file instead of stdout")

	rootCmd.AddCommand(renderCmd)
}
