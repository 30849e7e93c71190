package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aellingwood/anvil/internal/ui"
)

var paginateCmd = &cobra.Command{
	Use:   "paginate",
	Short: "Print an HTML pagination control",
	Long:  "Print numbered page links for a list of --total items, with --current marked.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		total, _ := cmd.Flags().GetInt("total")
		current, _ := cmd.Flags().GetInt("current")

		overrides := map[string]any{}
		if cmd.Flags().Changed("base-url") {
			overrides["baseURL"], _ = cmd.Flags().GetString("base-url")
		}
		if cmd.Flags().Changed("per-page") {
			overrides["perPage"], _ = cmd.Flags().GetInt("per-page")
		}
		if cmd.Flags().Changed("link-classes") {
			overrides["linkClasses"], _ = cmd.Flags().GetString("link-classes")
		}
		cfg.WithOverrides(overrides)

		p, err := ui.NewPagination(current, total, cfg.Pagination.BaseURL)
		if err != nil {
			return err
		}
		p.SetItemsPerPage(cfg.Pagination.PerPage)
		p.SetLinkClasses(cfg.Pagination.LinkClasses)

		fmt.Fprintln(cmd.OutOrStdout(), p.Render())
		return nil
	},
}

func init() {
	paginateCmd.Flags().Int("total", 0, "total number of items")
	paginateCmd.Flags().Int("current", 1, "current page")
	paginateCmd.Flags().String("base-url", "", "URL the page parameter is appended to")
	paginateCmd.Flags().Int("per-page", 0, "items per page")
	paginateCmd.Flags().String("link-classes", "", "extra classes for page links")
	_ = paginateCmd.MarkFlagRequired("total")

	rootCmd.AddCommand(paginateCmd)
}
