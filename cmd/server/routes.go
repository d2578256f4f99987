package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"go-checklist-api/internal/app"
	"go-checklist-api/internal/config"
	"go-checklist-api/internal/repository"
	"go-checklist-api/internal/router"
)

func newRoutesCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the HTTP route table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mem := repository.NewMemoryStore()
			h, err := app.NewHandler(*cfg, app.Stores{
				Users:      mem.Users(),
				Checklists: mem.Checklists(),
				Items:      mem.ChecklistItems(),
			})
			if err != nil {
				return err
			}

			routes, err := router.List(h)
			if err != nil {
				return err
			}
			renderRoutes(cmd.OutOrStdout(), routes)
			return nil
		},
	}
}

func renderRoutes(w io.Writer, routes []router.Route) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Method", "Pattern", "Middlewares"})
	for _, r := range routes {
		t.AppendRow(table.Row{r.Method, r.Pattern, r.Middlewares})
	}
	t.AppendFooter(table.Row{"", "total", len(routes)})
	t.Render()
}
