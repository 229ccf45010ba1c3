package main

import (
	"path/filepath"
	"strings"

	"github.com/deployd-go/dashboard/internal/templates"
	"github.com/spf13/cobra"
)

func scaffoldCmd() *cobra.Command {
	var (
		template string
		pages    []string
	)

	cmd := &cobra.Command{
		Use:   "scaffold <type> [dir]",
		Short: "Generate a dashboard directory for a resource type",
		Long: `Generate the pages, scripts and stylesheet of a resource type's own
dashboard. Point the type's dashboard.path at the directory afterwards.

Templates:
  minimal   one HTML body per page
  bundle    HTML body and script per page, plus style.css

Examples:
  dashboard scaffold Inventory
  dashboard scaffold Inventory types/inventory/dashboard --pages index,stats`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID := args[0]
			dir := filepath.Join("dashboards", strings.ToLower(typeID))
			if len(args) == 2 {
				dir = args[1]
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			if err := tmpl.Create(dir, templates.Config{TypeID: typeID, Pages: pages}); err != nil {
				return err
			}

			success("Created %s dashboard in %s", typeID, dir)
			info(`Add "dashboard": {"path": %q} to the %s type in your config`, dir, typeID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "bundle", "Scaffold template ("+strings.Join(templates.List(), ", ")+")")
	cmd.Flags().StringSliceVar(&pages, "pages", []string{"index"}, "Pages to generate; the first is the default page")

	return cmd
}
