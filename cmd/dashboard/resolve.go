package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/deployd-go/dashboard/internal/config"
	"github.com/deployd-go/dashboard/internal/errors"
	"github.com/deployd-go/dashboard/internal/templates"
	"github.com/deployd-go/dashboard/pkg/page"
	"github.com/spf13/cobra"
)

func resolveCmd() *cobra.Command {
	var withBody bool

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Show how a dashboard URL resolves",
		Long: `Resolve a mount-relative dashboard URL against the configured
resources and print the page, scripts and stylesheet it would render.

Examples:
  dashboard resolve /users
  dashboard resolve /users/events --body`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runResolve(cmd, cfg, args[0], withBody)
		},
	}

	cmd.Flags().BoolVarP(&withBody, "body", "b", false, "Include the page body HTML")

	return cmd
}

func runResolve(cmd *cobra.Command, cfg *config.Config, url string, withBody bool) error {
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}

	r := page.NewResolver(page.Config{
		Registry:  cfg.Registry(),
		Templates: templates.Pages(),
		Logger:    cfg.NewLogger(cmd.ErrOrStderr()),
	})

	opts, err := r.Load(cmd.Context(), url)
	if err != nil {
		return err
	}
	if opts.Empty() {
		names := make([]string, 0, len(cfg.Resources))
		for _, res := range cfg.Resources {
			names = append(names, strings.ToLower(res.Name))
		}
		e := errors.New("E150").WithDetail(url + " does not name a resource; the dashboard renders a blank page")
		if len(names) > 0 {
			e = e.WithSuggestion("Known resources: " + strings.Join(names, ", "))
		}
		return e
	}
	if !withBody {
		opts.BodyHTML = ""
	}

	return printJSON(cmd.OutOrStdout(), opts)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
