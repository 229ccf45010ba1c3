package main

import (
	"fmt"
	"os"

	"github.com/deployd-go/dashboard/internal/config"
	"github.com/deployd-go/dashboard/internal/errors"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Admin console for resource servers",
		Long: `dashboard serves the admin console for the resources declared in
dashboard.json (or dashboard.yaml).

Resource types can ship their own dashboard pages; everything else
gets the built-in editors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to dashboard.json or dashboard.yaml (default: search upwards from the working directory)")

	rootCmd.AddCommand(
		serveCmd(),
		resolveCmd(),
		configCmd(),
		scaffoldCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the file named by --config, or the project config
// found from the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadFromWorkingDir()
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
