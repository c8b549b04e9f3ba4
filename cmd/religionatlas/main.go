package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "religionatlas",
		Short:        "Static site generator for religious history and philosophy topics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bindSettings(cmd)
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().String("config", defaultConfigPath, "Project config file")
	root.PersistentFlags().String("schema", defaultSchemaPath, "Display schema file (embedded default when absent)")

	root.AddCommand(initCmd())
	root.AddCommand(buildCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(listCmd())
	root.AddCommand(showCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
