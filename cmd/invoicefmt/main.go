package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/invoicefmt/internal/clock"
	"github.com/railzwaylabs/invoicefmt/internal/config"
	"github.com/railzwaylabs/invoicefmt/internal/currencyformat"
	"github.com/railzwaylabs/invoicefmt/internal/customfield"
	"github.com/railzwaylabs/invoicefmt/internal/invoice"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/service"
	"github.com/railzwaylabs/invoicefmt/internal/migration"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"github.com/railzwaylabs/invoicefmt/internal/redis"
	"github.com/railzwaylabs/invoicefmt/internal/server"
	"github.com/railzwaylabs/invoicefmt/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "invoicefmt",
		Short:   "Invoice presentation service",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newRenderCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var (
		invoiceID string
		locale    string
		pretty    bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the rendered snapshot of one invoice as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
			if err != nil {
				return fmt.Errorf("invalid --invoice %q: %w", invoiceID, err)
			}
			return runRender(cmd.Context(), id, locale, pretty)
		},
	}
	cmd.Flags().StringVar(&invoiceID, "invoice", "", "invoice id")
	cmd.Flags().StringVar(&locale, "locale", "", "BCP 47 locale, defaults to format.default_locale")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	_ = cmd.MarkFlagRequired("invoice")
	return cmd
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		redis.Module,
		invoice.Module,
		customfield.Module,
		currencyformat.Module,
		invoiceformat.Module,
	)
}

func runServe() {
	app := fx.New(
		coreModules(),
		server.Module,
	)
	app.Run()
}

func runRender(ctx context.Context, invoiceID snowflake.ID, locale string, pretty bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var factory *service.Factory
	app := fx.New(
		coreModules(),
		fx.NopLogger,
		fx.Populate(&factory),
	)

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() { _ = app.Stop(context.Background()) }()

	formatter, err := factory.Create(ctx, invoiceID, locale)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(formatter.Render(ctx))
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
