package main

import (
	"github.com/railzwaylabs/invoicefmt/internal/clock"
	"github.com/railzwaylabs/invoicefmt/internal/config"
	"github.com/railzwaylabs/invoicefmt/internal/currencyformat"
	"github.com/railzwaylabs/invoicefmt/internal/customfield"
	"github.com/railzwaylabs/invoicefmt/internal/invoice"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"github.com/railzwaylabs/invoicefmt/internal/redis"
	"github.com/railzwaylabs/invoicefmt/internal/server"
	"github.com/railzwaylabs/invoicefmt/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		redis.Module,

		invoice.Module,
		customfield.Module,
		currencyformat.Module,
		invoiceformat.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterSystemRoutes()
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}
