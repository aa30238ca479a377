package migration

import (
	"context"

	"github.com/railzwaylabs/invoicefmt/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB, cfg config.Config, log *zap.Logger) {
		lc.Append(fx.StartHook(func(ctx context.Context) error {
			return Run(ctx, conn, cfg.Database.Driver, log.Named("migration"))
		}))
	}),
)
