package invoice

import (
	"github.com/railzwaylabs/invoicefmt/internal/invoice/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.repository",
	fx.Provide(repository.NewRepository),
)
