package invoiceformat

import (
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoiceformat.service",
	fx.Provide(service.NewFactory),
)
