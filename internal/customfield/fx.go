package customfield

import (
	"github.com/railzwaylabs/invoicefmt/internal/customfield/cache"
	"github.com/railzwaylabs/invoicefmt/internal/customfield/repository"
	"github.com/railzwaylabs/invoicefmt/internal/customfield/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customfield.service",
	fx.Provide(repository.Provide),
	fx.Provide(cache.NewCache),
	fx.Provide(service.New),
)
