package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const cacheName = "custom_fields"

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    customfielddomain.Repository
	Cache   customfielddomain.Cache `optional:"true"`
	Metrics *observability.Metrics  `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	repo    customfielddomain.Repository
	cache   customfielddomain.Cache
	metrics *observability.Metrics
}

func New(p Params) customfielddomain.Service {
	return &Service{
		log:     p.Log.Named("customfield.service"),
		repo:    p.Repo,
		cache:   p.Cache,
		metrics: p.Metrics,
	}
}

// ListForAccount reads through the cache. Cache failures are logged and the
// repository is used instead.
func (s *Service) ListForAccount(ctx context.Context, accountID snowflake.ID) ([]customfielddomain.CustomField, error) {
	if accountID == 0 {
		return nil, customfielddomain.ErrInvalidAccount
	}

	if s.cache != nil {
		fields, ok, err := s.cache.Get(ctx, accountID)
		switch {
		case err != nil:
			s.log.Warn("custom field cache read failed", zap.String("account_id", accountID.String()), zap.Error(err))
		case ok:
			s.recordHit()
			return fields, nil
		default:
			s.recordMiss()
		}
	}

	fields, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		s.log.Error("failed to list custom fields", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, accountID, fields); err != nil {
			s.log.Warn("custom field cache write failed", zap.String("account_id", accountID.String()), zap.Error(err))
		}
	}
	return fields, nil
}

func (s *Service) recordHit() {
	if s.metrics != nil {
		s.metrics.IncrCacheHit(cacheName)
	}
}

func (s *Service) recordMiss() {
	if s.metrics != nil {
		s.metrics.IncrCacheMiss(cacheName)
	}
}
