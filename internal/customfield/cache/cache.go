package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/snappy"
	"github.com/railzwaylabs/invoicefmt/internal/config"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "customfields:account:"

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns nil when client is nil, which disables caching.
func NewCache(client *redis.Client, cfg config.Config) customfielddomain.Cache {
	if client == nil {
		return nil
	}
	return New(client, cfg.Redis.CustomFieldTTL)
}

func New(client *redis.Client, ttl time.Duration) customfielddomain.Cache {
	return &redisCache{client: client, ttl: ttl}
}

func key(accountID snowflake.ID) string {
	return keyPrefix + accountID.String()
}

func (c *redisCache) Get(ctx context.Context, accountID snowflake.ID) ([]customfielddomain.CustomField, bool, error) {
	raw, err := c.client.Get(ctx, key(accountID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	payload, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached custom fields: %w", err)
	}

	var fields []customfielddomain.CustomField
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached custom fields: %w", err)
	}
	return fields, true, nil
}

func (c *redisCache) Set(ctx context.Context, accountID snowflake.ID, fields []customfielddomain.CustomField) error {
	if fields == nil {
		fields = []customfielddomain.CustomField{}
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(accountID), snappy.Encode(nil, payload), c.ttl).Err()
}
