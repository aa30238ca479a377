package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	ListByAccount(ctx context.Context, accountID snowflake.ID) ([]CustomField, error)
}

// Cache stores the custom fields of an account. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, accountID snowflake.ID) ([]CustomField, bool, error)
	Set(ctx context.Context, accountID snowflake.ID, fields []CustomField) error
}
