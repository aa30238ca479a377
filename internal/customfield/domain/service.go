package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// ListForAccount returns every custom field of the account, covering both
	// account-level and subscription-level fields.
	ListForAccount(ctx context.Context, accountID snowflake.ID) ([]CustomField, error)
}

var ErrInvalidAccount = errors.New("invalid_account")
