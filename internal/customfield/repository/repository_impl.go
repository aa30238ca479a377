package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) customfielddomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListByAccount(ctx context.Context, accountID snowflake.ID) ([]customfielddomain.CustomField, error) {
	var fields []customfielddomain.CustomField
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&fields).Error
	return fields, err
}
