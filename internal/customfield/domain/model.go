// Package domain contains the custom field model attached to accounts and their
// subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ObjectType names the kind of entity a custom field is attached to.
type ObjectType string

const (
	ObjectTypeAccount      ObjectType = "account"
	ObjectTypeSubscription ObjectType = "subscription"
)

// CustomField is a free-form name/value annotation. Name and Value are nullable;
// legacy rows without a name still exist and must be tolerated.
type CustomField struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID  snowflake.ID `gorm:"not null;index" json:"account_id"`
	ObjectType ObjectType   `gorm:"type:text;not null" json:"object_type"`
	ObjectID   snowflake.ID `gorm:"not null;index" json:"object_id"`
	Name       *string      `gorm:"type:text" json:"name"`
	Value      *string      `gorm:"type:text" json:"value"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CustomField) TableName() string { return "custom_fields" }

// FieldName returns the name or "" when absent.
func (f CustomField) FieldName() string {
	if f.Name == nil {
		return ""
	}
	return *f.Name
}

// FieldValue returns the value or "" when absent.
func (f CustomField) FieldValue() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}
