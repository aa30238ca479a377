// Package domain contains persistence models for invoices and their line items.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusFinalized InvoiceStatus = "finalized"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusVoid      InvoiceStatus = "void"
)

// InvoiceItemType classifies a line item. Only ItemTypeTax is treated specially when
// formatting; every other type is a charge.
type InvoiceItemType string

const (
	ItemTypeRecurring      InvoiceItemType = "recurring"
	ItemTypeUsage          InvoiceItemType = "usage"
	ItemTypeTax            InvoiceItemType = "tax"
	ItemTypeFixed          InvoiceItemType = "fixed"
	ItemTypeCreditAdj      InvoiceItemType = "credit_adj"
	ItemTypeItemAdj        InvoiceItemType = "item_adj"
	ItemTypeCBAAdj         InvoiceItemType = "cba_adj"
	ItemTypeRepairAdj      InvoiceItemType = "repair_adj"
	ItemTypeExternalCharge InvoiceItemType = "external_charge"
	ItemTypeParentSummary  InvoiceItemType = "parent_summary"
)

// Invoice is the header row of an invoice.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	AccountID     snowflake.ID      `gorm:"not null;index" json:"account_id"`
	InvoiceNumber string            `gorm:"type:text;not null" json:"invoice_number"`
	Currency      string            `gorm:"type:text;not null" json:"currency"`
	Status        InvoiceStatus     `gorm:"type:text;not null" json:"status"`
	PaidAmount    decimal.Decimal   `gorm:"type:numeric;not null;default:0" json:"paid_amount"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	InvoiceDate   time.Time         `gorm:"not null" json:"invoice_date"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is one line of an invoice. Rows are never modified once the invoice is
// finalized.
type InvoiceItem struct {
	ID                snowflake.ID     `gorm:"primaryKey" json:"id"`
	InvoiceID         snowflake.ID     `gorm:"not null;index" json:"invoice_id"`
	AccountID         snowflake.ID     `gorm:"not null;index" json:"account_id"`
	SubscriptionID    *snowflake.ID    `gorm:"index" json:"subscription_id,omitempty"`
	LinkedItemID      *snowflake.ID    `json:"linked_item_id,omitempty"`
	ItemType          InvoiceItemType  `gorm:"type:text;not null" json:"item_type"`
	Description       *string          `gorm:"type:text" json:"description,omitempty"`
	Amount            decimal.Decimal  `gorm:"type:numeric;not null" json:"amount"`
	Rate              *decimal.Decimal `gorm:"type:numeric" json:"rate,omitempty"`
	Quantity          *int             `json:"quantity,omitempty"`
	Currency          string           `gorm:"type:text;not null" json:"currency"`
	PlanName          string           `gorm:"type:text" json:"plan_name,omitempty"`
	PhaseName         string           `gorm:"type:text" json:"phase_name,omitempty"`
	ProductName       string           `gorm:"type:text" json:"product_name,omitempty"`
	UsageName         string           `gorm:"type:text" json:"usage_name,omitempty"`
	PrettyPlanName    string           `gorm:"type:text" json:"pretty_plan_name,omitempty"`
	PrettyPhaseName   string           `gorm:"type:text" json:"pretty_phase_name,omitempty"`
	PrettyProductName string           `gorm:"type:text" json:"pretty_product_name,omitempty"`
	PrettyUsageName   string           `gorm:"type:text" json:"pretty_usage_name,omitempty"`
	ItemDetails       string           `gorm:"type:text" json:"item_details,omitempty"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }
