// Package domain defines the item abstraction the invoice formatter works with and the
// JSON views it renders.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAggregate = errors.New("empty_aggregate")
	ErrInvalidLocale  = errors.New("invalid_locale")
)

// Item is the read-only view of one invoice line.
type Item interface {
	ID() snowflake.ID
	InvoiceID() snowflake.ID
	AccountID() snowflake.ID
	SubscriptionID() *snowflake.ID
	LinkedItemID() *snowflake.ID
	Type() invoicedomain.InvoiceItemType
	Description() *string
	Amount() decimal.Decimal
	Rate() *decimal.Decimal
	Quantity() *int
	Currency() string
	PlanName() string
	PhaseName() string
	ProductName() string
	UsageName() string
	PrettyPlanName() string
	PrettyPhaseName() string
	PrettyProductName() string
	PrettyUsageName() string
	ItemDetails() string
	StartDate() *time.Time
	EndDate() *time.Time
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// FieldedItem is an Item that carries the custom fields of its subscription.
type FieldedItem interface {
	Item
	SubscriptionCustomFields() []customfielddomain.CustomField
}

// IsTax reports whether the item is a tax line.
func IsTax(item Item) bool {
	return item != nil && item.Type() == invoicedomain.ItemTypeTax
}

// Line adapts a stored invoice item to Item.
type Line struct {
	row invoicedomain.InvoiceItem
}

func NewLine(row invoicedomain.InvoiceItem) *Line {
	return &Line{row: row}
}

// Lines converts stored rows, keeping their order.
func Lines(rows []invoicedomain.InvoiceItem) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewLine(row))
	}
	return items
}

func (l *Line) ID() snowflake.ID                    { return l.row.ID }
func (l *Line) InvoiceID() snowflake.ID             { return l.row.InvoiceID }
func (l *Line) AccountID() snowflake.ID             { return l.row.AccountID }
func (l *Line) SubscriptionID() *snowflake.ID       { return l.row.SubscriptionID }
func (l *Line) LinkedItemID() *snowflake.ID         { return l.row.LinkedItemID }
func (l *Line) Type() invoicedomain.InvoiceItemType { return l.row.ItemType }
func (l *Line) Description() *string                { return l.row.Description }
func (l *Line) Amount() decimal.Decimal             { return l.row.Amount }
func (l *Line) Rate() *decimal.Decimal              { return l.row.Rate }
func (l *Line) Quantity() *int                      { return l.row.Quantity }
func (l *Line) Currency() string                    { return l.row.Currency }
func (l *Line) PlanName() string                    { return l.row.PlanName }
func (l *Line) PhaseName() string                   { return l.row.PhaseName }
func (l *Line) ProductName() string                 { return l.row.ProductName }
func (l *Line) UsageName() string                   { return l.row.UsageName }
func (l *Line) PrettyPlanName() string              { return l.row.PrettyPlanName }
func (l *Line) PrettyPhaseName() string             { return l.row.PrettyPhaseName }
func (l *Line) PrettyProductName() string           { return l.row.PrettyProductName }
func (l *Line) PrettyUsageName() string             { return l.row.PrettyUsageName }
func (l *Line) ItemDetails() string                 { return l.row.ItemDetails }
func (l *Line) StartDate() *time.Time               { return l.row.StartDate }
func (l *Line) EndDate() *time.Time                 { return l.row.EndDate }
func (l *Line) CreatedAt() time.Time                { return l.row.CreatedAt }
func (l *Line) UpdatedAt() time.Time                { return l.row.UpdatedAt }
