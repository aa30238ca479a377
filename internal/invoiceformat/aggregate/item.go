// Package aggregate folds invoice lines that share a description into summary lines.
package aggregate

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
	"github.com/shopspring/decimal"
)

// Item summarizes one or more lines. Amount is the sum of every constituent; all other
// accessors report the first constituent added. Calling one of those accessors before
// anything was added panics with domain.ErrEmptyAggregate.
type Item struct {
	items []domain.Item
}

var _ domain.FieldedItem = (*Item)(nil)

func New(items ...domain.Item) *Item {
	agg := &Item{}
	for _, item := range items {
		agg.Add(item)
	}
	return agg
}

// Add appends item and returns the aggregate.
func (a *Item) Add(item domain.Item) *Item {
	a.items = append(a.items, item)
	return a
}

// AddAll appends the constituents of other, keeping their order.
func (a *Item) AddAll(other *Item) *Item {
	if other != nil {
		a.items = append(a.items, other.items...)
	}
	return a
}

func (a *Item) Len() int {
	return len(a.items)
}

// Items returns the constituents in insertion order.
func (a *Item) Items() []domain.Item {
	out := make([]domain.Item, len(a.items))
	copy(out, a.items)
	return out
}

// Amount is the exact sum of the constituent amounts, zero when empty.
func (a *Item) Amount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range a.items {
		total = total.Add(item.Amount())
	}
	return total
}

func (a *Item) first() domain.Item {
	if len(a.items) == 0 {
		panic(domain.ErrEmptyAggregate)
	}
	return a.items[0]
}

// SubscriptionCustomFields reports the fields of the first constituent, or none when
// it carries no fields.
func (a *Item) SubscriptionCustomFields() []customfielddomain.CustomField {
	if fielded, ok := a.first().(domain.FieldedItem); ok {
		return fielded.SubscriptionCustomFields()
	}
	return []customfielddomain.CustomField{}
}

func (a *Item) ID() snowflake.ID                    { return a.first().ID() }
func (a *Item) InvoiceID() snowflake.ID             { return a.first().InvoiceID() }
func (a *Item) AccountID() snowflake.ID             { return a.first().AccountID() }
func (a *Item) SubscriptionID() *snowflake.ID       { return a.first().SubscriptionID() }
func (a *Item) LinkedItemID() *snowflake.ID         { return a.first().LinkedItemID() }
func (a *Item) Type() invoicedomain.InvoiceItemType { return a.first().Type() }
func (a *Item) Description() *string                { return a.first().Description() }
func (a *Item) Rate() *decimal.Decimal              { return a.first().Rate() }
func (a *Item) Quantity() *int                      { return a.first().Quantity() }
func (a *Item) Currency() string                    { return a.first().Currency() }
func (a *Item) PlanName() string                    { return a.first().PlanName() }
func (a *Item) PhaseName() string                   { return a.first().PhaseName() }
func (a *Item) ProductName() string                 { return a.first().ProductName() }
func (a *Item) UsageName() string                   { return a.first().UsageName() }
func (a *Item) PrettyPlanName() string              { return a.first().PrettyPlanName() }
func (a *Item) PrettyPhaseName() string             { return a.first().PrettyPhaseName() }
func (a *Item) PrettyProductName() string           { return a.first().PrettyProductName() }
func (a *Item) PrettyUsageName() string             { return a.first().PrettyUsageName() }
func (a *Item) ItemDetails() string                 { return a.first().ItemDetails() }
func (a *Item) StartDate() *time.Time               { return a.first().StartDate() }
func (a *Item) EndDate() *time.Time                 { return a.first().EndDate() }
func (a *Item) CreatedAt() time.Time                { return a.first().CreatedAt() }
func (a *Item) UpdatedAt() time.Time                { return a.first().UpdatedAt() }
