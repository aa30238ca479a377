package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenderedField is a custom field as exposed to presentation callers.
type RenderedField struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

// RenderedItem is one line of a rendered invoice. Aggregated tax lines report the
// number of lines they summarize in Count.
type RenderedItem struct {
	ID                string          `json:"id"`
	SubscriptionID    string          `json:"subscription_id,omitempty"`
	Type              string          `json:"type"`
	Description       *string         `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	FormattedAmount   string          `json:"formatted_amount"`
	Currency          string          `json:"currency"`
	PrettyPlanName    string          `json:"pretty_plan_name,omitempty"`
	PrettyPhaseName   string          `json:"pretty_phase_name,omitempty"`
	PrettyProductName string          `json:"pretty_product_name,omitempty"`
	PrettyUsageName   string          `json:"pretty_usage_name,omitempty"`
	StartDate         *time.Time      `json:"start_date,omitempty"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	Count             int             `json:"count,omitempty"`
	CustomFields      []RenderedField `json:"custom_fields"`
}

// RenderedTotals groups the invoice amounts with their formatted forms.
type RenderedTotals struct {
	Charged          decimal.Decimal `json:"charged"`
	FormattedCharged string          `json:"formatted_charged"`
	NonTax           decimal.Decimal `json:"non_tax"`
	FormattedNonTax  string          `json:"formatted_non_tax"`
	Tax              decimal.Decimal `json:"tax"`
	FormattedTax     string          `json:"formatted_tax"`
	Paid             decimal.Decimal `json:"paid"`
	FormattedPaid    string          `json:"formatted_paid"`
	Balance          decimal.Decimal `json:"balance"`
	FormattedBalance string          `json:"formatted_balance"`
}

// RenderedInvoice is the presentation snapshot of one invoice.
type RenderedInvoice struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	AccountID     string          `json:"account_id"`
	Status        string          `json:"status"`
	Currency      string          `json:"currency"`
	Locale        string          `json:"locale"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	Items         []RenderedItem  `json:"items"`
	NonTaxItems   []RenderedItem  `json:"non_tax_items"`
	TaxItems      []RenderedItem  `json:"tax_items"`
	Totals        RenderedTotals  `json:"totals"`
	AccountFields []RenderedField `json:"account_fields"`
	GeneratedAt   time.Time       `json:"generated_at"`
}
