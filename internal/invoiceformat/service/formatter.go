package service

import (
	"context"
	"time"

	"github.com/railzwaylabs/invoicefmt/internal/clock"
	"github.com/railzwaylabs/invoicefmt/internal/currencyformat"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/aggregate"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/compare"
	formatdomain "github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Formatter exposes the presentation views of one invoice. It is meant for a single
// rendering pass; every view shares the lines decorated by its ItemList.
type Formatter struct {
	invoice invoicedomain.Invoice
	items   *ItemList
	tag     language.Tag
	money   currencyformat.Formatter
	clock   clock.Clock
	metrics *observability.Metrics
}

func NewFormatter(invoice invoicedomain.Invoice, items *ItemList, tag language.Tag, money currencyformat.Formatter, clk clock.Clock) *Formatter {
	if items == nil {
		items = NewItemList(nil, nil)
	}
	if money == nil {
		money = currencyformat.NewImplicitSymbol()
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Formatter{
		invoice: invoice,
		items:   items,
		tag:     tag,
		money:   money,
		clock:   clk,
	}
}

func (f *Formatter) Invoice() invoicedomain.Invoice { return f.invoice }
func (f *Formatter) Locale() language.Tag            { return f.tag }
func (f *Formatter) Currency() string                { return f.invoice.Currency }

// Items returns every decorated line in invoice order.
func (f *Formatter) Items() []formatdomain.Item {
	items := f.items.Items()
	out := make([]formatdomain.Item, len(items))
	copy(out, items)
	return out
}

func (f *Formatter) NonTaxItems() []formatdomain.Item {
	return lo.Reject(f.items.Items(), isTax)
}

func (f *Formatter) TaxItems() []formatdomain.Item {
	return lo.Filter(f.items.Items(), isTax)
}

// NonTaxItemsSortedByCustomFields orders charges by their subscription custom fields,
// then by description.
func (f *Formatter) NonTaxItemsSortedByCustomFields() []formatdomain.Item {
	return compare.SortItems(f.NonTaxItems())
}

// TaxItemsGroupedByDescription returns one line per tax description, in the order the
// descriptions first appear.
func (f *Formatter) TaxItemsGroupedByDescription() []formatdomain.Item {
	return aggregate.GroupByDescription(f.TaxItems())
}

func (f *Formatter) TaxAmount() decimal.Decimal {
	return sum(f.TaxItems())
}

func (f *Formatter) NonTaxChargedAmount() decimal.Decimal {
	return sum(f.NonTaxItems())
}

func (f *Formatter) ChargedAmount() decimal.Decimal {
	return sum(f.items.Items())
}

func (f *Formatter) PaidAmount() decimal.Decimal {
	return f.invoice.PaidAmount
}

func (f *Formatter) Balance() decimal.Decimal {
	return f.ChargedAmount().Sub(f.PaidAmount())
}

// CustomFields returns every custom field of the account, at any level.
func (f *Formatter) CustomFields() []customfielddomain.CustomField {
	return f.items.CustomFields()
}

func (f *Formatter) FormattedAmount(item formatdomain.Item) string {
	if item == nil {
		return f.format(decimal.Zero)
	}
	return f.format(item.Amount())
}

func (f *Formatter) FormattedTaxAmount() string {
	return f.format(f.TaxAmount())
}

func (f *Formatter) FormattedNonTaxChargedAmount() string {
	return f.format(f.NonTaxChargedAmount())
}

func (f *Formatter) FormattedChargedAmount() string {
	return f.format(f.ChargedAmount())
}

func (f *Formatter) FormattedPaidAmount() string {
	return f.format(f.PaidAmount())
}

func (f *Formatter) FormattedBalance() string {
	return f.format(f.Balance())
}

// Render builds the JSON snapshot of the invoice.
func (f *Formatter) Render(ctx context.Context) formatdomain.RenderedInvoice {
	start := time.Now()
	defer func() {
		if f.metrics != nil {
			f.metrics.RecordRenderDuration(time.Since(start))
		}
	}()

	charged, nonTax, tax, paid := f.ChargedAmount(), f.NonTaxChargedAmount(), f.TaxAmount(), f.PaidAmount()
	balance := charged.Sub(paid)

	accountFields := lo.Filter(f.CustomFields(), func(cf customfielddomain.CustomField, _ int) bool {
		return cf.ObjectType == customfielddomain.ObjectTypeAccount
	})

	return formatdomain.RenderedInvoice{
		InvoiceID:     f.invoice.ID.String(),
		InvoiceNumber: f.invoice.InvoiceNumber,
		AccountID:     f.invoice.AccountID.String(),
		Status:        string(f.invoice.Status),
		Currency:      f.invoice.Currency,
		Locale:        f.tag.String(),
		InvoiceDate:   f.invoice.InvoiceDate,
		Items:         lo.Map(f.Items(), f.renderItem),
		NonTaxItems:   lo.Map(f.NonTaxItemsSortedByCustomFields(), f.renderItem),
		TaxItems:      lo.Map(f.TaxItemsGroupedByDescription(), f.renderItem),
		Totals: formatdomain.RenderedTotals{
			Charged:          charged,
			FormattedCharged: f.format(charged),
			NonTax:           nonTax,
			FormattedNonTax:  f.format(nonTax),
			Tax:              tax,
			FormattedTax:     f.format(tax),
			Paid:             paid,
			FormattedPaid:    f.format(paid),
			Balance:          balance,
			FormattedBalance: f.format(balance),
		},
		AccountFields: renderFields(accountFields),
		GeneratedAt:   f.clock.Now(ctx),
	}
}

func (f *Formatter) renderItem(item formatdomain.Item, _ int) formatdomain.RenderedItem {
	rendered := formatdomain.RenderedItem{
		ID:                item.ID().String(),
		Type:              string(item.Type()),
		Description:       item.Description(),
		Amount:            item.Amount(),
		FormattedAmount:   f.FormattedAmount(item),
		Currency:          item.Currency(),
		PrettyPlanName:    item.PrettyPlanName(),
		PrettyPhaseName:   item.PrettyPhaseName(),
		PrettyProductName: item.PrettyProductName(),
		PrettyUsageName:   item.PrettyUsageName(),
		StartDate:         item.StartDate(),
		EndDate:           item.EndDate(),
		CustomFields:      []formatdomain.RenderedField{},
	}
	if id := item.SubscriptionID(); id != nil {
		rendered.SubscriptionID = id.String()
	}
	if agg, ok := item.(*aggregate.Item); ok {
		rendered.Count = agg.Len()
	}
	if fielded, ok := item.(formatdomain.FieldedItem); ok {
		rendered.CustomFields = renderFields(fielded.SubscriptionCustomFields())
	}
	return rendered
}

func renderFields(fields []customfielddomain.CustomField) []formatdomain.RenderedField {
	return lo.Map(fields, func(cf customfielddomain.CustomField, _ int) formatdomain.RenderedField {
		return formatdomain.RenderedField{Name: cf.Name, Value: cf.Value}
	})
}

func (f *Formatter) format(amount decimal.Decimal) string {
	return f.money.Format(amount, f.invoice.Currency, f.tag)
}

func isTax(item formatdomain.Item, _ int) bool {
	return formatdomain.IsTax(item)
}

func sum(items []formatdomain.Item) decimal.Decimal {
	return lo.Reduce(items, func(total decimal.Decimal, item formatdomain.Item, _ int) decimal.Decimal {
		return total.Add(item.Amount())
	}, decimal.Zero)
}
