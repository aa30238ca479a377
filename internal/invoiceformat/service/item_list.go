package service

import (
	"sync"

	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	formatdomain "github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"github.com/samber/lo"
)

// ItemSupplier returns the raw lines of one invoice in invoice order.
type ItemSupplier func() []formatdomain.Item

// ItemList decorates the lines of an invoice on first access and keeps the result.
// The supplier is called at most once, even under concurrent access.
type ItemList struct {
	supplier ItemSupplier
	fields   []customfielddomain.CustomField
	metrics  *observability.Metrics

	once  sync.Once
	items []formatdomain.Item
}

func NewItemList(supplier ItemSupplier, fields []customfielddomain.CustomField) *ItemList {
	if fields == nil {
		fields = []customfielddomain.CustomField{}
	}
	return &ItemList{supplier: supplier, fields: fields}
}

// Items returns the decorated lines. The returned slice is shared; callers must not
// modify it.
func (l *ItemList) Items() []formatdomain.Item {
	l.once.Do(l.load)
	return l.items
}

// CustomFields returns every custom field of the account.
func (l *ItemList) CustomFields() []customfielddomain.CustomField {
	return l.fields
}

func (l *ItemList) load() {
	var raw []formatdomain.Item
	if l.supplier != nil {
		raw = l.supplier()
	}
	if l.metrics != nil {
		l.metrics.RecordSupplierInvocation(len(raw))
	}
	l.items = lo.Map(raw, func(item formatdomain.Item, _ int) formatdomain.Item {
		return NewExtendedItem(item, l.fields)
	})
}
