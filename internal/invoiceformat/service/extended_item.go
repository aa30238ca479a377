package service

import (
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	formatdomain "github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
	"github.com/samber/lo"
)

// ExtendedItem attaches the custom fields of an account to one of its invoice lines.
// Every Item accessor is served by the wrapped line.
type ExtendedItem struct {
	formatdomain.Item
	fields []customfielddomain.CustomField
}

var _ formatdomain.FieldedItem = (*ExtendedItem)(nil)

// NewExtendedItem wraps item. fields is the full set of custom fields of the account;
// it is filtered on access.
func NewExtendedItem(item formatdomain.Item, fields []customfielddomain.CustomField) *ExtendedItem {
	return &ExtendedItem{Item: item, fields: fields}
}

// SubscriptionCustomFields returns the fields attached to the subscription of this
// line. Lines without a subscription have none.
func (e *ExtendedItem) SubscriptionCustomFields() []customfielddomain.CustomField {
	subscriptionID := e.SubscriptionID()
	if subscriptionID == nil || len(e.fields) == 0 {
		return []customfielddomain.CustomField{}
	}
	return lo.Filter(e.fields, func(f customfielddomain.CustomField, _ int) bool {
		return f.ObjectType == customfielddomain.ObjectTypeSubscription && f.ObjectID == *subscriptionID
	})
}
