// Package compare orders custom fields and invoice items for presentation.
package compare

import (
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"

	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
)

// CompareNames orders two optional strings case-insensitively. A nil string sorts
// before any non-nil one. Runes are compared by code point after folding, not by
// locale collation.
func CompareNames(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return foldCompare(*a, *b)
}

// EqualNames reports whether two optional strings are equal ignoring case.
func EqualNames(a, b *string) bool {
	return CompareNames(a, b) == 0
}

func foldCompare(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		a, b = a[na:], b[nb:]
		if ra == rb {
			continue
		}
		ra, rb = unicode.ToUpper(ra), unicode.ToUpper(rb)
		if ra == rb {
			continue
		}
		ra, rb = unicode.ToLower(ra), unicode.ToLower(rb)
		if ra != rb {
			return sign(int(ra) - int(rb))
		}
	}
	return sign(len(a) - len(b))
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// CompareFieldNames orders custom fields by name.
func CompareFieldNames(a, b customfielddomain.CustomField) int {
	return CompareNames(a.Name, b.Name)
}

// SortFieldsByName returns a copy of fields stably sorted by name.
func SortFieldsByName(fields []customfielddomain.CustomField) []customfielddomain.CustomField {
	sorted := slices.Clone(fields)
	slices.SortStableFunc(sorted, CompareFieldNames)
	return sorted
}

// FieldsThenDescription orders items by their subscription custom fields and then by
// description.
//
// Fields are only considered when both items carry them. An item without fields sorts
// before one with fields. Otherwise both field lists are sorted by name and walked
// pairwise up to the shorter length: the first pair whose names differ ends the walk,
// and the first pair with equal names but different values decides the order. When the
// fields do not decide, descriptions are compared. A difference in the number of
// fields alone never decides the order. A nil item, including a nil pointer held in
// the interface, sorts first.
func FieldsThenDescription(a, b domain.Item) int {
	nilA, nilB := isNil(a), isNil(b)
	switch {
	case nilA && nilB:
		return 0
	case nilA:
		return -1
	case nilB:
		return 1
	}

	fa, okA := a.(domain.FieldedItem)
	fb, okB := b.(domain.FieldedItem)
	if okA && okB {
		if order := compareFields(fa.SubscriptionCustomFields(), fb.SubscriptionCustomFields()); order != 0 {
			return order
		}
	}
	return CompareNames(a.Description(), b.Description())
}

func isNil(item domain.Item) bool {
	if item == nil {
		return true
	}
	v := reflect.ValueOf(item)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func compareFields(left, right []customfielddomain.CustomField) int {
	switch {
	case len(left) == 0 && len(right) > 0:
		return -1
	case len(left) > 0 && len(right) == 0:
		return 1
	case len(left) == 0:
		return 0
	}

	left, right = SortFieldsByName(left), SortFieldsByName(right)
	for i := range min(len(left), len(right)) {
		if !EqualNames(left[i].Name, right[i].Name) {
			break
		}
		if order := CompareNames(left[i].Value, right[i].Value); order != 0 {
			return order
		}
	}
	return 0
}

// SortItems returns a copy of items stably sorted with FieldsThenDescription.
func SortItems(items []domain.Item) []domain.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, FieldsThenDescription)
	return sorted
}
