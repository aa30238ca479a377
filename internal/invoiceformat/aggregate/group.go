package aggregate

import (
	"cmp"
	"slices"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
	"github.com/samber/lo"
)

// chunkSize bounds the number of lines reduced into one partial grouping before the
// partials are combined.
const chunkSize = 64

// Reducer builds aggregates. Append and Combine mutate and return their first argument.
type Reducer struct{}

func (Reducer) Seed() *Item {
	return New()
}

func (Reducer) Append(agg *Item, item domain.Item) *Item {
	return agg.Add(item)
}

func (Reducer) Combine(a, b *Item) *Item {
	return a.AddAll(b)
}

type descriptionKey struct {
	present bool
	value   string
}

func keyOf(item domain.Item) descriptionKey {
	if d := item.Description(); d != nil {
		return descriptionKey{present: true, value: *d}
	}
	return descriptionKey{}
}

type partial map[descriptionKey]*Item

// GroupByDescription returns one aggregate per distinct description, ordered by where
// each description first appears in items. Descriptions are matched exactly; nil
// descriptions form their own group. Inputs of zero or one line are returned as is.
func GroupByDescription(items []domain.Item) []domain.Item {
	if len(items) <= 1 {
		return items
	}

	ordering := make(map[snowflake.ID]int, len(items))
	for i, item := range items {
		if _, ok := ordering[item.ID()]; !ok {
			ordering[item.ID()] = i
		}
	}

	var r Reducer
	partials := lo.Map(lo.Chunk(items, chunkSize), func(chunk []domain.Item, _ int) partial {
		groups := make(partial)
		for _, item := range chunk {
			key := keyOf(item)
			agg, ok := groups[key]
			if !ok {
				agg = r.Seed()
				groups[key] = agg
			}
			r.Append(agg, item)
		}
		return groups
	})

	merged := make(partial)
	for _, groups := range partials {
		for key, agg := range groups {
			if existing, ok := merged[key]; ok {
				r.Combine(existing, agg)
				continue
			}
			merged[key] = agg
		}
	}

	result := make([]*Item, 0, len(merged))
	for _, agg := range merged {
		result = append(result, agg)
	}
	slices.SortFunc(result, func(a, b *Item) int {
		return cmp.Compare(ordering[a.ID()], ordering[b.ID()])
	})

	return lo.Map(result, func(agg *Item, _ int) domain.Item { return agg })
}
