package plan

import (
	"sort"
	"strings"
)

// ShoppingItem is one consolidated shopping list entry.
type ShoppingItem struct {
	Ingredient string
	Count      int
}

// ShoppingList is the plan-wide consolidated ingredient list.
// TotalUnique counts every distinct token; Items may be truncated to a
// bounded display prefix.
type ShoppingList struct {
	TotalUnique int
	Items       []ShoppingItem
}

// maxShoppingItems bounds the displayed item prefix. Counts are taken over
// the full token set regardless.
const maxShoppingItems = 200

// BuildShoppingList tokenizes every meal's ingredient list to lowercased
// trimmed strings, counts occurrences across the whole plan, and sorts by
// descending count then ascending name.
func BuildShoppingList(days []DayPlan) ShoppingList {
	counts := make(map[string]int)
	for _, d := range days {
		for _, m := range d.Meals {
			for _, ing := range m.Recipe.IngredientNames() {
				token := strings.ToLower(strings.TrimSpace(ing))
				if token == "" {
					continue
				}
				counts[token]++
			}
		}
	}

	items := make([]ShoppingItem, 0, len(counts))
	for ing, n := range counts {
		items = append(items, ShoppingItem{Ingredient: ing, Count: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Ingredient < items[j].Ingredient
	})

	list := ShoppingList{TotalUnique: len(items)}
	if len(items) > maxShoppingItems {
		items = items[:maxShoppingItems]
	}
	list.Items = items
	return list
}
