package services

import (
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
)

// ShoppingListItem is one consolidated line of a shopping list
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

type shoppingListKey struct {
	name string
	unit string
}

// AggregateShoppingList sums ingredient amounts across the cart's recipes.
// Ingredients with the same name and unit share one item, in first-seen order.
func AggregateShoppingList(carts []models.ShoppingCart) []ShoppingListItem {
	index := make(map[shoppingListKey]int)
	var items []ShoppingListItem

	for _, cart := range carts {
		for _, ri := range cart.Recipe.Ingredients {
			key := shoppingListKey{name: ri.Ingredient.Name, unit: ri.Ingredient.MeasurementUnit}
			if i, ok := index[key]; ok {
				items[i].Amount += ri.Amount
				continue
			}
			index[key] = len(items)
			items = append(items, ShoppingListItem{
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
	}
	return items
}

// RenderShoppingList formats items as "<name>: <amount> <unit>." lines
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s.\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
