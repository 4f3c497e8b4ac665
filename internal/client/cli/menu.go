package cli

import (
	"context"
	"fmt"
	"strings"
)

// Menu lists menu items. An argument starting with '@' selects a category by
// name; remaining arguments form a full-text search on the item name.
//
//	menu
//	menu @Burgers
//	menu @Pizzas pepperoni
func (a *App) Menu(ctx context.Context, args []string) error {
	var categoryID string
	var terms []string

	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			id, err := a.resolveCategory(ctx, strings.TrimPrefix(arg, "@"))
			if err != nil {
				printlnFn(err.Error())
				return err
			}
			categoryID = id
			continue
		}
		terms = append(terms, arg)
	}

	items, err := a.menu.Menu(ctx, categoryID, strings.Join(terms, " "))
	if err != nil {
		printlnFn("Cannot load menu:", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("No menu items found.")
		return nil
	}

	for _, item := range items {
		printlnFn(fmt.Sprintf("%-28s %6.2f  %.1f★  %dkcal", item.Name, item.Price, item.Rating, item.Calories))
	}
	return nil
}

// Categories prints all categories.
func (a *App) Categories(ctx context.Context) error {
	cats, err := a.menu.Categories(ctx)
	if err != nil {
		printlnFn("Cannot load categories:", err)
		return err
	}
	if len(cats) == 0 {
		printlnFn("No categories yet. Run the seeder first.")
		return nil
	}
	for _, c := range cats {
		printlnFn(fmt.Sprintf("%-14s %s", c.Name, c.Description))
	}
	return nil
}

// resolveCategory maps a category name (case-insensitive) to its document id.
func (a *App) resolveCategory(ctx context.Context, name string) (string, error) {
	cats, err := a.menu.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot load categories: %w", err)
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}
