package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	gatex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/gate"
	indexx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/index"
	matchx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/match"
	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
	storex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/store"
)

const (
	ToolCartSearch   = "cart.search"
	ToolCartAdd      = "cart.add"
	ToolCartRemove   = "cart.remove"
	ToolCartQuantity = "cart.quantity"
	ToolCartSummary  = "cart.summary"
	ToolCartRecipe   = "cart.recipe"
	ToolCartOrder    = "cart.order"
)

// recipes maps a dish to the catalog item names it needs.
var recipes = map[string][]string{
	"pasta":                  {"Spaghetti Pasta (500g)", "Tomato Pasta Sauce (400ml)", "Cheddar Cheese (200g)"},
	"sandwich":               {"Whole Wheat Bread", "Chicken Deli Meat (200g)", "Cheddar Cheese (200g)"},
	"peanut butter sandwich": {"Whole Wheat Bread", "Peanut Butter (500g)"},
	"breakfast":              {"Eggs (12 pack)", "Whole Wheat Bread", "Fresh Milk (1L)", "Granola Cereal (400g)"},
	"pizza":                  {"Frozen Margherita Pizza"},
	"salad":                  {"Fresh Spinach (500g)", "Fresh Tomatoes (1kg)", "Red Apples (1kg)"},
	"coffee":                 {"Instant Coffee (200g)", "Fresh Milk (1L)"},
}

func retailSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name: ToolCartSearch,
			Desc: "Search the catalog by free text or by category, maximum price, and color filters.",
			Params: []contractx.ParamSpec{
				{Name: "query", Type: contractx.ParamString, Desc: "Free-text search over names, categories, and tags"},
				{Name: "category", Type: contractx.ParamString, Desc: "Category filter, e.g. mug, t-shirt, hoodie"},
				{Name: "maxPrice", Type: contractx.ParamNumber, Desc: "Maximum price"},
				{Name: "color", Type: contractx.ParamString, Desc: "Exact color, e.g. black, white"},
			},
		},
		{
			Name: ToolCartAdd,
			Desc: "Add a catalog item to the cart by id or name.",
			Params: []contractx.ParamSpec{
				{Name: "itemRef", Type: contractx.ParamString, Desc: "Product id or exact name", Required: true},
				{Name: "quantity", Type: contractx.ParamNumber, Desc: "How many to add, default 1"},
			},
		},
		{
			Name: ToolCartRemove,
			Desc: "Remove an item from the cart entirely.",
			Params: []contractx.ParamSpec{
				{Name: "itemRef", Type: contractx.ParamString, Desc: "Product id or name", Required: true},
			},
		},
		{
			Name: ToolCartQuantity,
			Desc: "Change the quantity of an item already in the cart.",
			Params: []contractx.ParamSpec{
				{Name: "itemRef", Type: contractx.ParamString, Desc: "Product id or name", Required: true},
				{Name: "quantity", Type: contractx.ParamNumber, Desc: "New quantity, at least 1", Required: true},
			},
		},
		{
			Name: ToolCartSummary,
			Desc: "Read back everything in the cart with the grand total.",
		},
		{
			Name: ToolCartRecipe,
			Desc: "Add the ingredients for a dish to the cart.",
			Params: []contractx.ParamSpec{
				{Name: "dish", Type: contractx.ParamString, Desc: "Dish name, e.g. pasta, sandwich, breakfast", Required: true},
			},
		},
		{
			Name: ToolCartOrder,
			Desc: "Place the order from the current cart and clear it.",
			Params: []contractx.ParamSpec{
				{Name: "buyer", Type: contractx.ParamString, Desc: "Buyer name, defaults to Customer"},
				{Name: "address", Type: contractx.ParamString, Desc: "Delivery address"},
			},
		},
	}
}

func retailExecutor(deps Deps) Executor {
	return func(ctx context.Context, sess *sessionx.Session, tool string, args map[string]any) (contractx.ToolResult, error) {
		wf := gatex.For(contractx.FamilyRetail)
		now := deps.Now()

		switch tool {
		case ToolCartSearch:
			return searchCatalog(deps, tool, args), nil

		case ToolCartAdd:
			ref, ok := stringArg(args, "itemRef")
			if !ok {
				return reply(tool, "Which item would you like to add?"), nil
			}
			quantity, ok := intArg(args, "quantity")
			if !ok {
				quantity = 1
			}
			if quantity < 1 {
				return reply(tool, "Quantity must be at least 1."), nil
			}
			item, err := resolveItem(deps.Catalog, ref)
			if err != nil {
				log.Warn().Str("item", ref).Msg("item not in catalog")
				return reply(tool, fmt.Sprintf("I couldn't find '%s' in our catalog. Would you like me to search for something similar?", ref)), nil
			}
			line := sess.MergeLine(item.ID, sessionx.Line{
				Name:      item.Name,
				UnitPrice: item.Price,
				Quantity:  quantity,
				Category:  item.Category,
			})
			wf.OnSlotFilled(sess, now)
			log.Info().Str("item", item.ID).Int("quantity", line.Quantity).Msg("cart add")
			return reply(tool, fmt.Sprintf("Great! I've added %d %s to your cart at ₹%s each.",
				quantity, item.Name, formatPrice(item.Price))), nil

		case ToolCartRemove:
			ref, ok := stringArg(args, "itemRef")
			if !ok {
				return reply(tool, "Which item should I remove?"), nil
			}
			id := cartLineID(sess, ref)
			if id == "" {
				return reply(tool, fmt.Sprintf("I don't see '%s' in your cart. Would you like to add something else?", ref)), nil
			}
			removed, _ := sess.RemoveLine(id)
			sess.Touch(now)
			return reply(tool, fmt.Sprintf("Done! I've removed %s from your cart.", removed.Name)), nil

		case ToolCartQuantity:
			ref, ok := stringArg(args, "itemRef")
			if !ok {
				return reply(tool, "Which item should I update?"), nil
			}
			quantity, ok := intArg(args, "quantity")
			if !ok || quantity < 1 {
				return reply(tool, "Quantity must be at least 1. If you want to remove this item, just say so!"), nil
			}
			id := cartLineID(sess, ref)
			if id == "" {
				return reply(tool, fmt.Sprintf("I don't see '%s' in your cart. Would you like to add it first?", ref)), nil
			}
			sess.SetQuantity(id, quantity)
			line := sess.Lines[id]
			sess.Touch(now)
			return reply(tool, fmt.Sprintf("Updated! You now have %d %s in your cart at a total of ₹%s.",
				quantity, line.Name, formatPrice(float64(quantity)*line.UnitPrice))), nil

		case ToolCartSummary:
			if len(sess.Lines) == 0 {
				return reply(tool, "Your cart is empty. What would you like to order?"), nil
			}
			var b strings.Builder
			b.WriteString("Here's what's in your cart:\n")
			for _, id := range sortedLineIDs(sess) {
				line := sess.Lines[id]
				b.WriteString(fmt.Sprintf("- %dx %s: ₹%s\n",
					line.Quantity, line.Name, formatPrice(float64(line.Quantity)*line.UnitPrice)))
			}
			b.WriteString(fmt.Sprintf("\nTotal: ₹%s", formatPrice(sess.Total())))
			return reply(tool, b.String()), nil

		case ToolCartRecipe:
			dish, ok := stringArg(args, "dish")
			if !ok {
				return reply(tool, "Which dish would you like ingredients for?"), nil
			}
			ingredients, found := recipes[strings.ToLower(dish)]
			if !found {
				log.Warn().Str("dish", dish).Msg("no recipe")
				return reply(tool, fmt.Sprintf("I don't have a recipe for '%s'. Would you like me to suggest something else?", dish)), nil
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("For %s, I'll add:\n", dish))
			for _, name := range ingredients {
				item, err := deps.Catalog.ByName(name)
				if err != nil {
					b.WriteString(fmt.Sprintf("- %s (not in catalog)\n", name))
					continue
				}
				if _, inCart := sess.Lines[item.ID]; inCart {
					b.WriteString(fmt.Sprintf("- %s (already in cart)\n", item.Name))
					continue
				}
				sess.MergeLine(item.ID, sessionx.Line{
					Name:      item.Name,
					UnitPrice: item.Price,
					Quantity:  1,
					Category:  item.Category,
				})
				b.WriteString(fmt.Sprintf("- %s (added)\n", item.Name))
			}
			wf.OnSlotFilled(sess, now)
			return reply(tool, b.String()), nil

		case ToolCartOrder:
			decision := wf.CheckFinalize(sess)
			if !decision.Allowed {
				if decision.Reason == gatex.RejectEmptyCart {
					return reply(tool, "Your cart is empty. Please add items before placing an order."), nil
				}
				return reply(tool, "I can't place this order right now. Please check your cart and try again."), nil
			}

			buyer, ok := stringArg(args, "buyer")
			if !ok {
				buyer = "Customer"
			}
			address, _ := stringArg(args, "address")

			items := make([]map[string]any, 0, len(sess.Lines))
			for _, id := range sortedLineIDs(sess) {
				line := sess.Lines[id]
				items = append(items, map[string]any{
					"product_id":   id,
					"product_name": line.Name,
					"quantity":     line.Quantity,
					"unit_amount":  line.UnitPrice,
				})
			}
			total := sess.Total()

			rec := storex.Record{
				ID:        "ORD-" + deps.NewID(),
				Timestamp: now,
				Data: map[string]any{
					"buyer":            buyer,
					"delivery_address": address,
					"items":            items,
					"total":            total,
					"currency":         "INR",
					"status":           "CONFIRMED",
				},
			}
			if err := storex.Append(ctx, deps.Store, contractx.FamilyRetail, rec); err != nil {
				return storeFailure(tool, err), nil
			}
			deps.notify(ctx, contractx.FamilyRetail, rec)

			wf.Finalized(sess, now)
			sess.Reset(now)
			log.Info().Str("order", rec.ID).Float64("total", total).Msg("order placed")
			return reply(tool, fmt.Sprintf("Your order %s has been placed with a total of ₹%s. Thank you for shopping with us!",
				rec.ID, formatPrice(total))), nil
		}

		return DefaultExecutor(contractx.FamilyRetail)(ctx, sess, tool, args)
	}
}

func searchCatalog(deps Deps, tool string, args map[string]any) contractx.ToolResult {
	filter := matchx.Filter{}
	if v, ok := stringArg(args, "category"); ok {
		filter.Category = v
	}
	if v, ok := floatArg(args, "maxPrice"); ok {
		filter.MaxPrice = v
	}
	if v, ok := stringArg(args, "color"); ok {
		filter.Color = v
	}

	var results []indexx.CatalogItem
	switch {
	case !filter.Empty():
		results = matchx.FilterCatalog(deps.Catalog.Items(), filter)
	default:
		query, ok := stringArg(args, "query")
		if !ok {
			return reply(tool, "Tell me what you're looking for: a product, a category, or a budget.")
		}
		results = matchx.SearchCatalog(deps.Catalog.Items(), query)
	}

	if len(results) == 0 {
		return reply(tool, "No products found matching your criteria. Please try different filters.")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Found %d product(s):\n", len(results)))
	for i, item := range results {
		if i == matchx.RenderLimit {
			break
		}
		b.WriteString(fmt.Sprintf("- %s: ₹%s (%s)\n", item.Name, formatPrice(item.Price), item.Category))
	}
	return contractx.ToolResult{Tool: tool, Reply: b.String(), Data: results}
}

// resolveItem tries the reference as an id first, then as an exact name.
func resolveItem(catalog *indexx.Catalog, ref string) (indexx.CatalogItem, error) {
	item, err := catalog.ByID(ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, contractx.ErrNotFound) {
		return indexx.CatalogItem{}, err
	}
	return catalog.ByName(ref)
}

// cartLineID resolves a cart reference as a line id first, then by name.
func cartLineID(sess *sessionx.Session, ref string) string {
	if _, ok := sess.Lines[ref]; ok {
		return ref
	}
	if id, ok := sess.LineIDByName(ref); ok {
		return id
	}
	return ""
}

// sortedLineIDs keeps cart rendering and order snapshots deterministic.
func sortedLineIDs(sess *sessionx.Session) []string {
	ids := make([]string, 0, len(sess.Lines))
	for id := range sess.Lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
