package cart

import (
	"strings"
	"unicode/utf8"

	"github.com/vTempo/afroditis-delicacies/models"
)

// MergeQuantities adds incoming quantities to existing ones size by size.
// Sizes not yet present are appended in incoming order. Neither argument is
// modified.
func MergeQuantities(existing, incoming []models.SizeQuantity) []models.SizeQuantity {
	merged := make([]models.SizeQuantity, len(existing), len(existing)+len(incoming))
	copy(merged, existing)
	for _, in := range incoming {
		found := false
		for i := range merged {
			if merged[i].Size == in.Size {
				merged[i].Quantity += in.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, in)
		}
	}
	return merged
}

// SetQuantity sets the quantity of size to an absolute value and drops every
// tuple whose quantity is not positive.
func SetQuantity(quantities []models.SizeQuantity, size models.Size, quantity int) []models.SizeQuantity {
	out := make([]models.SizeQuantity, 0, len(quantities))
	for _, q := range quantities {
		if q.Size == size {
			q.Quantity = quantity
		}
		if q.Quantity > 0 {
			out = append(out, q)
		}
	}
	return out
}

// MergeInstructions joins two instruction texts with a newline when both are set.
func MergeInstructions(existing, incoming string) string {
	switch {
	case incoming == "":
		return existing
	case existing == "":
		return incoming
	}
	return existing + "\n" + incoming
}

func positive(quantities []models.SizeQuantity) []models.SizeQuantity {
	out := make([]models.SizeQuantity, 0, len(quantities))
	for _, q := range quantities {
		if q.Quantity > 0 {
			out = append(out, q)
		}
	}
	return out
}

// ValidateAddInput checks what the menu popup enforces before adding to cart.
func ValidateAddInput(in AddInput) error {
	if strings.TrimSpace(in.MenuItemID) == "" {
		return models.Invalid("menuItemId", "dish is required")
	}
	selected := false
	for _, q := range in.Quantities {
		if !q.Size.Valid() {
			return models.Invalid("quantities", "unknown size "+string(q.Size))
		}
		if q.Quantity > 0 {
			selected = true
			if q.Price < 0 {
				return models.Invalid("quantities", "price must not be negative")
			}
		}
	}
	if !selected {
		return models.Invalid("quantities", "select at least one item")
	}
	if utf8.RuneCountInString(in.SpecialInstructions) > models.MaxInstructionsLength {
		return models.Invalid("specialInstructions", "special instructions are limited to 140 characters")
	}
	return nil
}

// Summary holds the derived cart aggregates.
type Summary struct {
	Count int     `json:"cartCount"`
	Total float64 `json:"cartTotal"`
}

// Summarize sums quantities and price*quantity over every line and size.
func Summarize(items []models.CartItem) Summary {
	var s Summary
	for _, item := range items {
		for _, q := range item.Quantities {
			s.Count += q.Quantity
			s.Total += q.Price * float64(q.Quantity)
		}
	}
	return s
}
