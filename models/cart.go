package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Size string

const (
	SizeSingle Size = "Single"
	SizeLarge  Size = "Large"
	SizeSmall  Size = "Small"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSingle, SizeLarge, SizeSmall:
		return true
	}
	return false
}

// MaxInstructionsLength caps the special instructions of a single submission.
const MaxInstructionsLength = 140

type SizeQuantity struct {
	Size     Size    `json:"size"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CartItem is one dish's quantities-by-size for one user. There is at most one
// line per (UserID, MenuItemID).
type CartItem struct {
	ID                  string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID              string         `gorm:"not null;uniqueIndex:idx_cart_user_dish" json:"userId"`
	MenuItemID          string         `gorm:"not null;uniqueIndex:idx_cart_user_dish" json:"menuItemId"`
	DishName            string         `json:"dishName"`
	Category            string         `json:"category"`
	ImageURL            string         `json:"imageUrl"`
	SpecialInstructions string         `json:"specialInstructions"`
	Quantities          []SizeQuantity `gorm:"serializer:json;type:text" json:"quantities"`
	AddedAt             time.Time      `json:"addedAt"`
}

func (CartItem) TableName() string { return "carts" }

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Normalize applies the read defaults and validates the stored line.
func (c *CartItem) Normalize() error {
	if c.Quantities == nil {
		c.Quantities = []SizeQuantity{}
	}
	for _, q := range c.Quantities {
		if !q.Size.Valid() {
			return &DeserializationError{Kind: "cart item", ID: c.ID, Reason: "unknown size " + string(q.Size)}
		}
	}
	if c.UserID == "" || c.MenuItemID == "" {
		return &DeserializationError{Kind: "cart item", ID: c.ID, Reason: "missing owner or dish"}
	}
	return nil
}
