package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem is a dish. It references its category by CategoryID; the display
// name in Category is filled in on read.
type MenuItem struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	CategoryID  string    `gorm:"index;not null;type:varchar(36)" json:"categoryId"`
	Category    string    `gorm:"-" json:"category"`
	Price       float64   `gorm:"not null" json:"price"`
	SecondPrice *float64  `json:"secondPrice,omitempty"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Available   bool      `json:"available"`
	IsTopSeller bool      `json:"isTopSeller"`
	Order       int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Validate checks a dish loaded from the store.
func (m *MenuItem) Validate() error {
	fail := func(reason string) error {
		return &DeserializationError{Kind: "menu item", ID: m.ID, Reason: reason}
	}
	switch {
	case strings.TrimSpace(m.Name) == "":
		return fail("empty name")
	case m.CategoryID == "":
		return fail("missing category")
	case !ValidPrice(m.Price):
		return fail("invalid price")
	case m.SecondPrice != nil && !ValidPrice(*m.SecondPrice):
		return fail("invalid second price")
	}
	return nil
}

// ValidPrice reports whether p is a finite number greater than zero.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}
