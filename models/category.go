package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Order       int       `gorm:"column:sort_order;not null" json:"order"`
	HasTwoSizes bool      `json:"hasTwoSizes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Validate checks a category loaded from the store.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &DeserializationError{Kind: "category", ID: c.ID, Reason: "empty name"}
	}
	if c.Order < 0 {
		return &DeserializationError{Kind: "category", ID: c.ID, Reason: "negative order"}
	}
	return nil
}
