// Package cart keeps per-user cart lines: one line per dish holding
// quantities by size.
package cart

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/vTempo/afroditis-delicacies/models"
	"github.com/vTempo/afroditis-delicacies/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddInput is what the menu popup submits for one dish.
type AddInput struct {
	MenuItemID          string                `json:"menuItemId"`
	DishName            string                `json:"dishName"`
	Category            string                `json:"category"`
	ImageURL            string                `json:"imageUrl"`
	Quantities          []models.SizeQuantity `json:"quantities"`
	SpecialInstructions string                `json:"specialInstructions"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCart returns every line of the user.
func (s *Service) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("added_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, s.fail("get cart", userID, err)
	}
	for i := range items {
		if err := items[i].Normalize(); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// AddToCart merges the submission into the user's line for the dish, or
// creates the line. Quantities of matching sizes are added together.
func (s *Service) AddToCart(ctx context.Context, userID string, in AddInput) (*models.CartItem, error) {
	if err := ValidateAddInput(in); err != nil {
		return nil, err
	}

	line, err := s.addLine(ctx, userID, in)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another request created the line between our read and insert; the
		// second attempt finds it and merges.
		log.Printf("⚠️ Cart line %s/%s created concurrently, merging", userID, in.MenuItemID)
		line, err = s.addLine(ctx, userID, in)
	}
	if err != nil {
		return nil, s.fail("add to cart", in.MenuItemID, err)
	}
	return line, nil
}

func (s *Service) addLine(ctx context.Context, userID string, in AddInput) (*models.CartItem, error) {
	incoming := positive(in.Quantities)
	instructions := strings.TrimSpace(in.SpecialInstructions)

	var line models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND menu_item_id = ?", userID, in.MenuItemID).
			Limit(1).Find(&line)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			line = models.CartItem{
				UserID:              userID,
				MenuItemID:          in.MenuItemID,
				DishName:            in.DishName,
				Category:            in.Category,
				ImageURL:            in.ImageURL,
				Quantities:          incoming,
				SpecialInstructions: instructions,
				AddedAt:             s.now(),
			}
			return tx.Create(&line).Error
		}

		if err := line.Normalize(); err != nil {
			return err
		}
		line.Quantities = MergeQuantities(line.Quantities, incoming)
		line.SpecialInstructions = MergeInstructions(line.SpecialInstructions, instructions)
		line.AddedAt = s.now()
		return tx.Model(&line).Select("quantities", "special_instructions", "added_at").Updates(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateCartItemQuantity sets the quantity of one size of a line. Sizes left
// at zero or below are dropped; a line with no sizes left is deleted and
// (nil, nil) is returned.
func (s *Service) UpdateCartItemQuantity(ctx context.Context, userID, cartItemID string, size models.Size, quantity int) (*models.CartItem, error) {
	if !size.Valid() {
		return nil, models.Invalid("size", "unknown size "+string(size))
	}

	var line models.CartItem
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", cartItemID, userID).
			First(&line).Error; err != nil {
			return err
		}
		if err := line.Normalize(); err != nil {
			return err
		}

		line.Quantities = SetQuantity(line.Quantities, size, quantity)
		if len(line.Quantities) == 0 {
			deleted = true
			return tx.Delete(&line).Error
		}
		return tx.Model(&line).Select("quantities").Updates(&line).Error
	})
	if err != nil {
		return nil, s.fail("update cart quantity", cartItemID, err)
	}
	if deleted {
		return nil, nil
	}
	return &line, nil
}

// RemoveFromCart deletes one line of the user. Removing a line that is
// already gone is not an error.
func (s *Service) RemoveFromCart(ctx context.Context, userID, cartItemID string) error {
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", cartItemID, userID).Delete(&models.CartItem{}).Error
	if err != nil {
		return s.fail("remove from cart", cartItemID, err)
	}
	return nil
}

// ClearCart deletes every line of the user in one transaction.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return s.fail("clear cart", userID, err)
	}
	return nil
}

func (s *Service) fail(op, key string, err error) error {
	err = store.Wrap(op, "cart item", key, err)
	if !models.IsNotFound(err) && !models.IsValidation(err) {
		log.Printf("❌ %s failed: %v", op, err)
	}
	return err
}
