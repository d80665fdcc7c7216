package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/vTempo/afroditis-delicacies/models"
	"gorm.io/gorm"
)

// DishInput describes a new dish. Category is the display name of an
// existing category.
type DishInput struct {
	Name        string
	Category    string
	Price       float64
	SecondPrice *float64
	Available   bool
	ImageURL    string
}

// DishUpdate holds the mutable fields of a dish. A nil SecondPrice clears it.
type DishUpdate struct {
	Name        string
	Price       float64
	SecondPrice *float64
	Available   bool
	ImageURL    string
}

func validateDish(name string, price float64, second *float64) error {
	if strings.TrimSpace(name) == "" {
		return models.Invalid("name", "dish name is required")
	}
	if !models.ValidPrice(price) {
		return models.Invalid("price", "price must be a number greater than zero")
	}
	if second != nil && !models.ValidPrice(*second) {
		return models.Invalid("secondPrice", "second price must be a number greater than zero")
	}
	return nil
}

// AddDish appends a dish after every existing dish of its category.
func (s *Service) AddDish(ctx context.Context, in DishInput) (*models.MenuItem, error) {
	if err := validateDish(in.Name, in.Price, in.SecondPrice); err != nil {
		return nil, err
	}

	var dish models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.Where("name = ?", in.Category).First(&cat).Error; err != nil {
			return err
		}
		next, err := nextOrder(tx.Model(&models.MenuItem{}).Where("category_id = ?", cat.ID))
		if err != nil {
			return err
		}
		now := s.now()
		dish = models.MenuItem{
			Name:        strings.TrimSpace(in.Name),
			CategoryID:  cat.ID,
			Price:       in.Price,
			SecondPrice: in.SecondPrice,
			ImageURL:    in.ImageURL,
			Available:   in.Available,
			Order:       next,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&dish).Error; err != nil {
			return err
		}
		dish.Category = cat.Name
		return nil
	})
	if err != nil {
		return nil, s.fail("add dish", "category", in.Category, err)
	}

	s.changed(ctx, Event{Type: EventDishAdded, Category: dish.Category, DishID: dish.ID})
	return &dish, nil
}

// UpdateDish overwrites name, prices, availability and image. Order,
// category and the top-seller badge are left alone.
func (s *Service) UpdateDish(ctx context.Context, id string, in DishUpdate) (*models.MenuItem, error) {
	if err := validateDish(in.Name, in.Price, in.SecondPrice); err != nil {
		return nil, err
	}

	var dish models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&dish).Error; err != nil {
			return err
		}
		if err := tx.Model(&dish).Updates(map[string]interface{}{
			"name":         strings.TrimSpace(in.Name),
			"price":        in.Price,
			"second_price": in.SecondPrice,
			"available":    in.Available,
			"image_url":    in.ImageURL,
			"updated_at":   s.now(),
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).First(&dish).Error; err != nil {
			return err
		}
		return s.resolveCategory(tx, &dish)
	})
	if err != nil {
		return nil, s.fail("update dish", "menu item", id, err)
	}

	s.changed(ctx, Event{Type: EventDishUpdated, Category: dish.Category, DishID: id})
	return &dish, nil
}

// SetDishImage replaces only the image of a dish.
func (s *Service) SetDishImage(ctx context.Context, id, imageURL string) error {
	var dish models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&dish).Error; err != nil {
			return err
		}
		if err := tx.Model(&dish).Updates(map[string]interface{}{
			"image_url":  imageURL,
			"updated_at": s.now(),
		}).Error; err != nil {
			return err
		}
		return s.resolveCategory(tx, &dish)
	})
	if err != nil {
		return s.fail("set dish image", "menu item", id, err)
	}
	s.changed(ctx, Event{Type: EventDishUpdated, Category: dish.Category, DishID: id})
	return nil
}

// DeleteDish removes a dish by id. Cart lines that reference it are kept.
func (s *Service) DeleteDish(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
		return s.fail("delete dish", "menu item", id, err)
	}
	s.changed(ctx, Event{Type: EventDishDeleted, DishID: id})
	return nil
}

// GetDish returns one dish with its category name.
func (s *Service) GetDish(ctx context.Context, id string) (*models.MenuItem, error) {
	var dish models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&dish).Error; err != nil {
			return err
		}
		if err := dish.Validate(); err != nil {
			return err
		}
		return s.resolveCategory(tx, &dish)
	})
	if err != nil {
		return nil, s.fail("get dish", "menu item", id, err)
	}
	return &dish, nil
}

func (s *Service) resolveCategory(tx *gorm.DB, dish *models.MenuItem) error {
	var cat models.Category
	if err := tx.Where("id = ?", dish.CategoryID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.DeserializationError{Kind: "menu item", ID: dish.ID, Reason: "unknown category " + dish.CategoryID}
		}
		return err
	}
	dish.Category = cat.Name
	return nil
}
