// Package catalog owns menu categories, dishes and the menu note.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/vTempo/afroditis-delicacies/models"
	"github.com/vTempo/afroditis-delicacies/store"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	cache  Cache
	events Publisher
	now    func() time.Time

	// cacheMu orders cache fills against invalidations. generation counts
	// writes; a fill is dropped when a write landed after its read began.
	cacheMu    sync.Mutex
	generation uint64
}

type Option func(*Service)

// WithCache serves GetMenuData from c and invalidates it on every write.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithEvents publishes a change event after every successful write.
func WithEvents(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

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

// AddCategory appends a category after every existing one.
func (s *Service) AddCategory(ctx context.Context, name string, hasTwoSizes bool) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Invalid("name", "category name is required")
	}

	var cat models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, name, ""); err != nil {
			return err
		}
		next, err := nextOrder(tx.Model(&models.Category{}))
		if err != nil {
			return err
		}
		now := s.now()
		cat = models.Category{
			Name:        name,
			Order:       next,
			HasTwoSizes: hasTwoSizes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return tx.Create(&cat).Error
	})
	if err != nil {
		return nil, s.fail("add category", "category", name, err)
	}

	s.changed(ctx, Event{Type: EventCategoryAdded, Category: name})
	return &cat, nil
}

// UpdateCategoryName renames the category record. Dishes point at the
// category id, so every dish of the category follows the new name.
func (s *Service) UpdateCategoryName(ctx context.Context, oldName, newName string) (*models.Category, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, models.Invalid("name", "category name is required")
	}

	var cat models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", oldName).First(&cat).Error; err != nil {
			return err
		}
		if cat.Name == newName {
			return nil
		}
		if err := ensureNameFree(tx, newName, cat.ID); err != nil {
			return err
		}
		now := s.now()
		if err := tx.Model(&cat).Updates(map[string]interface{}{
			"name":       newName,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		cat.Name = newName
		cat.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, s.fail("rename category", "category", oldName, err)
	}

	s.changed(ctx, Event{Type: EventCategoryRenamed, Category: newName, PreviousName: oldName})
	return &cat, nil
}

// DeleteCategory removes the category and every dish in it atomically.
func (s *Service) DeleteCategory(ctx context.Context, name string) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.Where("name = ?", name).First(&cat).Error; err != nil {
			return err
		}
		res := tx.Where("category_id = ?", cat.ID).Delete(&models.MenuItem{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Delete(&cat).Error
	})
	if err != nil {
		return s.fail("delete category", "category", name, err)
	}

	log.Printf("🗑️ Deleted category %q with %d dishes", name, removed)
	s.changed(ctx, Event{Type: EventCategoryDeleted, Category: name})
	return nil
}

func ensureNameFree(tx *gorm.DB, name, exceptID string) error {
	q := tx.Model(&models.Category{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return models.Invalid("name", fmt.Sprintf("category %q already exists", name))
	}
	return nil
}

// nextOrder returns one past the highest sort order matched by q, or 1.
func nextOrder(q *gorm.DB) (int, error) {
	var max int
	if err := q.Select("COALESCE(MAX(sort_order), 0)").Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *Service) fail(op, kind, key string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.Invalid("name", kind+" name already exists")
	}
	err = store.Wrap(op, kind, key, err)
	if !models.IsNotFound(err) && !models.IsValidation(err) {
		log.Printf("❌ %s failed: %v", op, err)
	}
	return err
}

// changed drops the cached menu and announces the write.
func (s *Service) changed(ctx context.Context, ev Event) {
	if s.cache != nil {
		s.cacheMu.Lock()
		s.generation++
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("⚠️ Menu cache invalidation failed: %v", err)
		}
		s.cacheMu.Unlock()
	}
	if s.events != nil {
		ev.At = s.now()
		s.events.Publish(ev)
	}
}
