package catalog

import (
	"context"
	"log"

	"github.com/vTempo/afroditis-delicacies/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MenuData is the full menu: categories and dishes in sort order plus the
// free-text note shown above the menu.
type MenuData struct {
	Categories []models.Category `json:"categories"`
	Items      []models.MenuItem `json:"items"`
	MenuNote   string            `json:"menuNote"`
}

type CategoryGroup struct {
	Category models.Category   `json:"category"`
	Items    []models.MenuItem `json:"items"`
}

// Visible returns a copy without unavailable dishes unless isAdmin is set.
func (m *MenuData) Visible(isAdmin bool) *MenuData {
	out := &MenuData{Categories: m.Categories, MenuNote: m.MenuNote, Items: []models.MenuItem{}}
	for _, item := range m.Items {
		if isAdmin || item.Available {
			out.Items = append(out.Items, item)
		}
	}
	return out
}

// Grouped returns the dishes grouped by category, in category order.
func (m *MenuData) Grouped() []CategoryGroup {
	groups := make([]CategoryGroup, len(m.Categories))
	index := make(map[string]int, len(m.Categories))
	for i, cat := range m.Categories {
		groups[i] = CategoryGroup{Category: cat, Items: []models.MenuItem{}}
		index[cat.ID] = i
	}
	for _, item := range m.Items {
		if i, ok := index[item.CategoryID]; ok {
			groups[i].Items = append(groups[i].Items, item)
		}
	}
	return groups
}

// GetMenuData loads categories, dishes and the menu note concurrently. Any
// failed fetch fails the whole call.
func (s *Service) GetMenuData(ctx context.Context) (*MenuData, error) {
	var generation uint64
	if s.cache != nil {
		s.cacheMu.Lock()
		generation = s.generation
		s.cacheMu.Unlock()

		data, ok, err := s.cache.Get(ctx)
		if err != nil {
			log.Printf("⚠️ Menu cache read failed: %v", err)
		} else if ok {
			return data, nil
		}
	}

	var (
		categories []models.Category
		items      []models.MenuItem
		note       string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("sort_order ASC, created_at ASC, id ASC").Find(&categories).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("sort_order ASC, created_at ASC, id ASC").Find(&items).Error
	})
	g.Go(func() error {
		var err error
		note, err = s.loadNote(s.db.WithContext(gctx))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail("get menu data", "menu", "", err)
	}

	names := make(map[string]string, len(categories))
	for i := range categories {
		if err := categories[i].Validate(); err != nil {
			return nil, err
		}
		names[categories[i].ID] = categories[i].Name
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
		name, ok := names[items[i].CategoryID]
		if !ok {
			return nil, &models.DeserializationError{Kind: "menu item", ID: items[i].ID, Reason: "unknown category " + items[i].CategoryID}
		}
		items[i].Category = name
	}
	if categories == nil {
		categories = []models.Category{}
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	data := &MenuData{Categories: categories, Items: items, MenuNote: note}
	s.fill(ctx, generation, data)
	return data, nil
}

// fill caches data unless the menu was written since generation was read.
func (s *Service) fill(ctx context.Context, generation uint64, data *MenuData) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != generation {
		return
	}
	if err := s.cache.Set(ctx, data); err != nil {
		log.Printf("⚠️ Menu cache write failed: %v", err)
	}
}

func (s *Service) loadNote(db *gorm.DB) (string, error) {
	var settings models.MenuSettings
	res := db.Where("id = ?", models.MenuSettingsID).Limit(1).Find(&settings)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", nil
	}
	return settings.Note, nil
}

// SetMenuNote replaces the note shown above the menu.
func (s *Service) SetMenuNote(ctx context.Context, note string) error {
	settings := models.MenuSettings{ID: models.MenuSettingsID, Note: note, UpdatedAt: s.now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"note", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		return s.fail("set menu note", "settings", models.MenuSettingsID, err)
	}
	s.changed(ctx, Event{Type: EventNoteUpdated})
	return nil
}
