package catalog

import "time"

const (
	EventCategoryAdded   = "category.added"
	EventCategoryRenamed = "category.renamed"
	EventCategoryDeleted = "category.deleted"
	EventDishAdded       = "dish.added"
	EventDishUpdated     = "dish.updated"
	EventDishDeleted     = "dish.deleted"
	EventNoteUpdated     = "note.updated"
)

// Event announces a committed menu change so open menus can refetch.
type Event struct {
	Type         string    `json:"type"`
	Category     string    `json:"category,omitempty"`
	PreviousName string    `json:"previousName,omitempty"`
	DishID       string    `json:"dishId,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher receives menu change events. Publish must not block.
type Publisher interface {
	Publish(Event)
}
