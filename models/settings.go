package models

import "time"

// MenuSettingsID is the key of the single menu settings row.
const MenuSettingsID = "menu"

type MenuSettings struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (MenuSettings) TableName() string { return "settings" }
