package models

import "time"

const (
	CategoryTypeExpense = "expense"
	CategoryTypeIncome  = "income"
)

// Category represents an income/expense category. A nil UserID marks a
// system-wide default visible to every user.
type Category struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"size:64;not null;uniqueIndex:idx_categories_owner_name_type"`
	Type      string  `gorm:"size:16;index;not null;uniqueIndex:idx_categories_owner_name_type"`
	Icon      string  `gorm:"size:16"`
	Color     string  `gorm:"size:16"`
	UserID    *string `gorm:"size:36;index;uniqueIndex:idx_categories_owner_name_type"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot returns the fields embedded into transactions at write time.
func (c *Category) Snapshot() CategorySnapshot {
	return CategorySnapshot{ID: c.ID, Name: c.Name, Icon: c.Icon}
}

type CategoryPublic struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Icon       string  `json:"icon,omitempty"`
	Color      string  `json:"color,omitempty"`
	UserID     *string `json:"user_id"`
}

func (c *Category) Public() CategoryPublic {
	return CategoryPublic{
		CategoryID: c.ID,
		Name:       c.Name,
		Type:       c.Type,
		Icon:       c.Icon,
		Color:      c.Color,
		UserID:     c.UserID,
	}
}
