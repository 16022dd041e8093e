package database

import (
	"fmt"

	"github.com/YenChengLai/constellation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategories are the shared categories every user sees. They carry a
// nil owner and are seeded once; re-running updates the icon in place instead
// of duplicating the row.
var DefaultCategories = []models.Category{
	{Name: "餐飲", Type: models.CategoryTypeExpense, Icon: "🍔"},
	{Name: "交通", Type: models.CategoryTypeExpense, Icon: "🚗"},
	{Name: "購物", Type: models.CategoryTypeExpense, Icon: "🛍️"},
	{Name: "娛樂", Type: models.CategoryTypeExpense, Icon: "🎬"},
	{Name: "居家", Type: models.CategoryTypeExpense, Icon: "🏠"},
	{Name: "薪資", Type: models.CategoryTypeIncome, Icon: "💰"},
	{Name: "投資", Type: models.CategoryTypeIncome, Icon: "📈"},
}

// SeedDefaultCategories inserts the default category set idempotently.
func SeedDefaultCategories(db *gorm.DB) error {
	for _, c := range DefaultCategories {
		var existing models.Category
		err := db.Where("name = ? AND type = ? AND user_id IS NULL", c.Name, c.Type).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Icon != c.Icon {
				if err := db.Model(&existing).Update("icon", c.Icon).Error; err != nil {
					return fmt.Errorf("update default category %q: %w", c.Name, err)
				}
			}
		case err == gorm.ErrRecordNotFound:
			c.ID = uuid.NewString()
			if err := db.Create(&c).Error; err != nil {
				return fmt.Errorf("seed default category %q: %w", c.Name, err)
			}
		default:
			return fmt.Errorf("check default category %q: %w", c.Name, err)
		}
	}
	return nil
}
