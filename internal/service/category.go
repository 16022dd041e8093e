package service

import (
	"strings"

	"github.com/YenChengLai/constellation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService resolves and manages categories. A user sees their own
// categories plus the nil-owner defaults.
type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

// ResolveForWrite loads a category the user may post against (their own or a
// shared default) and returns the snapshot embedded into the transaction.
// Inaccessible categories are indistinguishable from missing ones.
func (s *CategoryService) ResolveForWrite(categoryID, userID string) (models.CategorySnapshot, error) {
	var category models.Category
	err := s.DB.Where("id = ? AND (user_id = ? OR user_id IS NULL)", categoryID, userID).
		First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.CategorySnapshot{}, NotFound("Category with id " + categoryID + " not found or not accessible.")
		}
		return models.CategorySnapshot{}, err
	}
	return category.Snapshot(), nil
}

type CategoryInput struct {
	Name  string
	Type  string
	Icon  string
	Color string
}

// Create makes a new category owned by the actor. The (name, type, owner)
// triple must be unique.
func (s *CategoryService) Create(actor *models.User, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.checkUnique(actor.ID, name, in.Type, ""); err != nil {
		return nil, err
	}

	category := models.Category{
		ID:     uuid.NewString(),
		Name:   name,
		Type:   in.Type,
		Icon:   in.Icon,
		Color:  in.Color,
		UserID: &actor.ID,
	}
	if err := s.DB.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns the actor's categories plus the shared defaults, optionally
// filtered by type.
func (s *CategoryService) List(actor *models.User, typeFilter string) ([]models.Category, error) {
	q := s.DB.Where("user_id = ? OR user_id IS NULL", actor.ID)
	if typeFilter != "" {
		q = q.Where("type = ?", typeFilter)
	}

	var categories []models.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

type CategoryPatch struct {
	Name  *string
	Icon  *string
	Color *string
}

// Update patches an owned category. Shared defaults cannot be edited through
// this path. Renames do not touch snapshots already embedded in transactions.
func (s *CategoryService) Update(actor *models.User, categoryID string, patch CategoryPatch) (*models.Category, error) {
	category, err := s.loadOwned(actor, categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name != category.Name {
			if err := s.checkUnique(actor.ID, name, category.Type, category.ID); err != nil {
				return nil, err
			}
			updates["name"] = name
		}
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := s.DB.Model(category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes an owned, unused category. Categories still embedded in any
// of the actor's transactions are kept to avoid dangling references.
func (s *CategoryService) Delete(actor *models.User, categoryID string) error {
	category, err := s.loadOwned(actor, categoryID)
	if err != nil {
		return err
	}

	var inUse int64
	err = s.DB.Model(&models.Transaction{}).
		Where("category_id = ? AND user_id = ?", categoryID, actor.ID).
		Count(&inUse).Error
	if err != nil {
		return err
	}
	if inUse > 0 {
		return BadRequest("Cannot delete category as it is currently in use by one or more transactions.")
	}

	return s.DB.Delete(category).Error
}

func (s *CategoryService) loadOwned(actor *models.User, categoryID string) (*models.Category, error) {
	var category models.Category
	err := s.DB.Where("id = ? AND user_id = ?", categoryID, actor.ID).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("Category not found.")
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) checkUnique(userID, name, categoryType, excludeID string) error {
	if name == "" {
		return BadRequest("Category name must not be empty.")
	}
	if categoryType != models.CategoryTypeExpense && categoryType != models.CategoryTypeIncome {
		return BadRequest("Category type must be 'expense' or 'income'.")
	}

	q := s.DB.Model(&models.Category{}).
		Where("name = ? AND type = ? AND user_id = ?", name, categoryType, userID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return Conflict("Category '" + name + "' of type '" + categoryType + "' already exists.")
	}
	return nil
}
