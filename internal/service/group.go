package service

import (
	"strings"

	"github.com/YenChengLai/constellation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupService manages shared groups. The owner is immutable, always a
// member, and only the owner may change membership.
type GroupService struct {
	DB *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{DB: db}
}

// Create makes a new group with the actor as owner and first member.
func (s *GroupService) Create(actor *models.User, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("Group name must not be empty.")
	}

	group := models.Group{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: actor.ID,
		Members: []models.User{*actor},
	}
	if err := s.DB.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListForUser returns every group the actor is a member of.
func (s *GroupService) ListForUser(actor *models.User) ([]models.Group, error) {
	var groups []models.Group
	err := s.DB.Preload("Members").
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", actor.ID).
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Get returns a group the actor belongs to. Non-members get Forbidden.
func (s *GroupService) Get(actor *models.User, groupID string) (*models.Group, error) {
	return s.loadGroup(actor, groupID)
}

// AddMember adds the user with the given email. Owner only.
func (s *GroupService) AddMember(actor *models.User, groupID, email string) (*models.Group, error) {
	group, err := s.loadGroupAsOwner(actor, groupID)
	if err != nil {
		return nil, err
	}

	var member models.User
	if err := s.DB.Where("email = ?", strings.TrimSpace(email)).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("User with this email not found.")
		}
		return nil, err
	}

	if group.HasMember(member.ID) {
		return nil, Conflict("User is already a member of this group.")
	}

	if err := s.DB.Model(group).Association("Members").Append(&member); err != nil {
		return nil, err
	}
	group.Members = append(group.Members, member)
	return group, nil
}

// RemoveMember removes a member. Owner only; the owner can never be removed.
func (s *GroupService) RemoveMember(actor *models.User, groupID, memberID string) (*models.Group, error) {
	group, err := s.loadGroupAsOwner(actor, groupID)
	if err != nil {
		return nil, err
	}

	if memberID == group.OwnerID {
		return nil, BadRequest("The group owner cannot be removed.")
	}
	if !group.HasMember(memberID) {
		return nil, NotFound("User is not a member of this group.")
	}

	if err := s.DB.Model(group).Association("Members").Delete(&models.User{ID: memberID}); err != nil {
		return nil, err
	}

	kept := group.Members[:0]
	for _, m := range group.Members {
		if m.ID != memberID {
			kept = append(kept, m)
		}
	}
	group.Members = kept
	return group, nil
}

// IsMember reports whether the user belongs to the group.
func (s *GroupService) IsMember(userID, groupID string) (bool, error) {
	var count int64
	err := s.DB.Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GroupService) loadGroup(actor *models.User, groupID string) (*models.Group, error) {
	var group models.Group
	if err := s.DB.Preload("Members").First(&group, "id = ?", groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("Group not found.")
		}
		return nil, err
	}
	if !group.HasMember(actor.ID) {
		return nil, Forbidden("You are not a member of this group.")
	}
	return &group, nil
}

func (s *GroupService) loadGroupAsOwner(actor *models.User, groupID string) (*models.Group, error) {
	group, err := s.loadGroup(actor, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != actor.ID {
		return nil, Forbidden("Only the group owner may manage members.")
	}
	return group, nil
}
