package models

import "time"

// Group is a shared ownership boundary for accounts and transactions.
// The owner is immutable after creation and is always a member.
type Group struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:64;not null"`
	OwnerID   string `gorm:"size:36;index;not null"`
	Members   []User `gorm:"many2many:group_members;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// HasMember reports whether the given user is a member. Members must be preloaded.
func (g *Group) HasMember(userID string) bool {
	for i := range g.Members {
		if g.Members[i].ID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the member ids in load order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for i := range g.Members {
		ids = append(ids, g.Members[i].ID)
	}
	return ids
}

type GroupPublic struct {
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

func (g *Group) Public() GroupPublic {
	return GroupPublic{
		GroupID:   g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		Members:   g.MemberIDs(),
		CreatedAt: g.CreatedAt,
	}
}
