package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberRole string

const (
	RoleMember MemberRole = "member"
	RoleAdmin  MemberRole = "admin"
)

func (r MemberRole) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	}
	return false
}

type TeamMember struct {
	User primitive.ObjectID `bson:"user" json:"user"`
	Role MemberRole         `bson:"role" json:"role"`
}

type Team struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Members     []TeamMember       `bson:"members" json:"members"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

func (t Team) IsMember(userID primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID is a member with the admin role. Admins are
// the only members allowed to update or delete the team and to manage its
// membership.
func (t Team) IsAdmin(userID primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m.User == userID && m.Role == RoleAdmin {
			return true
		}
	}
	return false
}

// EnsureCreatorMember guarantees the creator appears in the member list with
// the admin role, regardless of what the creation payload carried.
func (t *Team) EnsureCreatorMember() {
	if t.IsMember(t.CreatedBy) {
		return
	}
	t.Members = append(t.Members, TeamMember{User: t.CreatedBy, Role: RoleAdmin})
}

// RemoveMember deletes userID from the member list and reports whether it was
// present.
func (t *Team) RemoveMember(userID primitive.ObjectID) bool {
	for i, m := range t.Members {
		if m.User == userID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return true
		}
	}
	return false
}

type TeamSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

func (t Team) Summary() TeamSummary {
	return TeamSummary{ID: t.ID, Name: t.Name}
}

// MemberView is a membership entry with the user reference resolved.
type MemberView struct {
	User UserSummary `json:"user"`
	Role MemberRole  `json:"role"`
}

// TeamView is a team with member and creator references resolved for display.
type TeamView struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Members     []MemberView       `json:"members"`
	CreatedBy   UserSummary        `json:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt"`
}
