package model

import "time"

// Family is the group-model sharing unit: one admin, many members.
// The admin is always also a member.
type Family struct {
	FamilyID  string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	AdminID   string    `bson:"admin_id" json:"admin_id"`
	MemberIDs []string  `bson:"member_ids" json:"member_ids"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is in the member list.
func (f *Family) HasMember(userID string) bool {
	for _, id := range f.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
