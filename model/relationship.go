package model

import "time"

type RelationshipStatus string

const (
	RelationshipPending  RelationshipStatus = "pending"
	RelationshipAccepted RelationshipStatus = "accepted"
	RelationshipRejected RelationshipStatus = "rejected"
)

// Relationship is a directed pairwise family-member link: UserID invited
// FamilyMemberID. At most one document exists per ordered pair, enforced
// by a unique compound index.
type Relationship struct {
	RelationshipID string             `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"user_id"`                   // inviter
	FamilyMemberID string             `bson:"family_member_id" json:"family_member_id"` // invitee
	Status         RelationshipStatus `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// OtherParty returns the side of the relationship that is not userID.
func (r *Relationship) OtherParty(userID string) string {
	if r.UserID == userID {
		return r.FamilyMemberID
	}
	return r.UserID
}
