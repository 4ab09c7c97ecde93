package dto

import (
	"time"

	"famdo/model"
)

type InvitationResponse struct {
	ID        string                   `json:"id"`
	Status    model.RelationshipStatus `json:"status"`
	Inviter   *UserResponse            `json:"inviter,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// ToInvitationResponses joins pending relationships with their inviter
// records for display.
func ToInvitationResponses(rels []*model.Relationship, inviters map[string]*model.User) []InvitationResponse {
	responses := make([]InvitationResponse, len(rels))
	for i, rel := range rels {
		responses[i] = InvitationResponse{
			ID:        rel.RelationshipID,
			Status:    rel.Status,
			CreatedAt: rel.CreatedAt,
		}
		if inviter, ok := inviters[rel.UserID]; ok {
			resp := ToUserResponse(inviter)
			responses[i].Inviter = &resp
		}
	}
	return responses
}
