package dto

import (
	"time"

	"famdo/model"
)

type FamilyResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	AdminID   string         `json:"admin_id"`
	Members   []UserResponse `json:"members"`
	CreatedAt time.Time      `json:"created_at"`
}

func ToFamilyResponse(family *model.Family, members []*model.User) FamilyResponse {
	return FamilyResponse{
		ID:        family.FamilyID,
		Name:      family.Name,
		AdminID:   family.AdminID,
		Members:   ToUserResponses(members),
		CreatedAt: family.CreatedAt,
	}
}
