package handler

import (
	"famdo/dto"
	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

// FamilyHandler exposes the group membership endpoints: one family per
// user, managed by its admin.
type FamilyHandler struct {
	service *usecase.FamilyService
}

func NewFamilyHandler(service *usecase.FamilyService) *FamilyHandler {
	return &FamilyHandler{service: service}
}

func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Family name is required")
		return
	}

	if _, err := h.service.CreateFamily(c.Request.Context(), userID.(string), req.Name); err != nil {
		respondError(c, err)
		return
	}

	family, members, err := h.service.GetFamily(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, dto.ToFamilyResponse(family, members))
}

func (h *FamilyHandler) GetFamily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	family, members, err := h.service.GetFamily(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToFamilyResponse(family, members))
}

// AddMember adds a user by username to the requester's family. Admin only.
func (h *FamilyHandler) AddMember(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	familyID := c.Param("id")
	if familyID == "" {
		utils.BadRequest(c, "Missing family ID")
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Username is required")
		return
	}

	family, err := h.service.AddMember(c.Request.Context(), userID.(string), familyID, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"id":         family.FamilyID,
		"name":       family.Name,
		"member_ids": family.MemberIDs,
	})
}

// DeleteFamily disbands the requester's family. Admin only.
func (h *FamilyHandler) DeleteFamily(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	familyID := c.Param("id")
	if familyID == "" {
		utils.BadRequest(c, "Missing family ID")
		return
	}

	if err := h.service.DeleteFamily(c.Request.Context(), userID.(string), familyID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"message": "Family deleted",
	})
}

// RemoveMember removes a member from the family. Admin only; the admin
// cannot be removed.
func (h *FamilyHandler) RemoveMember(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	familyID := c.Param("id")
	memberID := c.Param("memberId")
	if familyID == "" || memberID == "" {
		utils.BadRequest(c, "Missing family or member ID")
		return
	}

	family, err := h.service.RemoveMember(c.Request.Context(), userID.(string), familyID, memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"id":         family.FamilyID,
		"name":       family.Name,
		"member_ids": family.MemberIDs,
	})
}
