package handler

import (
	"famdo/dto"
	"famdo/model"
	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

// RelationshipsHandler exposes the pairwise invitation endpoints: invite
// by email, respond as the invitee, list, and remove.
type RelationshipsHandler struct {
	service *usecase.RelationshipsService
}

func NewRelationshipsHandler(service *usecase.RelationshipsService) *RelationshipsHandler {
	return &RelationshipsHandler{service: service}
}

func (h *RelationshipsHandler) Invite(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid email")
		return
	}

	rel, err := h.service.Invite(c.Request.Context(), userID.(string), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, gin.H{
		"id":     rel.RelationshipID,
		"status": rel.Status,
	})
}

// Respond settles a pending invitation with action "accepted" or
// "rejected". Only the invitee may call this.
func (h *RelationshipsHandler) Respond(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	relationshipID := c.Param("id")
	if relationshipID == "" {
		utils.BadRequest(c, "Missing invitation ID")
		return
	}

	var req struct {
		Action model.RelationshipStatus `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	rel, err := h.service.Respond(c.Request.Context(), userID.(string), relationshipID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"id":     rel.RelationshipID,
		"status": rel.Status,
	})
}

func (h *RelationshipsHandler) ListPending(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	rels, inviters, err := h.service.ListPending(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToInvitationResponses(rels, inviters))
}

func (h *RelationshipsHandler) ListAccepted(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	members, err := h.service.ListAccepted(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToUserResponses(members))
}

// Remove ends the accepted relationship with the user in the path and
// revokes the remover's shares towards them.
func (h *RelationshipsHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	otherID := c.Param("id")
	if otherID == "" {
		utils.BadRequest(c, "Missing member ID")
		return
	}
	if otherID == userID.(string) {
		utils.BadRequest(c, "Cannot remove yourself")
		return
	}

	if err := h.service.Remove(c.Request.Context(), userID.(string), otherID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Family member removed"})
}
