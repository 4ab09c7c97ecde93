package handler

import (
	"log"
	"time"

	"famdo/repository"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

type ChangeEmailRequest struct {
	NewEmail string `json:"new_email" binding:"required,email"`
}

func ChangeEmailHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid email format")
		return
	}

	ctx := c.Request.Context()
	currentUser, err := userRepo.FindUser(ctx, userID.(string))
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}
	if currentUser == nil {
		utils.NotFound(c, "User not found")
		return
	}

	if currentUser.Email == req.NewEmail {
		utils.BadRequest(c, "New email is same as current email")
		return
	}

	if time.Since(currentUser.LastEmailChange) < credentialChangeInterval {
		utils.TooManyRequests(c, "Email can only be changed every 2 weeks", gin.H{
			"next_allowed_change": currentUser.LastEmailChange.Add(credentialChangeInterval),
		})
		return
	}

	result, err := userRepo.UpdateUserEmail(ctx, userID.(string), req.NewEmail)
	if err != nil {
		log.Printf("Failed to update email for user %s: %v", userID, err)
		utils.InternalError(c, "Database error while updating email")
		return
	}
	if result == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, gin.H{
		"message": "Email updated successfully",
		"email":   req.NewEmail,
	})
}
