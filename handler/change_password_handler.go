package handler

import (
	"log"
	"time"

	"famdo/repository"
	"famdo/services"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Passwords and emails can only be changed every two weeks.
const credentialChangeInterval = 14 * 24 * time.Hour

func ChangePasswordHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format")
		return
	}

	ctx := c.Request.Context()
	user, err := userRepo.FindUser(ctx, userID.(string))
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	if !services.ComparePasswords(user.Password, req.OldPassword) {
		utils.Unauthorized(c, "Current password is incorrect")
		return
	}

	if !utils.ValidatePassword(req.NewPassword) {
		utils.BadRequest(c, "New password does not meet requirements")
		return
	}

	if services.ComparePasswords(user.Password, req.NewPassword) {
		utils.BadRequest(c, "New password cannot be the same as current password")
		return
	}

	if time.Since(user.LastPasswordChange) < credentialChangeInterval {
		utils.TooManyRequests(c, "Password can only be changed every 2 weeks", gin.H{
			"next_allowed_change": user.LastPasswordChange.Add(credentialChangeInterval),
		})
		return
	}

	hashedPassword, err := services.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to process new password")
		return
	}

	result, err := userRepo.UpdateUserPassword(ctx, userID.(string), hashedPassword)
	if err != nil {
		log.Printf("Failed to update password for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to update password")
		return
	}
	if result == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, gin.H{"message": "Password updated successfully"})
}
