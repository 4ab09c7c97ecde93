package handler

import (
	"log"

	"famdo/repository"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

func DeleteUserHandler(c *gin.Context, userRepo *repository.UserRepo, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	if err := sessionRepo.DeleteUserSessions(c.Request.Context(), userID.(string)); err != nil {
		log.Printf("Error ending user sessions: %v", err)
	}

	deletedCount, err := userRepo.DeleteUserByID(c.Request.Context(), userID.(string))
	if err != nil {
		log.Printf("Failed to delete user %s: %v", userID, err)
		utils.InternalError(c, "Failed to delete user")
		return
	}
	if deletedCount == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{"message": "User deleted successfully"})
}
