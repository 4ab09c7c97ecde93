package handler

import (
	"log"

	"famdo/repository"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

func GetActiveSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sessions, err := sessionRepo.GetUserActiveSessions(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.Success(c, gin.H{
		"sessions": sessions,
	})
}

// LogoutSession revokes one session by id. Only the owner's sessions are
// visible here; anyone else's id answers as not found.
func LogoutSession(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	sessionID := c.Param("id")

	session, err := sessionRepo.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch session")
		return
	}
	if session == nil || session.UserID != userID.(string) {
		utils.NotFound(c, "Session not found")
		return
	}
	if session.Protected {
		utils.BadRequest(c, "This session cannot be revoked")
		return
	}

	if err := sessionRepo.DeleteSession(c.Request.Context(), sessionID); err != nil {
		log.Printf("Error revoking session %s: %v", sessionID, err)
		utils.InternalError(c, "Failed to revoke session")
		return
	}

	// Revoking the session this request rides on also drops its cookie.
	if current, err := c.Cookie("session_id"); err == nil && current == sessionID {
		c.SetCookie("session_id", "", -1, "/", "", true, true)
	}

	utils.Success(c, gin.H{
		"message": "Session revoked",
	})
}

func LogoutAllSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	// End all sessions for the user
	if err := sessionRepo.EndAllUserSessions(c.Request.Context(), userID.(string)); err != nil {
		utils.InternalError(c, "Failed to end all sessions")
		return
	}

	// Clear current session cookie
	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{
		"message": "Successfully logged out of all sessions",
	})
}
