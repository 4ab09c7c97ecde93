package middleware

import (
	"context"
	"fmt"
	"time"

	"famdo/model"
	"famdo/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionRepository is the slice of the session repo the middleware needs.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
}

const sessionInactivityTimeout = 48 * time.Hour

func SessionMiddleware(sessionRepo SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		session, err := sessionRepo.GetSession(c.Request.Context(), sessionID)
		// A reaped or deactivated session means a stale cookie; clear it.
		if err != nil || session == nil || !session.IsActive {
			clearSessionCookie(c)
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > sessionInactivityTimeout {
			session.IsActive = false
			sessionRepo.UpdateSession(c.Request.Context(), session)
			clearSessionCookie(c)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(c.Request.Context(), session)

		c.Set("session", session)
		c.Next()
	}
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie("session_id", "", -1, "/", "", true, true)
}

func CreateSession(c *gin.Context, userID string, sessionRepo SessionRepository) error {
	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	displayName := utils.GenerateSessionName(userAgent, "") // Empty string for location for now

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DisplayName:    displayName,
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		LastActivityAt: time.Now(),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(c.Request.Context(), session); err != nil {
		return err
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(24*time.Hour.Seconds()),
		"/",
		"",
		true,
		true,
	)

	return nil
}
