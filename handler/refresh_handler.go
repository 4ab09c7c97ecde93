package handler

import (
	"net/http"
	"strings"

	"famdo/services"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

func RefreshTokenHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid refresh"})
		return
	}

	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	userID, err := services.ValidateRefreshToken(refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh"})
		return
	}

	if services.IsTokenBlacklisted(refreshToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token has been invalidated"})
		return
	}

	newAccessToken, err := services.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate new access token"})
		return
	}

	newRefreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate new refresh token"})
		return
	}

	// The old refresh token stays usable until it expires; rotating it out
	// entirely would require blacklisting it here.
	utils.TokenUsage.WithLabelValues("refresh", "rotated").Inc()

	c.JSON(http.StatusOK, gin.H{
		"access_token":      newAccessToken,
		"new_refresh_token": newRefreshToken,
	})
}
