package handler

import (
	"famdo/model"
	"famdo/services"
	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, users *usecase.UsersService) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		utils.TrackError("auth", "invalid_registration")
		utils.BadRequest(c, "invalid request")
		return
	}

	if err := users.CreateUser(c.Request.Context(), &user); err != nil {
		utils.TrackError("auth", "registration_failed")
		respondError(c, err)
		return
	}
	utils.TrackRegistration()

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "failed to generate token")
		return
	}

	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "refresh_token_generation")
		utils.InternalError(c, "failed to generate refresh token")
		return
	}

	utils.Created(c, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"refresh": refreshToken,
	})
}
