package handler

import (
	"famdo/dto"
	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

func GetUserProfileHandler(c *gin.Context, users *usecase.UsersService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	user, err := users.GetProfile(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToUserResponse(user))
}
