package handler

import (
	"strconv"
	"time"

	"famdo/dto"
	"famdo/model"
	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

type TodosHandler struct {
	service *usecase.TodosService
}

func NewTodosHandler(service *usecase.TodosService) *TodosHandler {
	return &TodosHandler{service: service}
}

func (h *TodosHandler) CreateTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Title        string            `json:"title" binding:"required"`
		Description  string            `json:"description"`
		DueDate      time.Time         `json:"due_date"`
		DayOfWeek    int               `json:"day_of_week"`
		IsRecurring  bool              `json:"is_recurring"`
		FamilyAccess bool              `json:"family_access"`
		AccessLevel  model.AccessLevel `json:"access_level"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	todo := &model.Todo{
		OwnerID:      userID.(string),
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		DayOfWeek:    req.DayOfWeek,
		IsRecurring:  req.IsRecurring,
		FamilyAccess: req.FamilyAccess,
		AccessLevel:  req.AccessLevel,
	}

	if err := h.service.CreateTodo(c.Request.Context(), todo); err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, dto.ToTodoResponse(todo))
}

func (h *TodosHandler) GetUserTodos(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todos, err := h.service.GetUserTodos(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

func (h *TodosHandler) GetTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		utils.BadRequest(c, "Missing todo ID")
		return
	}

	todo, access, err := h.service.GetTodo(c.Request.Context(), userID.(string), todoID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"todo":   dto.ToTodoResponse(todo),
		"access": access,
	})
}

// GetSharedTodos lists todos other users have shared with the requester.
func (h *TodosHandler) GetSharedTodos(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todos, err := h.service.GetSharedTodos(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

// GetTodosByDate lists the requester's todos due on a calendar day, passed
// as ?date=2006-01-02. Defaults to today.
func (h *TodosHandler) GetTodosByDate(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	todos, err := h.service.GetTodosByDate(c.Request.Context(), userID.(string), day)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

// GetTodosByDay lists the requester's todos scheduled on a weekday,
// 1 (Monday) through 7 (Sunday).
func (h *TodosHandler) GetTodosByDay(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		utils.BadRequest(c, "Invalid day of week")
		return
	}

	todos, err := h.service.GetTodosByDay(c.Request.Context(), userID.(string), day)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToTodoResponses(todos))
}

func (h *TodosHandler) UpdateTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		utils.BadRequest(c, "Missing todo ID")
		return
	}

	var patch model.TodoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if patch.IsEmpty() {
		utils.BadRequest(c, "No fields to update")
		return
	}

	todo, err := h.service.ApplyUpdate(c.Request.Context(), userID.(string), todoID, &patch)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToTodoResponse(todo))
}

func (h *TodosHandler) ToggleTodoComplete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		utils.BadRequest(c, "Missing todo ID")
		return
	}

	todo, err := h.service.ToggleComplete(c.Request.Context(), userID.(string), todoID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToTodoResponse(todo))
}

// ShareTodo replaces who the todo is shared with. Owner only; every target
// must hold an accepted relationship with the owner.
func (h *TodosHandler) ShareTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		utils.BadRequest(c, "Missing todo ID")
		return
	}

	var req struct {
		SharedWith []string `json:"shared_with"`
		AllowEdit  *bool    `json:"allow_edit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	todo, err := h.service.ShareTodo(c.Request.Context(), userID.(string), todoID, req.SharedWith, req.AllowEdit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToTodoResponse(todo))
}

func (h *TodosHandler) DeleteTodo(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		utils.BadRequest(c, "Missing todo ID")
		return
	}

	if err := h.service.DeleteTodo(c.Request.Context(), userID.(string), todoID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Todo deleted successfully"})
}
