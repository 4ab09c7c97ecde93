package handler

import (
	"log"
	"runtime"
	"time"

	"famdo/model"
	"famdo/repository"
	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/mem"
)

type StatsHandler struct {
	users         *usecase.UsersService
	todos         *usecase.TodosService
	relationships *usecase.RelationshipsService
	family        *usecase.FamilyService
	sessionRepo   *repository.SessionRepo

	startedAt time.Time
}

func NewStatsHandler(
	users *usecase.UsersService,
	todos *usecase.TodosService,
	relationships *usecase.RelationshipsService,
	family *usecase.FamilyService,
	sessionRepo *repository.SessionRepo,
) *StatsHandler {
	return &StatsHandler{
		users:         users,
		todos:         todos,
		relationships: relationships,
		family:        family,
		sessionRepo:   sessionRepo,
		startedAt:     time.Now(),
	}
}

func (h *StatsHandler) GetUserStats(c *gin.Context) {
	ctx := c.Request.Context()
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	user, err := h.users.GetProfile(ctx, userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	var stats model.UserStats

	todoStats, err := h.todos.GetUserStats(ctx, userID.(string))
	if err != nil {
		log.Printf("Error computing todo stats for %s: %v", userID, err)
		utils.InternalError(c, "Failed to compute todo stats")
		return
	}
	stats.TodoStats = *todoStats

	pending, _, err := h.relationships.ListPending(ctx, userID.(string))
	if err != nil {
		log.Printf("Error listing pending invites for %s: %v", userID, err)
		utils.InternalError(c, "Failed to list pending invitations")
		return
	}
	stats.FamilyStats.PendingInvites = len(pending)

	accepted, err := h.relationships.ListAccepted(ctx, userID.(string))
	if err != nil {
		log.Printf("Error listing family members for %s: %v", userID, err)
		utils.InternalError(c, "Failed to list family members")
		return
	}
	stats.FamilyStats.AcceptedMembers = len(accepted)

	if user.FamilyID != "" {
		stats.FamilyStats.InFamily = true
		if _, members, err := h.family.GetFamily(ctx, userID.(string)); err == nil {
			stats.FamilyStats.Members = len(members)
		} else {
			log.Printf("Error fetching family for %s: %v", userID, err)
		}
	}

	sessions, err := h.sessionRepo.GetUserActiveSessions(ctx, userID.(string))
	if err != nil {
		log.Printf("Error getting sessions: %v", err)
		utils.InternalError(c, "Failed to get sessions")
		return
	}

	stats.ActivityStats.AccountCreated = user.CreatedAt
	stats.ActivityStats.TotalSessions = len(sessions)
	for _, session := range sessions {
		if session.LastActivityAt.After(stats.ActivityStats.LastActive) {
			stats.ActivityStats.LastActive = session.LastActivityAt
		}
	}

	utils.Success(c, gin.H{"stats": stats})
}

// HealthCheck reports process and host vitals for monitoring probes.
func (h *StatsHandler) HealthCheck(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	health := gin.H{
		"status":     "ok",
		"uptime":     time.Since(h.startedAt).String(),
		"goroutines": runtime.NumGoroutine(),
		"cpu_usage":  utils.GetCPUUsage(),
		"heap_bytes": memStats.HeapAlloc,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		health["memory_used_percent"] = vm.UsedPercent
	}

	utils.Success(c, health)
}
