package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"famdo/config"
	"famdo/handler"
	"famdo/middleware"
	"famdo/repository"
	"famdo/services"
	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"USERS_COLLECTION",
		"TODOS_COLLECTION",
		"FAMILIES_COLLECTION",
		"FAMILY_MEMBERS_COLLECTION",
		"SESSIONS_COLLECTION",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
		"PORT",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()

	dbCfg := config.LoadDatabaseConfig()
	utils.InitMongoClient(dbCfg.URI, dbCfg.MaxPoolSize, dbCfg.MinPoolSize, dbCfg.MaxConnIdleTime, dbCfg.RetryWrites)

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Printf("Token blacklist unavailable: %v", err)
		} else {
			services.TokenBlacklist = blacklist
		}

		cache, err := services.NewSessionCache(redisURL)
		if err != nil {
			log.Printf("Session cache unavailable: %v", err)
		} else {
			services.GlobalSessionCache = cache
			cache.StartCleanupTask()
		}
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Repositories
	userRepo := repository.GetUserRepo(utils.MongoClient)
	todosRepo := repository.GetTodosRepo(utils.MongoClient)
	familiesRepo := repository.GetFamiliesRepo(utils.MongoClient)
	relationshipsRepo := repository.GetRelationshipsRepo(utils.MongoClient)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient)

	if err := repository.SetupIndexes(utils.MongoClient.Database(os.Getenv("MONGO_DB"))); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// The sharing model is fixed per deployment: "pairwise" shares todos
	// person to person, "family" shares them through group membership.
	sharingModel := utils.GetEnvAsString("SHARING_MODEL", usecase.ModelPairwise)
	policy, err := usecase.NewSharingPolicy(sharingModel, userRepo)
	if err != nil {
		log.Fatalf("Invalid SHARING_MODEL: %v", err)
	}
	log.Printf("Sharing model: %s", sharingModel)

	// Services
	usersService := usecase.NewUsersService(userRepo)
	todosService := usecase.NewTodosService(todosRepo, relationshipsRepo, policy)
	relationshipsService := usecase.NewRelationshipsService(relationshipsRepo, userRepo, todosRepo)
	familyService := usecase.NewFamilyService(familiesRepo, userRepo)

	// Handlers
	todosHandler := handler.NewTodosHandler(todosService)
	relationshipsHandler := handler.NewRelationshipsHandler(relationshipsService)
	familyHandler := handler.NewFamilyHandler(familyService)
	statsHandler := handler.NewStatsHandler(usersService, todosService, relationshipsService, familyService, sessionRepo)

	router.GET("/health", middleware.CacheControlMiddleware("10"), statsHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Use(middleware.SessionMiddleware(sessionRepo))

	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, usersService)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, usersService, sessionRepo)
			})
			auth.POST("/refresh", handler.RefreshTokenHandler)
		}
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, usersService)
			})
			user.GET("/stats", statsHandler.GetUserStats)
			user.POST("/change-email", func(c *gin.Context) {
				handler.ChangeEmailHandler(c, userRepo)
			})
			user.POST("/change-password", func(c *gin.Context) {
				handler.ChangePasswordHandler(c, userRepo)
			})
			user.POST("/logout", handler.LogoutHandler)
			user.DELETE("/delete", func(c *gin.Context) {
				handler.DeleteUserHandler(c, userRepo, sessionRepo)
			})

			twofa := user.Group("/2fa")
			{
				twofa.POST("/generate", func(c *gin.Context) {
					handler.Generate2FASecretHandler(c, userRepo)
				})
				twofa.POST("/enable", func(c *gin.Context) {
					handler.Enable2FAHandler(c, userRepo)
				})
				twofa.POST("/verify", func(c *gin.Context) {
					handler.Verify2FAHandler(c, userRepo)
				})
				twofa.POST("/disable", func(c *gin.Context) {
					handler.Disable2FAHandler(c, userRepo)
				})
				twofa.POST("/recover", func(c *gin.Context) {
					handler.UseRecoveryCodeHandler(c, userRepo)
				})
			}
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessions(c, sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllSessions(c, sessionRepo)
			})
			sessions.DELETE("/:id", func(c *gin.Context) {
				handler.LogoutSession(c, sessionRepo)
			})
		}

		todos := protected.Group("/todos")
		{
			todos.GET("", todosHandler.GetUserTodos)
			todos.POST("", todosHandler.CreateTodo)
			todos.GET("/shared", todosHandler.GetSharedTodos)
			todos.GET("/date", todosHandler.GetTodosByDate)
			todos.GET("/day/:day", todosHandler.GetTodosByDay)
			todos.GET("/:id", todosHandler.GetTodo)
			todos.PATCH("/:id", todosHandler.UpdateTodo)
			todos.POST("/:id/toggle", todosHandler.ToggleTodoComplete)
			todos.POST("/:id/share", todosHandler.ShareTodo)
			todos.DELETE("/:id", todosHandler.DeleteTodo)
		}

		family := protected.Group("/family")
		{
			// Pairwise relationships
			family.POST("/invite", relationshipsHandler.Invite)
			family.GET("/invitations", relationshipsHandler.ListPending)
			family.POST("/invitations/:id/respond", relationshipsHandler.Respond)
			family.GET("/members", relationshipsHandler.ListAccepted)
			family.DELETE("/members/:id", relationshipsHandler.Remove)

			// Family groups
			family.POST("", familyHandler.CreateFamily)
			family.GET("", familyHandler.GetFamily)
			family.POST("/:id/members", familyHandler.AddMember)
			family.DELETE("/:id", familyHandler.DeleteFamily)
			family.DELETE("/:id/members/:memberId", familyHandler.RemoveMember)
		}
	}

	return router
}

func main() {
	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := utils.MongoClient.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting MongoDB: %v", err)
	}
	if services.TokenBlacklist != nil {
		services.TokenBlacklist.Close()
	}
	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.Close()
	}

	log.Println("Server exited")
}
