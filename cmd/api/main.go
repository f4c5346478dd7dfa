package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizzy-api/internal/config"
	"github.com/yourusername/quizzy-api/internal/handler"
	"github.com/yourusername/quizzy-api/internal/identity"
	"github.com/yourusername/quizzy-api/internal/middleware"
	pgRepo "github.com/yourusername/quizzy-api/internal/repository/postgres"
	"github.com/yourusername/quizzy-api/internal/service"
	"github.com/yourusername/quizzy-api/pkg/auth"
	"github.com/yourusername/quizzy-api/pkg/auth/manager"
	"github.com/yourusername/quizzy-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	documentRepo := pgRepo.NewDocumentRepo(db)
	outputRepo := pgRepo.NewOutputRepo(db)
	sessionRepo := pgRepo.NewStudySessionRepo(db)

	// External identity verifier
	verifier, err := identity.NewFirebaseVerifier(cfg.Firebase)
	if err != nil {
		log.Printf("Failed to initialize identity verifier: %v", err)
		os.Exit(1)
	}

	// Session tokens and cookie transport
	sessionTTL := time.Duration(cfg.JWT.ExpirationMinutes) * time.Minute
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, sessionTTL)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	cookieManager := manager.NewSessionCookieManager()
	cookieManager.SetProductionMode(cfg.IsProduction())
	cookieManager.SetCookieMaxAge(sessionTTL)

	// Services
	authService, err := service.NewAuthService(userRepo, verifier, jwtService, sessionTTL)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	studyService, err := service.NewStudyService(documentRepo, outputRepo, sessionRepo)
	if err != nil {
		log.Printf("Failed to initialize StudyService: %v", err)
		os.Exit(1)
	}

	// Handlers and middleware
	userHandler := handler.NewUserHandler(authService, cookieManager)
	studyHandler := handler.NewStudyHandler(studyService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, cookieManager)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	if cfg.IsProduction() {
		// Behind a load balancer, replace nil with its address list.
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	users := router.Group("/users")
	{
		users.GET("/health", userHandler.Health)
		users.POST("/signup", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), userHandler.Signup)
		users.POST("/login", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), userHandler.Login)
		users.POST("/logout", userHandler.Logout)

		authedUsers := users.Group("/")
		authedUsers.Use(authMiddleware.RequireAuth())
		{
			authedUsers.GET("/me", userHandler.Me)
			authedUsers.PUT("/me", userHandler.UpdateProfile)
		}
	}

	documents := router.Group("/documents")
	documents.Use(authMiddleware.RequireAuth())
	documents.Use(rateLimiter.Limit(middleware.DefaultUserRateLimitConfig()))
	{
		documents.POST("", studyHandler.RegisterDocument)
		documents.GET("", studyHandler.ListDocuments)

		docWithID := documents.Group("/:id")
		docWithID.Use(middleware.ExtractUintParam("id", "document_id"))
		{
			docWithID.GET("", studyHandler.GetDocument)
			docWithID.PATCH("/status", studyHandler.UpdateDocumentStatus)
			docWithID.GET("/outputs", studyHandler.ListOutputs)
		}
	}

	sessions := router.Group("/sessions")
	sessions.Use(authMiddleware.RequireAuth())
	sessions.Use(rateLimiter.Limit(middleware.DefaultUserRateLimitConfig()))
	{
		sessions.POST("", studyHandler.CreateSession)
		sessions.GET("", studyHandler.ListSessions)

		sessionWithID := sessions.Group("/:id")
		sessionWithID.Use(middleware.ExtractUintParam("id", "session_id"))
		{
			sessionWithID.GET("", studyHandler.GetSession)
			sessionWithID.POST("/documents", studyHandler.AttachDocument)
			sessionWithID.GET("/documents", studyHandler.ListSessionDocuments)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
