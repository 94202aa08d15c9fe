package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizshare/api/config"
	"github.com/quizshare/api/database"
	"github.com/quizshare/api/internal/cache"
	"github.com/quizshare/api/internal/controller"
	"github.com/quizshare/api/internal/logger"
	"github.com/quizshare/api/internal/middleware"
	"github.com/quizshare/api/internal/model"
	"github.com/quizshare/api/internal/repository"
	"github.com/quizshare/api/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quiz Share API
// @version 1.0
// @description Quiz authoring and sharing backend: owned quizzes with questions and choices, share codes, and completion history.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewRedisClient,
			cache.NewShareCache,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewHistoryRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewQuizService,
			service.NewShareService,
			service.NewHistoryService,
		),

		fx.Provide(
			controller.NewAuthController,
			controller.NewQuizController,
			controller.NewQuestionController,
			controller.NewShareController,
			controller.NewHistoryController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Docs are generated with `swag init`; the handler serves whatever spec
	// was registered at build time.
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API routes and manages the HTTP
// server lifecycle. Every route except register/login sits behind the JWT
// middleware; share resolution too, matching the mobile client's sessions.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *controller.AuthController,
	quizCtrl *controller.QuizController,
	questionCtrl *controller.QuestionController,
	shareCtrl *controller.ShareController,
	historyCtrl *controller.HistoryController,
) {
	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.GET("/me", middleware.Auth(cfg.Auth.JWTSecret), authCtrl.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.Auth.JWTSecret))
	{
		quizzes := authed.Group("/quizzes")
		quizzes.POST("", quizCtrl.CreateQuiz)
		quizzes.GET("", quizCtrl.ListQuizzes)
		quizzes.GET("/:quiz_id", quizCtrl.GetQuiz)
		quizzes.PUT("/:quiz_id", quizCtrl.UpdateQuiz)
		quizzes.DELETE("/:quiz_id", quizCtrl.DeleteQuiz)
		quizzes.POST("/:quiz_id/questions", quizCtrl.AddQuestion)

		questions := authed.Group("/questions")
		questions.PUT("/:question_id", questionCtrl.UpdateQuestion)
		questions.DELETE("/:question_id", questionCtrl.DeleteQuestion)

		share := authed.Group("/share")
		share.POST("/:quiz_id/generate-code", shareCtrl.GenerateCode)
		share.DELETE("/:quiz_id/revoke-code", shareCtrl.RevokeCode)
		share.GET("/code/:code", shareCtrl.ResolveSummary)
		share.GET("/code/:code/full", shareCtrl.ResolveFull)
		share.GET("/my-shared", shareCtrl.ListShared)

		history := authed.Group("/history")
		history.POST("", historyCtrl.Record)
		history.GET("", historyCtrl.List)
		history.GET("/stats", historyCtrl.Stats)
		history.DELETE("/:history_id", historyCtrl.Delete)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz Share API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.HistoryEntry{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully")
	return nil
}
