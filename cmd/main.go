package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/vuhoang/skillmint/config"
	"github.com/vuhoang/skillmint/database"
	_ "github.com/vuhoang/skillmint/docs" // Swagger docs - auto-generated
	"github.com/vuhoang/skillmint/internal/chain"
	adminctrl "github.com/vuhoang/skillmint/internal/controller/admin"
	authctrl "github.com/vuhoang/skillmint/internal/controller/auth"
	chainctrl "github.com/vuhoang/skillmint/internal/controller/blockchain"
	userctrl "github.com/vuhoang/skillmint/internal/controller/user"
	"github.com/vuhoang/skillmint/internal/logger"
	"github.com/vuhoang/skillmint/internal/model"
	"github.com/vuhoang/skillmint/internal/repository"
	"github.com/vuhoang/skillmint/internal/service"
	"github.com/vuhoang/skillmint/internal/storage"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title SkillMint API
// @version 1.0
// @description Wallet-authenticated skill tests with on-chain registration and NFT badge rewards.
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			chain.NewClient,
			storage.NewObjectStore,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewTestRepository,
			repository.NewAttemptRepository,
			repository.NewBadgeRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewMetadataService,
			service.NewAuthService,
			service.NewAdminTestService,
			service.NewUserTestService,
			service.NewRegistrationService,
			service.NewIssuanceService,
			service.NewAttemptService,
		),

		// API Controllers Layer
		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewAdminTestController,
			userctrl.NewUserTestController,
			chainctrl.NewBlockchainController,
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
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Route gin's request log through zerolog.
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

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *authctrl.AuthController,
	adminTestCtrl *adminctrl.AdminTestController,
	userTestCtrl *userctrl.UserTestController,
	blockchainCtrl *chainctrl.BlockchainController,
) {
	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/wallet", authCtrl.WalletLogin)
		authGroup.GET("/user/:walletAddress", authCtrl.GetUser)

		adminGroup := api.Group("/admin")
		adminGroup.POST("/tests", adminTestCtrl.CreateTest)

		api.GET("/tests", userTestCtrl.GetAllTests)
		api.GET("/tests/:test_id", userTestCtrl.GetTestDetails)
		api.POST("/tests/:test_id/attempts", userTestCtrl.SubmitAttempt)
		api.GET("/tests/:test_id/my-attempts", userTestCtrl.GetMyAttempts)
		api.GET("/wallets/:wallet/badges", userTestCtrl.GetWalletBadges)
		api.POST("/badges/:test_id/retry", userTestCtrl.RetryMint)

		chainGroup := api.Group("/blockchain")
		chainGroup.POST("/register-test", blockchainCtrl.RegisterTest)
		chainGroup.POST("/mint-nft", blockchainCtrl.MintNFT)
		chainGroup.GET("/test/:test_id", blockchainCtrl.GetChainTest)
		chainGroup.GET("/tests", blockchainCtrl.ListChainTests)
		chainGroup.GET("/token/:token_id/uri", blockchainCtrl.GetTokenURI)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("SkillMint API server starting on port %s", cfg.Server.Port)
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
		&model.Test{},
		&model.Question{},
		&model.Attempt{},
		&model.Badge{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
