package config

import (
	"os"
	"time"

	"tastebook/internal/api/handlers"
	"tastebook/internal/api/routes"
	"tastebook/internal/middleware"
	"tastebook/internal/utils"
	"tastebook/internal/utils/storage"
	"tastebook/pkg/comment"
	"tastebook/pkg/jwt"
	"tastebook/pkg/notification"
	"tastebook/pkg/planner"
	"tastebook/pkg/rating"
	"tastebook/pkg/recipe"
	"tastebook/pkg/report"
	"tastebook/pkg/social"
	"tastebook/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	viewerWindow := utils.NewViewerWindow(utils.DefaultViewerWindowTTL)

	// Repository
	userRepository := user.NewUserRepository(db)
	socialRepository := social.NewSocialRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	ratingRepository := rating.NewRatingRepository(db)
	commentRepository := comment.NewCommentRepository(db)
	plannerRepository := planner.NewPlannerRepository(db)
	reportRepository := report.NewReportRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	notificationService := notification.NewNotificationService(notificationRepository)
	socialService := social.NewSocialService(socialRepository, userRepository, notificationService)
	userService := user.NewUserService(userRepository, jwtService, socialService)
	recipeService := recipe.NewRecipeService(recipeRepository, viewerWindow, s3)
	ratingService := rating.NewRatingService(ratingRepository, recipeRepository, userRepository, notificationService)
	commentService := comment.NewCommentService(commentRepository, recipeRepository, userRepository, notificationService)
	plannerService := planner.NewPlannerService(plannerRepository, recipeRepository)
	reportService := report.NewReportService(reportRepository, recipeRepository, commentRepository, userRepository, notificationService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, recipeService, socialService, validator)
	socialHandler := handlers.NewSocialHandler(socialService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	ratingHandler := handlers.NewRatingHandler(ratingService, validator)
	commentHandler := handlers.NewCommentHandler(commentService, validator)
	plannerHandler := handlers.NewPlannerHandler(plannerService, validator)
	reportHandler := handlers.NewReportHandler(reportService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		SocialHandler:       socialHandler,
		RecipeHandler:       recipeHandler,
		RatingHandler:       ratingHandler,
		CommentHandler:      commentHandler,
		PlannerHandler:      plannerHandler,
		ReportHandler:       reportHandler,
		NotificationHandler: notificationHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
