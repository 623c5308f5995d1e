package routes

import (
	"tastebook/internal/api/handlers"
	"tastebook/internal/middleware"
	"tastebook/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	SocialHandler       handlers.SocialHandler
	RecipeHandler       handlers.RecipeHandler
	RatingHandler       handlers.RatingHandler
	CommentHandler      handlers.CommentHandler
	PlannerHandler      handlers.PlannerHandler
	ReportHandler       handlers.ReportHandler
	NotificationHandler handlers.NotificationHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Social()
	c.Recipes()
	c.Planner()
	c.Reports()
	c.Notifications()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
		user.Get("/profile/:handle", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.UserHandler.GetProfile)
	}
}

func (c *Config) Social() {
	social := c.App.Group("/api/v1/social", c.Middleware.AuthMiddleware(c.JWTService))
	{
		social.Post("/follow/:id", c.SocialHandler.Follow)
		social.Delete("/follow/:id", c.SocialHandler.Unfollow)
		social.Delete("/requests/to/:id", c.SocialHandler.CancelRequest)
		social.Get("/requests", c.SocialHandler.GetRequests)
		social.Post("/requests/:id/accept", c.SocialHandler.AcceptRequest)
		social.Post("/requests/:id/reject", c.SocialHandler.RejectRequest)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")

	// Public listing surfaces go through visibility scoping with an
	// optional caller identity.
	recipes.Get("/surprise", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetSurprise)
	recipes.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetRecipeDetail)
	recipes.Get("/:id/comments", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.CommentHandler.GetComments)
	recipes.Get("/:id/ratings", c.RatingHandler.GetAggregate)

	authed := recipes.Group("", c.Middleware.AuthMiddleware(c.JWTService))
	{
		authed.Post("", c.RecipeHandler.CreateRecipe)
		authed.Patch("/:id", c.RecipeHandler.UpdateRecipe)
		authed.Delete("/:id", c.RecipeHandler.DeleteRecipe)
		authed.Post("/:id/image", c.RecipeHandler.UploadRecipeImage)
	}

	dashboard := c.App.Group("/api/v1/dashboard", c.Middleware.AuthMiddleware(c.JWTService))
	dashboard.Get("", c.RecipeHandler.GetDashboard)

	ratings := c.App.Group("/api/v1/ratings", c.Middleware.AuthMiddleware(c.JWTService))
	ratings.Post("", c.RatingHandler.RateRecipe)

	comments := c.App.Group("/api/v1/comments", c.Middleware.AuthMiddleware(c.JWTService))
	{
		comments.Post("", c.CommentHandler.AddComment)
		comments.Delete("/:id", c.CommentHandler.DeleteComment)
	}
}

func (c *Config) Planner() {
	planner := c.App.Group("/api/v1/planner", c.Middleware.AuthMiddleware(c.JWTService))
	{
		planner.Post("/meals", c.PlannerHandler.AddToPlan)
		planner.Delete("/meals/:id", c.PlannerHandler.RemoveFromPlan)
		planner.Get("", c.PlannerHandler.GetPlan)
		planner.Get("/events", c.PlannerHandler.GetEvents)
		planner.Get("/ingredients", c.PlannerHandler.GetIngredients)
	}
}

func (c *Config) Reports() {
	reports := c.App.Group("/api/v1/reports", c.Middleware.AuthMiddleware(c.JWTService))
	reports.Post("", c.ReportHandler.SubmitReport)

	admin := c.App.Group("/api/v1/admin/reports",
		c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.StaffMiddleware())
	{
		admin.Get("", c.ReportHandler.GetPendingReports)
		admin.Post("/bulk", c.ReportHandler.BulkResolve)
		admin.Post("/:id/resolve", c.ReportHandler.ResolveReport)
	}

	content := c.App.Group("/api/v1/admin/content",
		c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.StaffMiddleware())
	content.Post("/restore", c.ReportHandler.RestoreContent)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))
	{
		notifications.Get("", c.NotificationHandler.GetNotifications)
		notifications.Get("/unread-count", c.NotificationHandler.GetUnreadCount)
		notifications.Post("/:id/read", c.NotificationHandler.MarkRead)
		notifications.Post("/read-all", c.NotificationHandler.MarkAllRead)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
