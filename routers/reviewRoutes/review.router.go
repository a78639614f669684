package reviewRoutes

import (
	reviewControllers "logiclabs/controllers/review"
	"logiclabs/middleware"
	"logiclabs/models"
	courseValidators "logiclabs/validators/course"
	reviewValidators "logiclabs/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App) {
	reviewGroup := app.Group("/review")

	reviewGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), reviewValidators.CreateReview(), reviewControllers.CreateReview)
	reviewGroup.Get("/list", reviewControllers.GetAllReviews)
	reviewGroup.Get("/course/:id", courseValidators.IDParam("id"), reviewControllers.GetCourseReviews)
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, courseValidators.IDParam("id"), reviewControllers.DeleteReview)
}
