package categoryRoutes

import (
	categoryControllers "logiclabs/controllers/category"
	"logiclabs/middleware"
	"logiclabs/models"
	categoryValidators "logiclabs/validators/category"
	courseValidators "logiclabs/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCategoryRoutes(app *fiber.App) {
	categoryGroup := app.Group("/category")

	categoryGroup.Get("/", categoryControllers.GetAllCategories)
	categoryGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), categoryValidators.CreateCategory(), categoryControllers.CreateCategory)
	categoryGroup.Get("/:id/courses", courseValidators.IDParam("id"), categoryControllers.GetCategoryPageDetails)
}
