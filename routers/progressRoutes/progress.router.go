package progressRoutes

import (
	progressControllers "logiclabs/controllers/progress"
	"logiclabs/middleware"
	"logiclabs/models"
	progressValidators "logiclabs/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent))

	progressGroup.Post("/complete", progressValidators.MarkLectureComplete(), progressControllers.MarkLectureComplete)
}
