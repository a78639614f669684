package authRoutes

import (
	authControllers "logiclabs/controllers/auth"
	"logiclabs/middleware"
	"logiclabs/services/mail"
	authValidators "logiclabs/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, notifications *mail.Notifications) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Post("/logout", middleware.JWTMiddleware, authControllers.Logout)
	authGroup.Put("/changepassword", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword(notifications))
}
