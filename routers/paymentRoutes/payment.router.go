package paymentRoutes

import (
	paymentControllers "logiclabs/controllers/payment"
	"logiclabs/middleware"
	"logiclabs/models"
	"logiclabs/services/checkout"
	"logiclabs/services/mail"
	paymentValidators "logiclabs/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App, svc *checkout.Service, notifications *mail.Notifications) {
	paymentGroup := app.Group("/payment", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent))

	paymentGroup.Post("/createorder", paymentValidators.CreateOrder(), paymentControllers.CreateOrder(svc))
	paymentGroup.Post("/verify", paymentValidators.VerifyPayment(), paymentControllers.VerifyPayment(svc))
	paymentGroup.Post("/success-email", paymentValidators.PaymentSuccessEmail(), paymentControllers.SendPaymentSuccessEmail(notifications))
	paymentGroup.Get("/history", paymentControllers.GetPaymentHistory)
}
