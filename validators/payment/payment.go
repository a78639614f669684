package paymentValidator

import (
	"logiclabs/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	CourseIDs []uint `json:"courseIds" validate:"required,min=1,unique,dive,gt=0"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
	CourseIDs []uint `json:"courseIds" validate:"required,min=1,unique,dive,gt=0"`
}

type PaymentSuccessEmailRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"` // paise
}

// CreateOrder validates the checkout basket
func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateOrderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}

// VerifyPayment validates the gateway payment triple and basket
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyPaymentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

// PaymentSuccessEmail validates the payment receipt email request
func PaymentSuccessEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PaymentSuccessEmailRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPaymentEmail", reqData)
		return c.Next()
	}
}
