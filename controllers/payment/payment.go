package paymentController

import (
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	"logiclabs/services/checkout"
	"logiclabs/services/mail"
	paymentValidator "logiclabs/validators/payment"

	"github.com/gofiber/fiber/v2"
)

var _ middleware.APIError = (*checkout.Error)(nil)

// CreateOrder prices the basket and opens a gateway order
func CreateOrder(svc *checkout.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		reqData, ok := c.Locals("validatedOrder").(*paymentValidator.CreateOrderRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		order, err := svc.CreateOrder(c.UserContext(), userID, reqData.CourseIDs)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Order created successfully!", order)
	}
}

// VerifyPayment checks the gateway signature and enrolls the student in the paid courses
func VerifyPayment(svc *checkout.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		reqData, ok := c.Locals("validatedPayment").(*paymentValidator.VerifyPaymentRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		result, err := svc.VerifyPayment(c.UserContext(), checkout.VerifyRequest{
			OrderID:   reqData.OrderID,
			PaymentID: reqData.PaymentID,
			Signature: reqData.Signature,
			CourseIDs: reqData.CourseIDs,
			UserID:    userID,
		})
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment Verified and Student enrolled in Courses", result)
	}
}

// SendPaymentSuccessEmail queues the "Payment Received" email for the current student
func SendPaymentSuccessEmail(notifications *mail.Notifications) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		reqData, ok := c.Locals("validatedPaymentEmail").(*paymentValidator.PaymentSuccessEmailRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		var user models.User
		if err := database.Database.Db.First(&user, userID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		// Only payments we verified for this student get a receipt
		var txn models.PaymentTransaction
		if err := database.Database.Db.
			Where("payment_id = ? AND order_id = ? AND user_id = ?", reqData.PaymentID, reqData.OrderID, userID).
			First(&txn).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No such payment found!", nil)
		}

		notifications.PaymentReceived(user, reqData.Amount, reqData.OrderID, reqData.PaymentID)

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment success email sent successfully", nil)
	}
}

// GetPaymentHistory returns the student's verified payments, newest first
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&models.PaymentTransaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	var transactions []models.PaymentTransaction
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
