package reviewValidator

import (
	"logiclabs/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateReviewRequest struct {
	CourseID uint   `json:"courseId" validate:"required,gt=0"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review   string `json:"review" validate:"required,max=2000"`
}

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Review = strings.TrimSpace(reqData.Review)

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
