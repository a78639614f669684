package progressValidator

import (
	"logiclabs/middleware"

	"github.com/gofiber/fiber/v2"
)

type MarkCompleteRequest struct {
	CourseID  uint `json:"courseId" validate:"required,gt=0"`
	LectureID uint `json:"lectureId" validate:"required,gt=0"`
}

func MarkLectureComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MarkCompleteRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCompletion", reqData)
		return c.Next()
	}
}
