package courseValidator

import (
	"logiclabs/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type ListRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type CreateCourseRequest struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Description      string   `json:"description" validate:"required"`
	WhatYouWillLearn string   `json:"whatYouWillLearn" validate:"required"`
	Price            int64    `json:"price" validate:"gte=0"`
	Tags             []string `json:"tags" validate:"required,min=1,dive,required"`
	Thumbnail        string   `json:"thumbnail" validate:"required"`
	Instructions     []string `json:"instructions"`
	CategoryID       uint     `json:"categoryId" validate:"omitempty,gt=0"`
}

// EditCourseRequest carries only the fields being changed
type EditCourseRequest struct {
	Title            *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description      *string  `json:"description" validate:"omitempty,min=1"`
	WhatYouWillLearn *string  `json:"whatYouWillLearn" validate:"omitempty,min=1"`
	Price            *int64   `json:"price" validate:"omitempty,gte=0"`
	Tags             []string `json:"tags" validate:"omitempty,min=1,dive,required"`
	Instructions     []string `json:"instructions"`
	Thumbnail        *string  `json:"thumbnail" validate:"omitempty,min=1"`
	CategoryID       *uint    `json:"categoryId" validate:"omitempty,gt=0"`
}

func (r *EditCourseRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.WhatYouWillLearn == nil && r.Price == nil &&
		len(r.Tags) == 0 && r.Instructions == nil && r.Thumbnail == nil && r.CategoryID == nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Draft Published"`
}

type CreateSectionRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type UpdateLectureRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description"`
	TimeDuration *int64  `json:"timeDuration" validate:"omitempty,gte=0"`
	VideoURL     *string `json:"videoUrl" validate:"omitempty,min=1"`
}

type CreateLectureRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	TimeDuration int64  `json:"timeDuration" validate:"gte=0"`
	VideoURL     string `json:"videoUrl" validate:"required"`
}

// CourseList validates pagination, defaulting to page 1 of 10
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page < 0 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit < 0 || reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 1 and 100!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Page == 0 {
			reqData.Page = 1
		}
		if reqData.Limit == 0 {
			reqData.Limit = 10
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// IDParam validates a positive numeric route parameter and stores it under the same name
func IDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(name))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "ID is required!", nil)
		}

		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID!", nil)
		}

		c.Locals(name, uint(id))
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

func CreateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateSectionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

func CreateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

func EditCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EditCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title != nil {
			title := strings.TrimSpace(*reqData.Title)
			reqData.Title = &title
		}

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		if reqData.empty() {
			return middleware.ValidationErrorResponse(c, map[string]string{"body": "Nothing to update!"})
		}

		c.Locals("validatedCourseEdit", reqData)
		return c.Next()
	}
}

// UpdateSection reuses the create payload: a section only has a title
func UpdateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateSectionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

func UpdateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title != nil {
			title := strings.TrimSpace(*reqData.Title)
			reqData.Title = &title
		}

		if errors := middleware.Validate(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		if reqData.Title == nil && reqData.Description == nil && reqData.TimeDuration == nil && reqData.VideoURL == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"body": "Nothing to update!"})
		}

		c.Locals("validatedLectureEdit", reqData)
		return c.Next()
	}
}
