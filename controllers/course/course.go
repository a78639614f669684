package controllers

import (
	"errors"
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	courseValidator "logiclabs/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetAllCourses lists published courses, newest first
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.ListRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := reqData.Page
	limit := reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).Where("status = ?", models.CoursePublished)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Error().Err(err).Msg("Failed to count courses")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []models.Course
	if err := db.Preload("Instructor").
		Offset(offset).Limit(limit).Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a published course with its sections and lectures.
// Lecture videos are only served to enrolled students, so their URLs are blanked here.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	var course models.Course
	err := withContent(database.Database.Db).
		Where("id = ? AND status = ?", courseID, models.CoursePublished).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to fetch course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	for i := range course.Sections {
		for j := range course.Sections[i].SubSections {
			course.Sections[i].SubSections[j].VideoURL = ""
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", course)
}

// CreateCourse creates a Draft course owned by the calling instructor
func CreateCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.CategoryID != 0 {
		if status, msg := checkCategory(reqData.CategoryID); status != 0 {
			return middleware.JsonResponse(c, status, false, msg, nil)
		}
	}

	course := models.Course{
		Title:            reqData.Title,
		Description:      reqData.Description,
		WhatYouWillLearn: reqData.WhatYouWillLearn,
		InstructorID:     userId,
		Price:            reqData.Price,
		Tags:             reqData.Tags,
		Instructions:     reqData.Instructions,
		Thumbnail:        reqData.Thumbnail,
		Status:           models.CourseDraft,
	}
	if reqData.CategoryID != 0 {
		course.CategoryID = &reqData.CategoryID
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Error().Err(err).Uint("instructorId", userId).Msg("Failed to create course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourseStatus publishes or unpublishes a course of the calling instructor
func UpdateCourseStatus(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}
	reqData, ok := c.Locals("validatedStatus").(*courseValidator.UpdateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, status, msg := findOwnedCourse(courseID, userId)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	if err := database.Database.Db.Model(course).Update("status", reqData.Status).Error; err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to update course status")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	log.Info().Uint("courseId", courseID).Str("status", reqData.Status).Msg("Course status changed")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// EditCourse changes the fields present in the request on a course of the calling instructor
func EditCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}
	reqData, ok := c.Locals("validatedCourseEdit").(*courseValidator.EditCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, status, msg := findOwnedCourse(courseID, userId)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.WhatYouWillLearn != nil {
		updates["what_you_will_learn"] = *reqData.WhatYouWillLearn
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if len(reqData.Tags) > 0 {
		updates["tags"] = datatypes.NewJSONSlice(reqData.Tags)
	}
	if reqData.Instructions != nil {
		updates["instructions"] = datatypes.NewJSONSlice(reqData.Instructions)
	}
	if reqData.Thumbnail != nil {
		updates["thumbnail"] = *reqData.Thumbnail
	}
	if reqData.CategoryID != nil {
		if status, msg := checkCategory(*reqData.CategoryID); status != 0 {
			return middleware.JsonResponse(c, status, false, msg, nil)
		}
		updates["category_id"] = *reqData.CategoryID
	}

	db := database.Database.Db
	if err := db.Model(course).Updates(updates).Error; err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to edit course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to edit course!", nil)
	}

	var updated models.Course
	if err := withContent(db).First(&updated, courseID).Error; err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to reload course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to edit course!", nil)
	}

	log.Info().Uint("courseId", courseID).Int("fields", len(updates)).Msg("Course edited")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", updated)
}

// DeleteCourse removes a course and its content. Courses with enrolled students cannot be deleted.
func DeleteCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	course, status, msg := findOwnedCourse(courseID, userId)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	db := database.Database.Db

	var enrolled int64
	if err := db.Model(&models.CourseStudent{}).Where("course_id = ?", courseID).Count(&enrolled).Error; err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to count enrolled students")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if enrolled > 0 || course.EnrolledCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can't delete course, some students are enrolled!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&models.SubSection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to delete course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	log.Info().Uint("courseId", courseID).Uint("instructorId", userId).Msg("Course deleted")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", course)
}

// GetFullCourseDetails returns any course of the calling instructor including lecture videos
func GetFullCourseDetails(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	var course models.Course
	err := withContent(database.Database.Db).First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to fetch course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	if course.InstructorID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not the instructor of this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", course)
}

// GetCreatedCourses lists every course of the calling instructor, drafts included
func GetCreatedCourses(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.
		Preload("Category").
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Sections.SubSections", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("instructor_id = ?", userId).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		log.Error().Err(err).Uint("instructorId", userId).Msg("Failed to fetch created courses")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// withContent preloads everything shown on a course page
func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Instructor").
		Preload("Category").
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Sections.SubSections", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

// checkCategory returns a non-zero status when the category cannot be used
func checkCategory(categoryID uint) (int, string) {
	err := database.Database.Db.First(&models.Category{}, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound, "No such category found!"
	}
	if err != nil {
		log.Error().Err(err).Uint("categoryId", categoryID).Msg("Failed to fetch category")
		return fiber.StatusInternalServerError, "Failed to fetch category!"
	}
	return 0, ""
}

// findOwnedCourse loads a course and checks it belongs to the instructor.
// On failure it returns nil with the status and message to answer with.
func findOwnedCourse(courseID, instructorID uint) (*models.Course, int, string) {
	var course models.Course
	err := database.Database.Db.First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.StatusNotFound, "Course not found!"
	}
	if err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to fetch course")
		return nil, fiber.StatusInternalServerError, "Failed to fetch course!"
	}
	if course.InstructorID != instructorID {
		return nil, fiber.StatusForbidden, "You are not the instructor of this course!"
	}
	return &course, 0, ""
}
