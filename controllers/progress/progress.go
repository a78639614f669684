package progressController

import (
	"errors"
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	progressValidator "logiclabs/validators/progress"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MarkLectureComplete adds a lecture to the student's completed set for the course.
// Marking the same lecture twice is a no-op.
func MarkLectureComplete(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCompletion").(*progressValidator.MarkCompleteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var lecture models.SubSection
	err := db.Where("id = ? AND course_id = ?", reqData.LectureID, reqData.CourseID).First(&lecture).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid lecture!", nil)
	}
	if err != nil {
		log.Error().Err(err).Uint("lectureId", reqData.LectureID).Msg("Failed to fetch lecture")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	// The progress record only exists for enrolled students
	var progress models.CourseProgress
	err = db.Where("course_id = ? AND user_id = ?", reqData.CourseID, userId).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress does not exist!", nil)
	}
	if err != nil {
		log.Error().Err(err).Uint("courseId", reqData.CourseID).Msg("Failed to fetch course progress")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	completion := models.CompletedLecture{CourseProgressID: progress.ID, SubSectionID: lecture.ID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
		log.Error().Err(err).Uint("courseProgressId", progress.ID).Msg("Failed to mark lecture complete")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if err := db.Preload("CompletedLectures").First(&progress, progress.ID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress updated", progress)
}
