package controllers

import (
	"errors"
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type enrolledCourse struct {
	models.Course
	EnrolledAt         time.Time `json:"enrolledAt"`
	TotalLectures      int64     `json:"totalLectures"`
	CompletedLectures  int64     `json:"completedLectures"`
	ProgressPercentage float64   `json:"progressPercentage"`
}

// GetEnrolledCourses lists the student's owned courses with their completion percentage
func GetEnrolledCourses(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var owned []models.UserCourse
	if err := db.Preload("Course").
		Where("user_id = ?", userId).
		Order("created_at desc").
		Find(&owned).Error; err != nil {
		log.Error().Err(err).Uint("userId", userId).Msg("Failed to fetch enrolled courses")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrolled courses!", nil)
	}

	result := make([]enrolledCourse, 0, len(owned))
	for _, uc := range owned {
		var total, completed int64
		if err := db.Model(&models.SubSection{}).Where("course_id = ?", uc.CourseID).Count(&total).Error; err != nil {
			log.Error().Err(err).Uint("courseId", uc.CourseID).Msg("Failed to count lectures")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrolled courses!", nil)
		}
		if err := db.Model(&models.CompletedLecture{}).Where("course_progress_id = ?", uc.CourseProgressID).Count(&completed).Error; err != nil {
			log.Error().Err(err).Uint("courseId", uc.CourseID).Msg("Failed to count completed lectures")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrolled courses!", nil)
		}

		result = append(result, enrolledCourse{
			Course:             uc.Course,
			EnrolledAt:         uc.CreatedAt,
			TotalLectures:      total,
			CompletedLectures:  completed,
			ProgressPercentage: progressPercentage(completed, total),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", result)
}

// GetEnrolledCourseContent serves a published course with lecture videos to a student enrolled in it,
// along with the lectures they have completed
func GetEnrolledCourseContent(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	db := database.Database.Db

	var course models.Course
	err := withContent(db).
		Where("id = ? AND status = ?", courseID, models.CoursePublished).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to fetch course")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	var enrolled int64
	if err := db.Model(&models.CourseStudent{}).
		Where("course_id = ? AND user_id = ?", courseID, userId).
		Count(&enrolled).Error; err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to check enrollment")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	if enrolled == 0 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Student is not enrolled in this course!", nil)
	}

	var progress models.CourseProgress
	err = db.Preload("CompletedLectures").
		Where("course_id = ? AND user_id = ?", courseID, userId).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress not found!", nil)
	}
	if err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to fetch course progress")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	var totalVideos int
	for _, section := range course.Sections {
		totalVideos += len(section.SubSections)
	}
	completed := make([]uint, 0, len(progress.CompletedLectures))
	for _, cl := range progress.CompletedLectures {
		completed = append(completed, cl.SubSectionID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"course":          course,
		"completedVideos": completed,
		"totalNoOfVideos": totalVideos,
		"totalDuration":   course.TotalDuration,
	})
}

// progressPercentage is rounded to two decimals; a course with no lectures is 0% done
func progressPercentage(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
