package controllers

import (
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/rs/zerolog/log"
)

type courseStats struct {
	ID                       uint   `json:"id"`
	Title                    string `json:"title"`
	Status                   string `json:"status"`
	Price                    int64  `json:"price"`
	NumberOfEnrolledStudents int64  `json:"numberOfEnrolledStudents"`
	TotalAmountGenerated     int64  `json:"totalAmountGenerated"`
	EnrolledToday            int64  `json:"enrolledToday"`
}

// InstructorStats summarises enrollments and revenue for each course of the instructor
func InstructorStats(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var courses []models.Course
	if err := db.Where("instructor_id = ?", userId).Order("created_at desc").Find(&courses).Error; err != nil {
		log.Error().Err(err).Uint("instructorId", userId).Msg("Failed to fetch instructor courses")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	startOfDay := now.BeginningOfDay()
	endOfDay := now.EndOfDay()

	stats := make([]courseStats, 0, len(courses))
	var totalStudents, totalRevenue int64
	for _, course := range courses {
		var today int64
		if err := db.Model(&models.CourseStudent{}).
			Where("course_id = ? AND created_at BETWEEN ? AND ?", course.ID, startOfDay, endOfDay).
			Count(&today).Error; err != nil {
			log.Error().Err(err).Uint("courseId", course.ID).Msg("Failed to count today's enrollments")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
		}

		revenue := course.Price * course.EnrolledCount
		totalStudents += course.EnrolledCount
		totalRevenue += revenue

		stats = append(stats, courseStats{
			ID:                       course.ID,
			Title:                    course.Title,
			Status:                   course.Status,
			Price:                    course.Price,
			NumberOfEnrolledStudents: course.EnrolledCount,
			TotalAmountGenerated:     revenue,
			EnrolledToday:            today,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor stats fetched successfully!", fiber.Map{
		"courses":       stats,
		"totalStudents": totalStudents,
		"totalRevenue":  totalRevenue,
	})
}
