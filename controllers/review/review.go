package reviewController

import (
	"errors"
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	reviewValidator "logiclabs/validators/review"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateReview lets an enrolled student rate a course once
func CreateReview(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReview").(*reviewValidator.CreateReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check the student is enrolled
	var enrolled int64
	if err := db.Model(&models.CourseStudent{}).
		Where("course_id = ? AND user_id = ?", reqData.CourseID, userId).
		Count(&enrolled).Error; err != nil {
		log.Error().Err(err).Uint("courseId", reqData.CourseID).Msg("Failed to check enrollment")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review!", nil)
	}
	if enrolled == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student is not enrolled in the course", nil)
	}

	// Check if user has already reviewed this course
	var existing models.Review
	err := db.Where("course_id = ? AND user_id = ?", reqData.CourseID, userId).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course is already reviewed by the user", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Uint("courseId", reqData.CourseID).Msg("Failed to check existing review")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review!", nil)
	}

	review := models.Review{
		UserID:   userId,
		CourseID: reqData.CourseID,
		Rating:   reqData.Rating,
		Review:   reqData.Review,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return refreshAverageRating(tx, reqData.CourseID)
	})
	if err != nil {
		log.Error().Err(err).Uint("courseId", reqData.CourseID).Msg("Failed to create review")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Rating and review created successfully", review)
}

// GetAllReviews lists every review, highest rating first
func GetAllReviews(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := database.Database.Db.
		Preload("User").
		Preload("Course").
		Order("rating desc").
		Find(&reviews).Error; err != nil {
		log.Error().Err(err).Msg("Failed to fetch reviews")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All reviews fetched successfully", reviews)
}

func GetCourseReviews(c *fiber.Ctx) error {
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	var reviews []models.Review
	if err := database.Database.Db.
		Preload("User").
		Where("course_id = ?", courseID).
		Order("rating desc").
		Find(&reviews).Error; err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to fetch reviews")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course reviews fetched successfully", reviews)
}

// DeleteReview removes a review; only its author or an admin may do so
func DeleteReview(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	reviewID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review ID!", nil)
	}

	db := database.Database.Db

	var review models.Review
	err := db.First(&review, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch review!", nil)
	}

	if review.UserID != userId && role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own review!", nil)
	}

	// Hard delete so the author may review the course again
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return err
		}
		return refreshAverageRating(tx, review.CourseID)
	})
	if err != nil {
		log.Error().Err(err).Uint("reviewId", reviewID).Msg("Failed to delete review")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully", nil)
}

// refreshAverageRating stores the course's mean rating rounded to one decimal, 0 when unrated
func refreshAverageRating(tx *gorm.DB, courseID uint) error {
	var avg float64
	if err := tx.Model(&models.Review{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return err
	}
	avg = math.Round(avg*10) / 10
	return tx.Model(&models.Course{}).Where("id = ?", courseID).UpdateColumn("average_rating", avg).Error
}
