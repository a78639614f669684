package controllers

import (
	"errors"
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	courseValidator "logiclabs/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func CreateSection(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}
	reqData, ok := c.Locals("validatedSection").(*courseValidator.CreateSectionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, status, msg := findOwnedCourse(courseID, userId)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	section := models.Section{Title: reqData.Title, CourseID: course.ID}
	if err := database.Database.Db.Create(&section).Error; err != nil {
		log.Error().Err(err).Uint("courseId", courseID).Msg("Failed to create section")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section created successfully!", section)
}

// CreateLecture adds a lecture to a section and refreshes the course's total duration
func CreateLecture(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	sectionID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}
	reqData, ok := c.Locals("validatedLecture").(*courseValidator.CreateLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var section models.Section
	err := db.First(&section, sectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch section!", nil)
	}

	course, status, msg := findOwnedCourse(section.CourseID, userId)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	lecture := models.SubSection{
		Title:        reqData.Title,
		Description:  reqData.Description,
		TimeDuration: reqData.TimeDuration,
		VideoURL:     reqData.VideoURL,
		SectionID:    section.ID,
		CourseID:     course.ID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lecture).Error; err != nil {
			return err
		}
		return refreshTotalDuration(tx, course.ID)
	})
	if err != nil {
		log.Error().Err(err).Uint("sectionId", sectionID).Msg("Failed to create lecture")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture created successfully!", lecture)
}

// refreshTotalDuration stores the sum of the course's lecture durations
func refreshTotalDuration(tx *gorm.DB, courseID uint) error {
	var total int64
	if err := tx.Model(&models.SubSection{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(SUM(time_duration), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return tx.Model(&models.Course{}).Where("id = ?", courseID).UpdateColumn("total_duration", total).Error
}

func UpdateSection(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	sectionID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}
	reqData, ok := c.Locals("validatedSection").(*courseValidator.CreateSectionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section, status, msg := findOwnedSection(sectionID, userId)
	if section == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	section.Title = reqData.Title
	if err := database.Database.Db.Model(section).Update("title", reqData.Title).Error; err != nil {
		log.Error().Err(err).Uint("sectionId", sectionID).Msg("Failed to update section")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated successfully!", section)
}

// DeleteSection removes a section with its lectures and any completion marks on them
func DeleteSection(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	sectionID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	section, status, msg := findOwnedSection(sectionID, userId)
	if section == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var lectureIDs []uint
		if err := tx.Model(&models.SubSection{}).Where("section_id = ?", section.ID).Pluck("id", &lectureIDs).Error; err != nil {
			return err
		}
		if len(lectureIDs) > 0 {
			if err := tx.Where("sub_section_id IN ?", lectureIDs).Delete(&models.CompletedLecture{}).Error; err != nil {
				return err
			}
			if err := tx.Where("section_id = ?", section.ID).Delete(&models.SubSection{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(section).Error; err != nil {
			return err
		}
		return refreshTotalDuration(tx, section.CourseID)
	})
	if err != nil {
		log.Error().Err(err).Uint("sectionId", sectionID).Msg("Failed to delete section")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

func UpdateLecture(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lectureID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lecture ID!", nil)
	}
	reqData, ok := c.Locals("validatedLectureEdit").(*courseValidator.UpdateLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lecture, status, msg := findOwnedLecture(lectureID, userId)
	if lecture == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.TimeDuration != nil {
		updates["time_duration"] = *reqData.TimeDuration
	}
	if reqData.VideoURL != nil {
		updates["video_url"] = *reqData.VideoURL
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(lecture).Updates(updates).Error; err != nil {
			return err
		}
		if err := refreshTotalDuration(tx, lecture.CourseID); err != nil {
			return err
		}
		return tx.First(lecture, lecture.ID).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("lectureId", lectureID).Msg("Failed to update lecture")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully!", lecture)
}

func DeleteLecture(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lectureID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lecture ID!", nil)
	}

	lecture, status, msg := findOwnedLecture(lectureID, userId)
	if lecture == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_section_id = ?", lecture.ID).Delete(&models.CompletedLecture{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(lecture).Error; err != nil {
			return err
		}
		return refreshTotalDuration(tx, lecture.CourseID)
	})
	if err != nil {
		log.Error().Err(err).Uint("lectureId", lectureID).Msg("Failed to delete lecture")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully!", nil)
}

func findOwnedSection(sectionID, instructorID uint) (*models.Section, int, string) {
	var section models.Section
	err := database.Database.Db.First(&section, sectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.StatusNotFound, "Section not found!"
	}
	if err != nil {
		log.Error().Err(err).Uint("sectionId", sectionID).Msg("Failed to fetch section")
		return nil, fiber.StatusInternalServerError, "Failed to fetch section!"
	}
	if course, status, msg := findOwnedCourse(section.CourseID, instructorID); course == nil {
		return nil, status, msg
	}
	return &section, 0, ""
}

func findOwnedLecture(lectureID, instructorID uint) (*models.SubSection, int, string) {
	var lecture models.SubSection
	err := database.Database.Db.First(&lecture, lectureID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.StatusNotFound, "Lecture not found!"
	}
	if err != nil {
		log.Error().Err(err).Uint("lectureId", lectureID).Msg("Failed to fetch lecture")
		return nil, fiber.StatusInternalServerError, "Failed to fetch lecture!"
	}
	if course, status, msg := findOwnedCourse(lecture.CourseID, instructorID); course == nil {
		return nil, status, msg
	}
	return &lecture, 0, ""
}
